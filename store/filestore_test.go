package store

import (
	"context"
	"path/filepath"
	"testing"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return s, path
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.Create(context.Background(), wardrobe.Item{
		Name:     "Blue Jeans",
		Category: taxonomy.Pants,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Error("Expected a generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestCreateRequiresName(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Create(context.Background(), wardrobe.Item{Category: taxonomy.Tops}); err == nil {
		t.Error("Expected error for item without name")
	}
}

func TestGetAndList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, wardrobe.Item{Name: "A", Category: taxonomy.Tops})
	b, _ := s.Create(ctx, wardrobe.Item{Name: "B", Category: taxonomy.Shoes})

	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Name != "A" {
		t.Errorf("Expected A, got %s", got.Name)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	_ = b
}

func TestGetMissingItem(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); err == nil {
		t.Error("Expected error for missing item")
	}
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := s.Create(ctx, wardrobe.Item{Name: "Tee", Category: taxonomy.Tops})

	created.Name = "Renamed Tee"
	updated, err := s.Update(ctx, *created)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Renamed Tee" {
		t.Errorf("Expected renamed item, got %s", updated.Name)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Expected CreatedAt to be preserved on update")
	}
}

func TestUpdateMissingItem(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update(context.Background(), wardrobe.Item{ID: "nope", Name: "X"})
	if err == nil {
		t.Error("Expected error updating missing item")
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, _ := s.Create(ctx, wardrobe.Item{Name: "Tee", Category: taxonomy.Tops})
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := s.Get(ctx, created.ID); err == nil {
		t.Error("Expected item to be gone after delete")
	}
	if err := s.Delete(ctx, created.ID); err == nil {
		t.Error("Expected error deleting missing item")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	created, _ := s.Create(ctx, wardrobe.Item{
		Name:     "Boots",
		Category: taxonomy.Shoes,
		Styles:   []string{"Classic"},
	})

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Expected no error reopening, got %v", err)
	}
	got, err := reopened.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Expected item to survive reopen, got %v", err)
	}
	if got.Name != "Boots" || got.Category != taxonomy.Shoes {
		t.Errorf("Unexpected reloaded item %+v", got)
	}
}

func TestCancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Create(ctx, wardrobe.Item{Name: "X"}); err == nil {
		t.Error("Expected error for cancelled context")
	}
	if _, err := s.List(ctx); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
