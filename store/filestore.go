// Package store persists wardrobe items.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/google/uuid"
)

// FileStore implements wardrobe.ItemStore using file-based storage. Every
// mutation rewrites the whole file; the store is meant for single-process
// deployments.
type FileStore struct {
	filepath string

	mu    sync.RWMutex
	items map[string]wardrobe.Item
}

var _ wardrobe.ItemStore = (*FileStore)(nil)

// NewFileStore creates a file-backed item store. If the file exists its
// contents are loaded; if it doesn't, the store starts empty.
func NewFileStore(filepath string) (*FileStore, error) {
	s := &FileStore{
		filepath: filepath,
		items:    make(map[string]wardrobe.Item),
	}

	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return s, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read items from file %s: %w", filepath, err)
	}

	var items []wardrobe.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items from file %s: %w", filepath, err)
	}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s, nil
}

// save writes all items to disk. Callers hold the write lock.
func (s *FileStore) save() error {
	items := s.sortedLocked()

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	if err := os.WriteFile(s.filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write items to file %s: %w", s.filepath, err)
	}
	return nil
}

// sortedLocked returns all items ordered by creation time, oldest first,
// id as tiebreaker. Callers hold at least the read lock.
func (s *FileStore) sortedLocked() []wardrobe.Item {
	items := make([]wardrobe.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// Create stores a new item, assigning its id and timestamps.
func (s *FileStore) Create(ctx context.Context, item wardrobe.Item) (*wardrobe.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item.Name == "" {
		return nil, fmt.Errorf("item name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	item.ID = uuid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now

	s.items[item.ID] = item
	if err := s.save(); err != nil {
		delete(s.items, item.ID)
		return nil, err
	}
	return &item, nil
}

// Get returns the item with the given id.
func (s *FileStore) Get(ctx context.Context, id string) (*wardrobe.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s not found", id)
	}
	return &item, nil
}

// List returns all items ordered by creation time, oldest first.
func (s *FileStore) List(ctx context.Context) ([]wardrobe.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

// Update replaces a stored item, preserving its creation time.
func (s *FileStore) Update(ctx context.Context, item wardrobe.Item) (*wardrobe.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ID]
	if !ok {
		return nil, fmt.Errorf("item %s not found", item.ID)
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()

	s.items[item.ID] = item
	if err := s.save(); err != nil {
		s.items[item.ID] = existing
		return nil, err
	}
	return &item, nil
}

// Delete removes the item with the given id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item %s not found", id)
	}

	delete(s.items, id)
	if err := s.save(); err != nil {
		s.items[id] = existing
		return err
	}
	return nil
}
