package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

type mockConceptClient struct {
	body      []byte
	err       error
	callCount int
}

func (m *mockConceptClient) DetectConcepts(ctx context.Context, image []byte) ([]byte, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.body, nil
}

func TestConceptClassifyRegionShape(t *testing.T) {
	body := `{"outputs": [{"data": {"regions": [{"data": {"concepts": [
		{"name": "sneaker", "value": 0.95},
		{"name": "shoe", "value": 0.91}
	]}}]}}]}`
	classifier := NewConceptClassifierWithClient(&mockConceptClient{body: []byte(body)})

	result, err := classifier.Classify(context.Background(), []byte{1}, "shoe.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.PredictedLabel != "sneaker" {
		t.Errorf("Expected sneaker, got %s", result.PredictedLabel)
	}
	if result.Category != taxonomy.Shoes {
		t.Errorf("Expected SHOES, got %s", result.Category)
	}
	if result.Confidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %f", result.Confidence)
	}
}

func TestConceptClassifyFlatShapeFallback(t *testing.T) {
	body := `{"concepts": [{"name": "dress", "value": 0.88}]}`
	classifier := NewConceptClassifierWithClient(&mockConceptClient{body: []byte(body)})

	result, err := classifier.Classify(context.Background(), []byte{1}, "dress.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Category != taxonomy.Dress {
		t.Errorf("Expected DRESS, got %s", result.Category)
	}
}

func TestConceptClassifyRegionShapeWinsOverFlat(t *testing.T) {
	// When both shapes are present the region extractor runs first.
	body := `{
		"outputs": [{"data": {"regions": [{"data": {"concepts": [{"name": "handbag", "value": 0.9}]}}]}}],
		"concepts": [{"name": "dress", "value": 0.99}]
	}`
	classifier := NewConceptClassifierWithClient(&mockConceptClient{body: []byte(body)})

	result, err := classifier.Classify(context.Background(), []byte{1}, "bag.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.PredictedLabel != "handbag" {
		t.Errorf("Expected region-shape winner handbag, got %s", result.PredictedLabel)
	}
}

func TestConceptClassifyEmptyResponseFallsBack(t *testing.T) {
	classifier := NewConceptClassifierWithClient(&mockConceptClient{body: []byte(`{"outputs": []}`)})

	result, err := classifier.Classify(context.Background(), []byte{1}, "x.jpg")
	if err != nil {
		t.Fatalf("Expected fallback result, got error %v", err)
	}
	if result.Confidence != conceptFallbackConfidence {
		t.Errorf("Expected fallback confidence %f, got %f", conceptFallbackConfidence, result.Confidence)
	}
	if result.Category != taxonomy.DefaultCategory {
		t.Errorf("Expected default category, got %s", result.Category)
	}
	if result.PredictedLabel != "unknown" {
		t.Errorf("Expected unknown label, got %s", result.PredictedLabel)
	}
}

func TestConceptClassifyTransportErrorPropagates(t *testing.T) {
	wantErr := errors.New("api unreachable")
	classifier := NewConceptClassifierWithClient(&mockConceptClient{err: wantErr})

	_, err := classifier.Classify(context.Background(), []byte{1}, "x.jpg")
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected wrapped transport error, got %v", err)
	}
}

func TestConceptClassifyAlternatesSortedAndDeduped(t *testing.T) {
	body := `{"concepts": [
		{"name": "shirt", "value": 0.5},
		{"name": "sneaker", "value": 0.9},
		{"name": "Sneaker", "value": 0.4},
		{"name": "dress", "value": 0.7},
		{"name": "handbag", "value": 0.6}
	]}`
	classifier := NewConceptClassifierWithClient(&mockConceptClient{body: []byte(body)})

	result, err := classifier.Classify(context.Background(), []byte{1}, "x.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.PredictedLabel != "sneaker" {
		t.Errorf("Expected sneaker to win, got %s", result.PredictedLabel)
	}
	if len(result.Alternates) != 3 {
		t.Fatalf("Expected 3 alternates, got %d", len(result.Alternates))
	}
	wantOrder := []string{"dress", "handbag", "shirt"}
	for i, want := range wantOrder {
		if result.Alternates[i].Label != want {
			t.Errorf("Expected alternate %d to be %s, got %s", i, want, result.Alternates[i].Label)
		}
	}
	for i := 1; i < len(result.Alternates); i++ {
		if result.Alternates[i].Confidence > result.Alternates[i-1].Confidence {
			t.Error("Expected alternates sorted by descending confidence")
		}
	}
}

func TestConceptClassifyEmptyImage(t *testing.T) {
	client := &mockConceptClient{}
	classifier := NewConceptClassifierWithClient(client)

	if _, err := classifier.Classify(context.Background(), nil, "x.jpg"); err == nil {
		t.Fatal("Expected error for empty image")
	}
	if client.callCount != 0 {
		t.Errorf("Expected no API call for empty image, got %d", client.callCount)
	}
}
