package testutil

import (
	"context"
	"fmt"
	"sync"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// MockImageClassifier is a mock implementation of ImageClassifier for testing
type MockImageClassifier struct {
	ClassifyFunc func(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error)

	mu           sync.Mutex
	CallCount    int
	LastFileName string
}

func (m *MockImageClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastFileName = fileName
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, image, fileName)
	}

	// Default: a confident tops classification
	return &wardrobe.Result{
		PredictedLabel: "t-shirt",
		Confidence:     0.9,
		Category:       taxonomy.Tops,
		Subcategory:    "t-shirt",
		Styles:         []string{"Casual"},
	}, nil
}

// Calls returns the number of Classify invocations.
func (m *MockImageClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockTextGenerator is a mock implementation of TextGenerator for testing
type MockTextGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu         sync.Mutex
	CallCount  int
	LastPrompt string
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastPrompt = prompt
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "{}", nil
}

// MockItemStore is an in-memory implementation of ItemStore for testing
type MockItemStore struct {
	mu    sync.Mutex
	next  int
	Items map[string]wardrobe.Item
}

func NewMockItemStore() *MockItemStore {
	return &MockItemStore{Items: make(map[string]wardrobe.Item)}
}

func (m *MockItemStore) Create(ctx context.Context, item wardrobe.Item) (*wardrobe.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	item.ID = fmt.Sprintf("item-%d", m.next)
	m.Items[item.ID] = item
	stored := item
	return &stored, nil
}

func (m *MockItemStore) Get(ctx context.Context, id string) (*wardrobe.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok {
		return nil, fmt.Errorf("item %s not found", id)
	}
	return &item, nil
}

func (m *MockItemStore) List(ctx context.Context) ([]wardrobe.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]wardrobe.Item, 0, len(m.Items))
	for _, item := range m.Items {
		out = append(out, item)
	}
	return out, nil
}

func (m *MockItemStore) Update(ctx context.Context, item wardrobe.Item) (*wardrobe.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[item.ID]; !ok {
		return nil, fmt.Errorf("item %s not found", item.ID)
	}
	m.Items[item.ID] = item
	stored := item
	return &stored, nil
}

func (m *MockItemStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return fmt.Errorf("item %s not found", id)
	}
	delete(m.Items, id)
	return nil
}

// MockBackgroundRemover is a mock implementation of BackgroundRemover
type MockBackgroundRemover struct {
	RemoveFunc func(ctx context.Context, image []byte) ([]byte, error)

	mu        sync.Mutex
	CallCount int
}

func (m *MockBackgroundRemover) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, image)
	}
	return image, nil
}

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	VerifyFunc func(token string) *wardrobe.UserIdentity
}

func (m *MockTokenVerifier) VerifyToken(token string) *wardrobe.UserIdentity {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	if token == "" {
		return nil
	}
	return &wardrobe.UserIdentity{ID: "user-1"}
}
