package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/pkg/testutil"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// staticClassifier satisfies Classifier with a fixed result.
type staticClassifier struct {
	result *wardrobe.Result
}

func (c *staticClassifier) Classify(ctx context.Context, image []byte, fileName string) *wardrobe.Result {
	if c.result != nil {
		return c.result
	}
	return wardrobe.FallbackResult("static test classifier")
}

type mockTrainer struct {
	trainFunc func(ctx context.Context, epochs int) error
	calls     int
}

func (m *mockTrainer) Train(ctx context.Context, epochs int) error {
	m.calls++
	if m.trainFunc != nil {
		return m.trainFunc(ctx, epochs)
	}
	return nil
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Classifier == nil {
		opts.Classifier = &staticClassifier{}
	}
	if opts.Store == nil {
		opts.Store = testutil.NewMockItemStore()
	}
	if opts.Verifier == nil {
		opts.Verifier = &testutil.MockTokenVerifier{}
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return s
}

func authedRequest(method, path string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestHealthCheckRequiresNoAuth(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestAPIRequiresBearerToken(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for non-bearer scheme, got %d", rec.Code)
	}
}

func TestAPIRejectsInvalidToken(t *testing.T) {
	verifier := &testutil.MockTokenVerifier{
		VerifyFunc: func(token string) *wardrobe.UserIdentity { return nil },
	}
	s := newTestServer(t, Options{Verifier: verifier})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/items", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for rejected token, got %d", rec.Code)
	}
}

func TestProcessClassifiesUpload(t *testing.T) {
	classifier := &staticClassifier{result: &wardrobe.Result{
		PredictedLabel: "jeans",
		Confidence:     0.9,
		Category:       taxonomy.Pants,
		Subcategory:    "jeans",
	}}
	s := newTestServer(t, Options{Classifier: classifier})

	req := authedRequest(http.MethodPost, "/api/items/process", []byte{1, 2, 3})
	req.Header.Set("X-File-Name", "jeans.jpg")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Classification.Category != taxonomy.Pants {
		t.Errorf("Expected PANTS, got %s", resp.Classification.Category)
	}
	if resp.ImageProcessed {
		t.Error("Expected no processed image without a remover")
	}
}

func TestProcessToleratesBackgroundRemovalFailure(t *testing.T) {
	remover := &testutil.MockBackgroundRemover{
		RemoveFunc: func(ctx context.Context, image []byte) ([]byte, error) {
			return nil, errors.New("service down")
		},
	}
	s := newTestServer(t, Options{Remover: remover})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/items/process", []byte{1}))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 despite removal failure, got %d", rec.Code)
	}
	var resp processResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ImageProcessed {
		t.Error("Expected image_processed false when removal fails")
	}
	if resp.Classification == nil {
		t.Error("Expected classification to survive removal failure")
	}
}

func TestProcessEmptyBody(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/items/process", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty body, got %d", rec.Code)
	}
}

func TestCreateAndListItems(t *testing.T) {
	s := newTestServer(t, Options{})

	payload, _ := json.Marshal(wardrobe.Item{
		Name:     "Blue Jeans",
		Category: taxonomy.Pants,
		Styles:   []string{"Casual", "Classic", "Chic"},
	})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/items", payload))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created wardrobe.Item
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID == "" {
		t.Error("Expected generated item id")
	}
	if len(created.Styles) != taxonomy.MaxStyles {
		t.Errorf("Expected styles truncated to %d, got %v", taxonomy.MaxStyles, created.Styles)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/items", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var listResp struct {
		Items []wardrobe.Item `json:"items"`
	}
	json.Unmarshal(rec.Body.Bytes(), &listResp)
	if len(listResp.Items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(listResp.Items))
	}
}

func TestCreateItemInvalidCategory(t *testing.T) {
	s := newTestServer(t, Options{})

	payload := []byte(`{"name": "Mystery", "category": "BOOTS"}`)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/items", payload))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid category, got %d", rec.Code)
	}
}

func TestDeleteItem(t *testing.T) {
	store := testutil.NewMockItemStore()
	created, _ := store.Create(context.Background(), wardrobe.Item{Name: "Tee", Category: taxonomy.Tops})
	s := newTestServer(t, Options{Store: store})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/items/"+created.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/items/"+created.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing item, got %d", rec.Code)
	}
}

func TestTrainEndpoint(t *testing.T) {
	trainer := &mockTrainer{}
	s := newTestServer(t, Options{Trainer: trainer})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/classifier/train", []byte(`{"epochs": 3}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if trainer.calls != 1 {
		t.Errorf("Expected 1 train call, got %d", trainer.calls)
	}
}

func TestTrainEndpointValidation(t *testing.T) {
	trainer := &mockTrainer{}
	s := newTestServer(t, Options{Trainer: trainer})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/classifier/train", []byte(`{"epochs": 0}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for zero epochs, got %d", rec.Code)
	}
	if trainer.calls != 0 {
		t.Errorf("Expected no train call, got %d", trainer.calls)
	}
}

func TestTrainWithoutTrainer(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/classifier/train", []byte(`{"epochs": 1}`)))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("Expected 501 without trainer, got %d", rec.Code)
	}
}

func TestGenerateOutfits(t *testing.T) {
	store := testutil.NewMockItemStore()
	a, _ := store.Create(context.Background(), wardrobe.Item{Name: "Jeans", Category: taxonomy.Pants})
	b, _ := store.Create(context.Background(), wardrobe.Item{Name: "Tee", Category: taxonomy.Tops})

	generator := &testutil.MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			if !strings.Contains(prompt, a.ID) || !strings.Contains(prompt, b.ID) {
				t.Error("Expected prompt to include wardrobe item ids")
			}
			return `{"outfit_1": {"name": "Everyday", "items": ["` + a.ID + `", "` + b.ID + `"], "reasoning": "classic pairing"}}`, nil
		},
	}
	s := newTestServer(t, Options{Store: store, Generator: generator})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/outfits/generate", []byte(`{"occasion": "weekend hangout"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Outfits []struct {
			Name  string   `json:"name"`
			Items []string `json:"items"`
		} `json:"outfits"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Outfits) != 1 || resp.Outfits[0].Name != "Everyday" {
		t.Errorf("Unexpected outfits payload: %s", rec.Body.String())
	}
}

func TestGenerateOutfitsEmptyWardrobe(t *testing.T) {
	s := newTestServer(t, Options{Generator: &testutil.MockTextGenerator{}})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/outfits/generate", []byte(`{}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for empty wardrobe, got %d", rec.Code)
	}
}

func TestGenerateOutfitsUnparseableAnswer(t *testing.T) {
	store := testutil.NewMockItemStore()
	store.Create(context.Background(), wardrobe.Item{Name: "Tee", Category: taxonomy.Tops})

	generator := &testutil.MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "sorry, no outfits today", nil
		},
	}
	s := newTestServer(t, Options{Store: store, Generator: generator})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/outfits/generate", []byte(`{}`)))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for unparseable answer, got %d", rec.Code)
	}
}

func TestRateLimiting(t *testing.T) {
	s := newTestServer(t, Options{RateLimiter: NewRateLimiter(60, 2)})

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/api/items", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		s.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("Expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third request limited, got %v", codes)
	}
}

func TestStaticTokenVerifier(t *testing.T) {
	v := StaticTokenVerifier{Token: "secret"}

	if v.VerifyToken("secret") == nil {
		t.Error("Expected matching token to verify")
	}
	if v.VerifyToken("wrong") != nil {
		t.Error("Expected mismatched token to be rejected")
	}
	if (StaticTokenVerifier{}).VerifyToken("") != nil {
		t.Error("Expected empty configured token to reject everything")
	}
}

func TestRateLimiterIsPerClient(t *testing.T) {
	limiter := NewRateLimiter(60, 1)

	if !limiter.Allow("a") {
		t.Error("Expected first request from a to pass")
	}
	if limiter.Allow("a") {
		t.Error("Expected second request from a to be limited")
	}
	if !limiter.Allow("b") {
		t.Error("Expected first request from b to pass")
	}
}
