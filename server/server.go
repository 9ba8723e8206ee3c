// Package server exposes the wardrobe pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/outfit"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// maxUploadBytes bounds incoming image payloads.
const maxUploadBytes = 20 << 20

// Classifier is the orchestrated classification surface: it always
// produces a result.
type Classifier interface {
	Classify(ctx context.Context, image []byte, fileName string) *wardrobe.Result
}

// Options wires the server's collaborators. Classifier and Store are
// required; everything else degrades gracefully when nil.
type Options struct {
	Classifier Classifier
	Store      wardrobe.ItemStore

	// Trainer handles POST /api/classifier/train; 501 when nil.
	Trainer wardrobe.Trainer

	// Generator handles outfit generation; 501 when nil.
	Generator wardrobe.TextGenerator

	// Remover preprocesses uploads; skipped when nil, tolerated on failure.
	Remover wardrobe.BackgroundRemover

	// Verifier guards the /api routes; when nil all tokens are rejected.
	Verifier wardrobe.TokenVerifier

	// RateLimiter guards the /api routes; no limiting when nil.
	RateLimiter *RateLimiter

	Logger *zap.Logger
}

// Server handles the wardrobe HTTP API.
type Server struct {
	classifier Classifier
	store      wardrobe.ItemStore
	trainer    wardrobe.Trainer
	generator  wardrobe.TextGenerator
	remover    wardrobe.BackgroundRemover
	verifier   wardrobe.TokenVerifier
	limiter    *RateLimiter
	logger     *zap.Logger
	router     chi.Router
}

// New creates a Server and mounts its routes.
func New(opts Options) (*Server, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		classifier: opts.Classifier,
		store:      opts.Store,
		trainer:    opts.Trainer,
		generator:  opts.Generator,
		remover:    opts.Remover,
		verifier:   opts.Verifier,
		limiter:    opts.RateLimiter,
		logger:     opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Use(s.authMiddleware)

		r.Post("/items/process", s.handleProcess)
		r.Post("/items", s.handleCreateItem)
		r.Get("/items", s.handleListItems)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Post("/classifier/train", s.handleTrain)
		r.Post("/outfits/generate", s.handleGenerateOutfits)
	})

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processResponse is the payload of POST /api/items/process.
type processResponse struct {
	Classification *wardrobe.Result `json:"classification"`
	ProcessedImage []byte           `json:"processed_image,omitempty"`
	ImageProcessed bool             `json:"image_processed"`
}

// handleProcess classifies an uploaded image and attempts background
// removal. Classification never fails; background removal failing only
// clears the processed image.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	image, fileName, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.classifier.Classify(r.Context(), image, fileName)

	resp := processResponse{Classification: result}
	if s.remover != nil {
		processed, err := s.remover.RemoveBackground(r.Context(), image)
		if err != nil {
			s.logger.Warn("background removal failed, keeping original",
				zap.String("file", fileName), zap.Error(err))
		} else {
			resp.ProcessedImage = processed
			resp.ImageProcessed = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// readUpload pulls image bytes from either a multipart form ("image"
// field) or a raw body, with the filename from the form part or the
// X-File-Name header.
func readUpload(r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", fmt.Errorf("failed to parse upload form: %w", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", fmt.Errorf("image field is required: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read upload: %w", err)
		}
		if len(data) == 0 {
			return nil, "", fmt.Errorf("uploaded image is empty")
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("request body is empty")
	}
	return data, r.Header.Get("X-File-Name"), nil
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item wardrobe.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item payload")
		return
	}
	if !taxonomy.IsValidCategory(string(item.Category)) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid category %q", item.Category))
		return
	}

	item.Styles = taxonomy.NormalizeStyles(item.Styles)
	item.Colors = taxonomy.NormalizeColors(item.Colors)
	item.Occasions = taxonomy.NormalizeOccasions(item.Occasions)
	item.Seasons = taxonomy.NormalizeSeasons(item.Seasons)

	created, err := s.store.Create(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type trainRequest struct {
	Epochs int `json:"epochs"`
}

// handleTrain runs training synchronously; callers are expected to treat
// this as an administrative operation.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	if s.trainer == nil {
		writeError(w, http.StatusNotImplemented, "no trainable classifier configured")
		return
	}

	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid train payload")
		return
	}
	if req.Epochs <= 0 {
		writeError(w, http.StatusBadRequest, "epochs must be positive")
		return
	}

	if err := s.trainer.Train(r.Context(), req.Epochs); err != nil {
		s.logger.Error("training failed", zap.Int("epochs", req.Epochs), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trained": true, "epochs": req.Epochs})
}

type generateOutfitsRequest struct {
	Occasion string `json:"occasion"`
}

func (s *Server) handleGenerateOutfits(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusNotImplemented, "no text generator configured")
		return
	}

	var req generateOutfitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid outfit request payload")
		return
	}

	items, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "wardrobe is empty")
		return
	}

	prompt := outfit.BuildPrompt(items, req.Occasion)
	text, err := s.generator.Generate(r.Context(), prompt)
	if err != nil {
		s.logger.Error("outfit generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "outfit generation failed")
		return
	}

	outfits, err := outfit.ParseResponse(text, items)
	if err != nil {
		s.logger.Error("outfit response unparseable", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outfits": outfits})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
