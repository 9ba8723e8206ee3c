// Command wardrobed serves the digital wardrobe API: image classification,
// item persistence, model training, and outfit generation.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/adapters"
	"github.com/FrenchMajesty/wardrobe-vision/adapters/removebg"
	"github.com/FrenchMajesty/wardrobe-vision/config"
	"github.com/FrenchMajesty/wardrobe-vision/heuristic"
	"github.com/FrenchMajesty/wardrobe-vision/server"
	"github.com/FrenchMajesty/wardrobe-vision/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	itemStore, err := store.NewFileStore(cfg.StorePath)
	if err != nil {
		logger.Fatal("failed to open item store", zap.Error(err))
	}

	primary, trainer, err := buildClassifier(cfg)
	if err != nil {
		logger.Fatal("failed to build classifier", zap.Error(err))
	}
	orchestrator := wardrobe.NewOrchestrator(wardrobe.Config{
		Primary: primary,
		Logger:  logger.Sugar().Infof,
	})

	opts := server.Options{
		Classifier: orchestrator,
		Store:      itemStore,
		Trainer:    trainer,
		Verifier:   server.StaticTokenVerifier{Token: cfg.APIToken},
		Logger:     logger,
	}

	if cfg.OpenAIAPIKey != "" {
		generator, err := adapters.NewChatGenerator(&cfg.OpenAIAPIKey, cfg.OutfitModel)
		if err != nil {
			logger.Fatal("failed to build text generator", zap.Error(err))
		}
		opts.Generator = generator
	}
	if cfg.RemoveBgAPIKey != "" {
		opts.Remover = removebg.NewClient(cfg.RemoveBgAPIKey)
	}
	if cfg.RateLimitEnabled {
		limiter := server.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				limiter.Cleanup(5 * time.Minute)
			}
		}()
		opts.RateLimiter = limiter
	}

	srv, err := server.New(opts)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr),
			zap.String("primary_classifier", cfg.PrimaryClassifier))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// buildClassifier constructs the configured primary strategy. The local
// network is the only trainable one.
func buildClassifier(cfg *config.Config) (wardrobe.ImageClassifier, wardrobe.Trainer, error) {
	local := adapters.NewLocalNetClassifier(cfg.ModelDir)

	switch cfg.PrimaryClassifier {
	case config.ClassifierVision:
		vision, err := adapters.NewVisionClassifier(&cfg.OpenAIAPIKey, cfg.VisionModel)
		if err != nil {
			return nil, nil, err
		}
		return vision, local, nil
	case config.ClassifierConcepts:
		concepts, err := adapters.NewConceptClassifier(&cfg.ClarifaiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return concepts, local, nil
	case config.ClassifierLocal:
		return local, local, nil
	default:
		return heuristic.NewCombinedClassifier(), local, nil
	}
}
