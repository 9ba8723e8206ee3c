package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// Orchestrator selects a classification strategy and enforces the never-fail
// contract: Classify always returns exactly one Result, regardless of
// adapter availability.
type Orchestrator struct {
	primary    ImageClassifier
	retryDelay time.Duration
	logger     Logger
}

// NewOrchestrator creates a new Orchestrator with the given configuration
func NewOrchestrator(cfg Config) *Orchestrator {
	cfg.applyDefaults()

	return &Orchestrator{
		primary:    cfg.Primary,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}
}

// Classify runs the configured primary classifier against the image. On any
// error or a not-ready state it waits briefly, retries once, and finally
// degrades to the deterministic fallback result. It never returns an error;
// a failed classification still yields a usable generic result so the user
// can correct category and styles manually.
func (o *Orchestrator) Classify(ctx context.Context, image []byte, fileName string) *Result {
	if o.primary == nil {
		return FallbackResult("no classifier configured")
	}

	result, err := o.primary.Classify(ctx, image, fileName)
	if err == nil && result != nil {
		return result
	}
	o.logf("primary classification failed: %v", err)

	// One short wait, one retry. Not-ready adapters frequently come up
	// within the delay window.
	select {
	case <-ctx.Done():
		return FallbackResult(fmt.Sprintf("classification cancelled: %v", ctx.Err()))
	case <-time.After(o.retryDelay):
	}

	result, retryErr := o.primary.Classify(ctx, image, fileName)
	if retryErr == nil && result != nil {
		return result
	}
	o.logf("retry classification failed: %v", retryErr)

	return FallbackResult(fallbackReason(err, retryErr))
}

// FallbackResult is the fixed, low-confidence default classification
// returned when all classification attempts fail.
func FallbackResult(reason string) *Result {
	return &Result{
		PredictedLabel: "unknown",
		Confidence:     FallbackConfidence,
		Category:       taxonomy.DefaultCategory,
		Subcategory:    taxonomy.UnknownSubcategory,
		Styles:         []string{"Casual"},
		Reasoning:      reason,
	}
}

func fallbackReason(first, second error) string {
	cause := second
	if cause == nil {
		cause = first
	}
	switch {
	case cause == nil:
		return "classifier returned no result"
	case errors.Is(cause, ErrNotReady):
		return "classifier was not ready after retry"
	default:
		return fmt.Sprintf("classification failed after retry: %v", cause)
	}
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.logger != nil {
		o.logger(format, args...)
	}
}
