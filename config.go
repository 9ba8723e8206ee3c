package wardrobe

import "time"

const (
	// DefaultRetryDelay is the pause between the primary attempt and the
	// single retry when the primary classifier fails or is not ready
	DefaultRetryDelay = 500 * time.Millisecond

	// FallbackConfidence is the fixed confidence of the deterministic
	// fallback result
	FallbackConfidence = 0.5
)

// Logger is an optional logging hook, printf style.
type Logger func(format string, args ...interface{})

// Config holds configuration for the Orchestrator
type Config struct {
	// Primary is the classifier attempted first. If nil, every request
	// resolves to the fallback result.
	Primary ImageClassifier

	// RetryDelay is the wait before the single retry. If 0, uses
	// DefaultRetryDelay.
	RetryDelay time.Duration

	// Logger receives retry and fallback diagnostics. If nil, nothing is
	// logged.
	Logger Logger
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
}
