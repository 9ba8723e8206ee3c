// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Primary classifier choices accepted by PrimaryClassifier.
const (
	ClassifierVision    = "vision"
	ClassifierConcepts  = "concepts"
	ClassifierLocal     = "local"
	ClassifierHeuristic = "heuristic"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Addr string

	// PrimaryClassifier selects the orchestrator's primary strategy.
	PrimaryClassifier string

	OpenAIAPIKey   string
	ClarifaiAPIKey string
	RemoveBgAPIKey string

	VisionModel string
	OutfitModel string

	// ModelDir holds the local network's weights and training data.
	ModelDir string
	// StorePath is the wardrobe item persistence file.
	StorePath string

	APIToken string

	RateLimitEnabled   bool
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads configuration from a .env file (when present) and the
// environment.
func Load() (*Config, error) {
	// The .env file is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:               getEnv("ADDR", ":8080"),
		PrimaryClassifier:  getEnv("PRIMARY_CLASSIFIER", ClassifierHeuristic),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		ClarifaiAPIKey:     getEnv("CLARIFAI_API_KEY", ""),
		RemoveBgAPIKey:     getEnv("REMOVEBG_API_KEY", ""),
		VisionModel:        getEnv("VISION_MODEL", ""),
		OutfitModel:        getEnv("OUTFIT_MODEL", "gpt-4o-mini"),
		ModelDir:           getEnv("MODEL_DIR", "data/model"),
		StorePath:          getEnv("STORE_PATH", "data/items.json"),
		APIToken:           getEnv("API_TOKEN", ""),
		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PrimaryClassifier {
	case ClassifierVision:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("PRIMARY_CLASSIFIER=vision requires OPENAI_API_KEY")
		}
	case ClassifierConcepts:
		if c.ClarifaiAPIKey == "" {
			return fmt.Errorf("PRIMARY_CLASSIFIER=concepts requires CLARIFAI_API_KEY")
		}
	case ClassifierLocal, ClassifierHeuristic:
	default:
		return fmt.Errorf("unknown PRIMARY_CLASSIFIER %q", c.PrimaryClassifier)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
