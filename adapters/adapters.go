// Package adapters implements classification strategies backed by external
// or local models, each normalizing its backend's response shape into the
// canonical Result type.
package adapters

import (
	"fmt"
	"os"
)

// loadEnvVar loads an environment variable into a pointer if no value is provided
func loadEnvVar(target *string, envKey string) (*string, error) {
	if target == nil {
		envVar := os.Getenv(envKey)
		if envVar == "" {
			return nil, fmt.Errorf("%s environment variable not set and no value provided", envKey)
		}
		return &envVar, nil
	}
	return target, nil
}
