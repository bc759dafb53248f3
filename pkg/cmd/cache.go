package cmd

import (
	"fmt"
	"log/slog"

	"github.com/relaycrm/journey/pkg/services"
)

// NewValidationCache creates the Redis-backed validation cache when a URL is
// configured, nil otherwise. Callers treat nil as "no caching".
func NewValidationCache(logger *slog.Logger, redisURL string) services.ValidationCache {
	if redisURL == "" {
		return nil
	}

	cache, err := services.NewRedisValidationCache(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to initialize validation cache: %w", err))
	}

	logger.Info("Validation cache enabled")

	return cache
}
