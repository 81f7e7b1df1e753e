package noncestore

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/feedgate/feedgate/ports"
)

// Config selects the nonce store backend.
type Config struct {
	// ForceMemory always selects the in-process backend (tests, offline dev).
	ForceMemory bool
	// RedisURL selects the shared backend when set.
	RedisURL string
}

// New selects and constructs a nonce store backend.
//
// Explicit memory mode wins. Otherwise a configured Redis URL selects the
// shared backend, and a Redis construction failure falls back to in-process
// storage with a warning instead of failing startup. Under a single instance
// the fallback is fully correct; under horizontal scaling it trades the
// multi-instance guarantee for availability, which is why the log is a
// warning and not debug noise.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) ports.NonceStore {
	if cfg.ForceMemory {
		logger.Info().Msg("nonce store: using in-process backend")
		return NewMemoryStore()
	}

	if cfg.RedisURL == "" {
		logger.Info().Msg("nonce store: no redis URL configured, using in-process backend")
		return NewMemoryStore()
	}

	store, err := NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nonce store: redis backend unavailable, falling back to in-process storage")
		return NewMemoryStore()
	}

	logger.Info().Msg("nonce store: using redis backend")
	return store
}
