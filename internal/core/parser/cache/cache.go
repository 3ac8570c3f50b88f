// Package cache stores LLM parse results keyed by input text so repeated
// parses of the same ingredient list never hit the model twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"dinner-planner/internal/infrastructure/config"
)

// Store is the parse-result cache. Implementations return
// common.ErrCacheDisabled-style errors on miss so callers fall through to
// the model.
type Store interface {
	Get(ctx context.Context, input string) (string, error)
	Set(ctx context.Context, input, value string) error
	Stats() map[string]interface{}
	Close() error
}

// New selects a Store from configuration. A disabled cache yields nil, which
// callers treat as "always miss".
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		return NewRedisStore(cfg)
	case "memory", "":
		return NewMemoryStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// hashKey digests the input so keys stay short and never leak raw text into
// cache infrastructure.
func hashKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
