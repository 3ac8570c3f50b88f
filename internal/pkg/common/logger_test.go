package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoggingSafeBeforeInit(t *testing.T) {
	// The wrappers must work without InitLogger; library code and tests
	// log through them long before main wires the real logger up.
	assert.NotNil(t, Logger)

	assert.NotPanics(t, func() {
		LogInfo("processor started", zap.Int("workers", 2))
		LogDebug("job enqueued")
		LogWarn("queue nearly full")
		LogError("parse failed", zap.Error(errors.New("bad response")))
		LogCacheHit("memory", "abc")
		LogCacheMiss("memory", "abc")
		LogLLMCall(0, nil, "")
		Sync()
	})
}

func TestFilterFieldsDropsRawText(t *testing.T) {
	fields := []zap.Field{
		zap.String("recipe_text", "2 lbs tomatoes"),
		zap.String("message_body", "hello"),
		zap.String("raw_input_hash", "abc"),
		zap.Int("ingredients", 3),
	}

	filtered := filterFields(fields)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "ingredients", filtered[0].Key)
}
