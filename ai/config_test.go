package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-1.5-flash", cfg.ChatModel)
	assert.Equal(t, "embedding-001", cfg.EmbeddingModel)
	assert.Equal(t, 60*time.Second, cfg.CallTimeout)
	assert.Empty(t, cfg.APIKey, "the credential must never have a default")
}

func TestNewConfig_AppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithAPIKey("test-key"),
		WithChatModel("gemini-1.5-pro"),
		WithEmbeddingModel("text-embedding-004"),
		WithCallTimeout(15*time.Second),
	)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.ChatModel)
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
	assert.Equal(t, 15*time.Second, cfg.CallTimeout)
}

func TestValidate(t *testing.T) {
	cfg := NewConfig(WithAPIKey("test-key"))
	require.NoError(t, cfg.Validate())
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")
}

func TestValidate_MissingModels(t *testing.T) {
	cfg := NewConfig(WithAPIKey("test-key"), WithChatModel(""))
	assert.Error(t, cfg.Validate())

	cfg = NewConfig(WithAPIKey("test-key"), WithEmbeddingModel(""))
	assert.Error(t, cfg.Validate())
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := NewConfig(WithAPIKey("test-key"), WithCallTimeout(0))
	assert.Error(t, cfg.Validate())
}
