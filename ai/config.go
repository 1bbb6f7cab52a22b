// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey is the credential for the language-model/embedding provider.
	// Required; its absence is a fatal startup error.
	APIKey string

	// ChatModel is the model identifier used for answer generation.
	// Example: "gemini-1.5-flash"
	ChatModel string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "embedding-001"
	EmbeddingModel string

	// CallTimeout bounds each individual call to the provider so a hung
	// network call cannot block a worker indefinitely.
	// Default: 60s
	CallTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCallTimeout sets the per-call timeout for provider calls.
func WithCallTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.CallTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults.
// The API key has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		ChatModel:      "gemini-1.5-flash",
		EmbeddingModel: "embedding-001",
		CallTimeout:    60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	    WithChatModel("gemini-1.5-pro"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CallTimeout <= 0 {
		return errors.New("ai config: CallTimeout must be positive")
	}
	return nil
}
