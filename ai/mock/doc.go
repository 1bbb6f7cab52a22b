// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vec, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	gen := mock.NewMockGenerator()
//	gen.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return "canned answer", nil
//	}
//
// # Default Behavior
//
//   - MockEmbedder: deterministic vectors from text hash
//   - MockGenerator: echoes the final line of the prompt; "{}" for JSON
//   - MockProvider: aggregates mock embedder and generator
package mock
