package mock

import (
	"context"
	"strings"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default behavior: echo the last line of the prompt.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// GenerateJSONFunc is called by GenerateJSON if set.
	// If nil, returns an empty JSON object.
	GenerateJSONFunc func(ctx context.Context, prompt string) (string, error)

	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned completion.
// Default behavior echoes the final non-empty line of the prompt, which lets
// retrieval tests check that question text reached the model.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	return lines[len(lines)-1], nil
}

// GenerateJSON returns a canned JSON completion.
func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt)
	}

	return "{}", nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Prompts returns every prompt the generator has seen, in call order.
func (m *MockGenerator) Prompts() []string {
	return m.prompts
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockGenerator) LastPrompt() string {
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// Reset clears recorded calls and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.prompts = nil
	m.GenerateFunc = nil
	m.GenerateJSONFunc = nil
}
