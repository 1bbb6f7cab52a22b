package googleai

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Generator implements ai.Generator using Gemini chat models.
// Temperature is fixed at 0 so answers stay grounded in retrieved context.
type Generator struct {
	model  llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(client *googleai.GoogleAI) *Generator {
	return &Generator{
		model:  client,
		logger: slog.Default().With("component", "googleai-generator"),
	}
}

// Generate produces a completion for the prompt at temperature 0.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "promptLength", len(prompt))

	answer, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(0.0),
	)
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	return answer, nil
}

// GenerateJSON produces a completion constrained to JSON output.
func (g *Generator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating JSON completion", "promptLength", len(prompt))

	answer, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(0.0),
		llms.WithJSONMode(),
	)
	if err != nil {
		g.logger.Error("failed to generate JSON completion", "err", err)
		return "", err
	}

	return answer, nil
}
