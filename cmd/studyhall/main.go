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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/studyhall/ai"
	"github.com/poiesic/studyhall/ai/googleai"
	"github.com/poiesic/studyhall/conversation"
	"github.com/poiesic/studyhall/ingest"
	"github.com/poiesic/studyhall/learning"
	"github.com/poiesic/studyhall/resilience"
	"github.com/poiesic/studyhall/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "studyhall",
		Usage: "Retrieval-augmented study assistant over PDFs and video transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
					},
					&cli.StringFlag{
						Name:     "api-key",
						Usage:    "Google AI API key",
						EnvVars:  []string{"GOOGLE_API_KEY"},
						Required: true,
					},
					&cli.StringFlag{
						Name:  "chat-model",
						Usage: "Chat model name",
						Value: "gemini-1.5-flash",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embedding-001",
					},
					&cli.DurationFlag{
						Name:  "call-timeout",
						Usage: "Deadline for each external AI call",
						Value: 60 * time.Second,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks retrieved per question",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Embedding worker pool size (0 = half the CPUs)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	ctx := c.Context

	aiConfig := ai.NewConfig(
		ai.WithAPIKey(c.String("api-key")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCallTimeout(c.Duration("call-timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := resilience.DoValue(ctx, resilience.DefaultPolicy(), "create AI provider",
		func() (ai.Provider, error) {
			return googleai.NewProvider(ctx, aiConfig)
		})
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	registry := conversation.NewRegistry()

	pipelineOpts := []ingest.Option{
		ingest.WithCallTimeout(c.Duration("call-timeout")),
		ingest.WithTopK(c.Int("top-k")),
	}
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(size))
	}

	pipeline, err := ingest.NewPipeline(provider, registry, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	analyzer, err := learning.NewAnalyzer(provider.Generator(),
		learning.WithCallTimeout(c.Duration("call-timeout")))
	if err != nil {
		return fmt.Errorf("failed to create learning analyzer: %w", err)
	}

	handler, err := server.NewHandler(pipeline, registry, analyzer)
	if err != nil {
		return fmt.Errorf("failed to create HTTP handler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	handler.RegisterRoutes(e)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(c.String("addr"))
	}()

	slog.Info("server started", "addr", c.String("addr"))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-runCtx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
