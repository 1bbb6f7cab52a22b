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


package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/studyhall/conversation"
	"github.com/poiesic/studyhall/ingest"
	"github.com/poiesic/studyhall/learning"
)

// Handler exposes the ingestion, chat, and learning-analysis operations
// over HTTP.
type Handler struct {
	pipeline *ingest.Pipeline
	registry *conversation.Registry
	analyzer *learning.Analyzer
	logger   *slog.Logger
}

// NewHandler creates an HTTP handler over the given collaborators.
func NewHandler(pipeline *ingest.Pipeline, registry *conversation.Registry, analyzer *learning.Analyzer) (*Handler, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	return &Handler{
		pipeline: pipeline,
		registry: registry,
		analyzer: analyzer,
		logger:   slog.Default().With("component", "http"),
	}, nil
}

// RegisterRoutes attaches all routes to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/upload", h.Upload)
	e.POST("/process-youtube", h.ProcessYouTube)
	e.POST("/chat", h.Chat)
	e.POST("/analyze-learning", h.AnalyzeLearning)
	e.GET("/health", h.Health)
}

// ConversationResponse carries a freshly created conversation identifier.
type ConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

// YouTubeRequest is the request to ingest a video transcript.
type YouTubeRequest struct {
	URL string `json:"url"`
}

// ChatRequest is a question addressed to an existing conversation.
type ChatRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse is the answer to one chat turn.
type ChatResponse struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
}

// AnalyzeRequest carries a free-form learning goal.
type AnalyzeRequest struct {
	Input string `json:"input"`
}

// Upload ingests a PDF document and opens a conversation over it.
// POST /upload
func (h *Handler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", "filename", fileHeader.Filename, "err", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read uploaded file"})
	}
	defer file.Close()

	id, err := h.pipeline.IngestPDF(ctx, file, fileHeader.Filename)
	if err != nil {
		h.logger.Error("pdf ingestion failed", "filename", fileHeader.Filename, "err", err)
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, ConversationResponse{ConversationID: id})
}

// ProcessYouTube ingests a video transcript and opens a conversation over it.
// POST /process-youtube
func (h *Handler) ProcessYouTube(c echo.Context) error {
	ctx := c.Request().Context()

	var req YouTubeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.URL) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}

	id, err := h.pipeline.IngestVideo(ctx, req.URL)
	if err != nil {
		h.logger.Error("video ingestion failed", "url", req.URL, "err", err)
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, ConversationResponse{ConversationID: id})
}

// Chat answers one question within an existing conversation.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	chain, err := h.registry.Get(req.ConversationID)
	if err != nil {
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}

	answer, err := chain.Ask(ctx, req.Question)
	if err != nil {
		h.logger.Error("chat turn failed", "conversation_id", req.ConversationID, "err", err)
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Answer:         answer,
		ConversationID: req.ConversationID,
	})
}

// AnalyzeLearning generates a structured study plan for a learning goal.
// POST /analyze-learning
func (h *Handler) AnalyzeLearning(c echo.Context) error {
	ctx := c.Request().Context()

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	plan, err := h.analyzer.Analyze(ctx, req.Input)
	if err != nil {
		h.logger.Error("learning analysis failed", "err", err)
		return c.JSON(statusForError(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, plan)
}

// Health reports process liveness and the number of active conversations.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"conversations": h.registry.Len(),
	})
}
