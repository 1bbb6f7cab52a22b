package server

import (
	"errors"
	"net/http"

	"github.com/poiesic/studyhall/core"
	"github.com/poiesic/studyhall/ingest"
	"github.com/poiesic/studyhall/learning"
	"github.com/poiesic/studyhall/resilience"
)

var (
	// ErrPipelineRequired is returned when constructing a handler without
	// an ingestion pipeline.
	ErrPipelineRequired = errors.New("pipeline is required")

	// ErrRegistryRequired is returned when constructing a handler without
	// a conversation registry.
	ErrRegistryRequired = errors.New("registry is required")

	// ErrAnalyzerRequired is returned when constructing a handler without
	// a learning analyzer.
	ErrAnalyzerRequired = errors.New("analyzer is required")
)

// validationErrors are rejected before any external work and always map to
// a client error.
var validationErrors = []error{
	core.ErrUnsupportedFileType,
	core.ErrEmptyContent,
	core.ErrInvalidVideoURL,
	core.ErrTranscriptUnavailable,
	core.ErrConversationNotFound,
	core.ErrEmptyQuestion,
	ingest.ErrUnreadableDocument,
	learning.ErrEmptyGoal,
}

// statusForError maps domain errors to HTTP statuses. Validation sentinels
// become 400; classified external failures become 504 (timeout) or 503
// (unreachable service); everything else is a generic 500.
func statusForError(err error) int {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}

	switch resilience.KindOf(err) {
	case resilience.KindTimeout:
		return http.StatusGatewayTimeout
	case resilience.KindUnavailable:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
