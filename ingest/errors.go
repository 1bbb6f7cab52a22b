package ingest

import "errors"

var (
	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrRegistryRequired is returned when a session registry is not provided.
	ErrRegistryRequired = errors.New("session registry required")

	// ErrTranscriptFetcherRequired is returned when a transcript fetcher is not provided.
	ErrTranscriptFetcherRequired = errors.New("transcript fetcher required")

	// ErrEmbeddingMismatch is returned when the embedder result count does not
	// match the request.
	ErrEmbeddingMismatch = errors.New("embedding result count does not match request")

	// ErrUnreadableDocument is returned when an uploaded document's text
	// cannot be extracted. This is a validation failure: no external work
	// has started yet.
	ErrUnreadableDocument = errors.New("document text could not be extracted")
)
