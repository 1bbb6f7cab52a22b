package vectorindex

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVectorMismatch is returned when chunks and vectors are not aligned 1:1.
	ErrVectorMismatch = errors.New("chunk and vector counts do not match")
)
