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


package vectorindex

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/studyhall/ai"
	"github.com/poiesic/studyhall/core"
)

// Index is an in-memory vector index over document chunks. It supports
// nearest-neighbor retrieval by cosine similarity. An Index holds only
// chunks derived from a single source and lives exactly as long as the
// conversation that owns it; there is no persistence.
type Index struct {
	mu       sync.RWMutex
	embedder ai.Embedder
	chunks   []core.DocumentChunk
	vectors  [][]float32
	logger   *slog.Logger
}

// New creates an empty index that embeds queries with the given embedder.
func New(embedder ai.Embedder) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Index{
		embedder: embedder,
		logger:   slog.Default().With("component", "vectorindex"),
	}, nil
}

// Add stores chunks with their embedding vectors.
// The two slices must be aligned 1:1.
func (ix *Index) Add(chunks []core.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return ErrVectorMismatch
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.chunks = append(ix.chunks, chunks...)
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Len returns the number of stored chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Query embeds the query text and returns the top-k most similar chunks,
// most relevant first. Equal scores break toward the lower source ordinal
// so retrieval stays deterministic.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]core.DocumentChunk, error) {
	if k <= 0 {
		return []core.DocumentChunk{}, nil
	}

	embedding, err := ix.embedder.EmbedText(ctx, text)
	if err != nil {
		ix.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type scored struct {
		chunk core.DocumentChunk
		score float64
	}

	results := make([]scored, len(ix.chunks))
	for i, chunk := range ix.chunks {
		results[i] = scored{chunk: chunk, score: cosineSimilarity(embedding, ix.vectors[i])}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].chunk.SourceOrdinal < results[j].chunk.SourceOrdinal
		}
		return results[i].score > results[j].score
	})

	if len(results) > k {
		results = results[:k]
	}

	chunks := make([]core.DocumentChunk, len(results))
	for i, r := range results {
		chunks[i] = r.chunk
	}

	ix.logger.Debug("query complete", "candidates", len(ix.chunks), "returned", len(chunks))
	return chunks, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
