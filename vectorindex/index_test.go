package vectorindex

import (
	"context"
	"testing"

	"github.com/poiesic/studyhall/ai/mock"
	"github.com/poiesic/studyhall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedder maps known texts to fixed 3-dimensional vectors so similarity
// ordering in tests is exact.
func axisEmbedder(mapping map[string][]float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := mapping[text]; ok {
			return v, nil
		}
		return []float32{0, 0, 1}, nil
	}
	return embedder
}

func TestNew_RequiresEmbedder(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestAdd_VectorMismatch(t *testing.T) {
	ix, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	chunks := []core.DocumentChunk{core.NewDocumentChunk("a", 0)}
	err = ix.Add(chunks, [][]float32{{1, 0}, {0, 1}})
	assert.ErrorIs(t, err, ErrVectorMismatch)
	assert.Equal(t, 0, ix.Len(), "failed add must not mutate the index")
}

func TestQuery_RanksBySimilarity(t *testing.T) {
	embedder := axisEmbedder(map[string][]float32{
		"query": {1, 0, 0},
	})
	ix, err := New(embedder)
	require.NoError(t, err)

	chunks := []core.DocumentChunk{
		core.NewDocumentChunk("orthogonal", 0),
		core.NewDocumentChunk("exact match", 1),
		core.NewDocumentChunk("close", 2),
	}
	vectors := [][]float32{
		{0, 1, 0},
		{1, 0, 0},
		{0.9, 0.1, 0},
	}
	require.NoError(t, ix.Add(chunks, vectors))

	got, err := ix.Query(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "exact match", got[0].Text, "most relevant chunk must come first")
	assert.Equal(t, "close", got[1].Text)
}

func TestQuery_TieBreaksByOrdinal(t *testing.T) {
	embedder := axisEmbedder(map[string][]float32{
		"query": {1, 0, 0},
	})
	ix, err := New(embedder)
	require.NoError(t, err)

	// Identical vectors, reversed insertion order.
	chunks := []core.DocumentChunk{
		core.NewDocumentChunk("later chunk", 5),
		core.NewDocumentChunk("earlier chunk", 2),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{1, 0, 0},
	}
	require.NoError(t, ix.Add(chunks, vectors))

	got, err := ix.Query(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "earlier chunk", got[0].Text, "equal scores break toward the lower ordinal")
}

func TestQuery_KLargerThanIndex(t *testing.T) {
	ix, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	chunks := []core.DocumentChunk{core.NewDocumentChunk("only", 0)}
	require.NoError(t, ix.Add(chunks, [][]float32{{1, 0, 0}}))

	got, err := ix.Query(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQuery_NonPositiveK(t *testing.T) {
	ix, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	got, err := ix.Query(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}), "mismatched dimensions score 0")
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}), "zero magnitude scores 0")
}
