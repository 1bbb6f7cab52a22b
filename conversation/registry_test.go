package conversation

import (
	"regexp"
	"testing"

	"github.com/poiesic/studyhall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	chain, err := NewChain(newEchoGenerator(), newTestIndex(t))
	require.NoError(t, err)
	return chain
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry()
	chain := newTestChain(t)

	id := r.Create(chain)
	require.NotEmpty(t, id)

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, chain, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_IDFormat(t *testing.T) {
	r := NewRegistry()
	id := r.Create(newTestChain(t))
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id, "IDs are 128-bit hex tokens")
}

func TestRegistry_IDsNeverShared(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := r.Create(newTestChain(t))
		assert.False(t, seen[id], "conversation IDs must be unique")
		seen[id] = true
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestRegistry_GetEmpty(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}
