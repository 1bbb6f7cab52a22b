package conversation

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/poiesic/studyhall/core"
)

// Registry is the process-wide mapping from conversation identifier to its
// retrieval chain. It is an owned object handed to its consumers, not a
// package global, so eviction can later be added behind it without touching
// call sites. Entries currently live for the process lifetime; growth is
// unbounded by design.
type Registry struct {
	mu            sync.RWMutex
	conversations map[string]*Chain
	logger        *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conversations: make(map[string]*Chain),
		logger:        slog.Default().With("component", "registry"),
	}
}

// Create stores the chain under a fresh conversation identifier and returns
// the identifier. IDs carry 128 bits of entropy, hex-encoded; collision is
// treated as practically impossible and not checked.
func (r *Registry) Create(chain *Chain) string {
	id := newConversationID()

	r.mu.Lock()
	r.conversations[id] = chain
	size := len(r.conversations)
	r.mu.Unlock()

	r.logger.Info("conversation registered", "conversationID", id, "active", size)
	return id
}

// Get resolves a conversation identifier to its chain.
// Unknown or empty identifiers return core.ErrConversationNotFound.
func (r *Registry) Get(id string) (*Chain, error) {
	if id == "" {
		return nil, core.ErrConversationNotFound
	}

	r.mu.RLock()
	chain, ok := r.conversations[id]
	r.mu.RUnlock()

	if !ok {
		return nil, core.ErrConversationNotFound
	}
	return chain, nil
}

// Len returns the number of registered conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations)
}

// newConversationID returns 16 random bytes, hex-encoded.
func newConversationID() string {
	buf := make([]byte, 16)
	// crypto/rand.Read never fails on supported platforms
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
