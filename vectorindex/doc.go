// Package vectorindex provides the per-conversation in-memory vector index:
// chunk storage plus cosine-similarity top-k retrieval.
//
// Indexes are never merged across conversations and are not persisted; each
// one is built during ingestion and discarded with its owning conversation.
package vectorindex
