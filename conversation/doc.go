// Package conversation implements the session-scoped chat state: the
// append-only turn memory, the retrieval chain that answers one question
// from indexed context plus history, and the registry mapping conversation
// identifiers to chains.
//
// State is held only in volatile process memory. Conversations are created
// once at ingestion completion and destroyed only on process termination.
package conversation
