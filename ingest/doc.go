// Package ingest provides source ingestion for the service: PDF page
// extraction, YouTube transcript retrieval, recursive character chunking,
// and the pipeline that turns a source into a registered conversation.
//
// Chunk embedding is performed concurrently using a worker pool; input
// order is preserved. Validation failures are rejected before any
// external-service work, so a failed ingestion never registers a partial
// conversation.
package ingest
