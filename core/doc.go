// Package core defines the domain model shared across the service:
// document chunks, conversation turns, structured study plans, and the
// validation errors surfaced at the API boundary.
package core
