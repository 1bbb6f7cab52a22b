// Package ai defines the contracts for the external AI collaborators:
// text embedding and language-model generation.
//
// The interfaces are intentionally narrow. Production implementations live
// in the googleai subpackage; deterministic test doubles live in mock.
package ai
