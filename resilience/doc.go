// Package resilience provides the retry policy applied around every call
// that crosses into an external service, plus typed classification of
// final failures.
//
// Setup operations (provider construction, embedding, index build, chain
// build) are idempotent and retried under a bounded exponential backoff.
// Per-question chat turns are deliberately not retried: a retried turn that
// failed after the model answered could record the exchange twice.
package resilience
