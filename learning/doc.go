// Package learning generates structured study plans from free-form
// learning goals.
//
// A single language-model call produces JSON conforming to a fixed plan
// schema. Syntactically broken responses are replaced by a deterministic
// fallback plan; responses that parse but violate the plan shape are
// surfaced as errors.
package learning
