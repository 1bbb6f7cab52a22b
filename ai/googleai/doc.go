// Package googleai implements the ai service interfaces against Google's
// Gemini models via langchaingo.
package googleai
