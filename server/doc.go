// Package server is the HTTP boundary. It exposes PDF and YouTube
// ingestion, conversation chat, learning analysis, and a health probe,
// translating domain errors into HTTP statuses.
package server
