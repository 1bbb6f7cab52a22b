package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentChunk is a bounded, overlapping segment of source text.
// It is the unit stored in a vector index and surfaced during retrieval.
// Chunks are immutable once created.
type DocumentChunk struct {
	Id            ID
	Text          string
	SourceOrdinal int // Position of the chunk within its source document, starting at 0
}

// NewDocumentChunk creates a chunk with a content-derived ID.
func NewDocumentChunk(text string, ordinal int) DocumentChunk {
	return DocumentChunk{
		Id:            IDFromContent(text),
		Text:          text,
		SourceOrdinal: ordinal,
	}
}

// Turn is a single question/answer exchange within a conversation.
type Turn struct {
	Question string
	Answer   string
}

// LearningPath is a structured study track produced by the learning analyzer.
type LearningPath struct {
	Id          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Progress    int      `json:"progress"`
	Topics      []string `json:"topics"`
}

// Quiz is a generated practice quiz attached to a learning goal.
type Quiz struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Questions  int    `json:"questions"`
	Completed  bool   `json:"completed"`
}

// Summary is a short generated study summary.
type Summary struct {
	Id      string `json:"id"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
	Date    string `json:"date"` // Calendar date in YYYY-MM-DD form
}

// StudyPlan aggregates the structured artifacts generated for one learning goal.
// Plans are produced fresh per request and never persisted.
type StudyPlan struct {
	LearningPaths []LearningPath `json:"learning_paths"`
	Quizzes       []Quiz         `json:"quizzes"`
	Summaries     []Summary      `json:"summaries"`
}
