package conversation

import (
	"strings"

	"github.com/poiesic/studyhall/core"
)

const answerPromptTemplate = `You are a study assistant. Answer the student's question using ONLY the
provided source material. If the source material does not contain the answer,
say so plainly instead of guessing.

Source material:
%CONTEXT%

Conversation so far:
%HISTORY%

Student question: %QUESTION%

Answer:`

// buildAnswerPrompt assembles the retrieval-grounded prompt for one turn:
// retrieved chunk text, the full conversation history, and the new question.
func buildAnswerPrompt(chunks []core.DocumentChunk, history []core.Turn, question string) string {
	var contextSection strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			contextSection.WriteString("\n---\n")
		}
		contextSection.WriteString(chunk.Text)
	}
	if contextSection.Len() == 0 {
		contextSection.WriteString("(no relevant source material found)")
	}

	var historySection strings.Builder
	for _, turn := range history {
		historySection.WriteString("Student: ")
		historySection.WriteString(turn.Question)
		historySection.WriteString("\nAssistant: ")
		historySection.WriteString(turn.Answer)
		historySection.WriteString("\n")
	}
	if historySection.Len() == 0 {
		historySection.WriteString("(no previous turns)")
	}

	prompt := strings.ReplaceAll(answerPromptTemplate, "%CONTEXT%", contextSection.String())
	prompt = strings.ReplaceAll(prompt, "%HISTORY%", strings.TrimRight(historySection.String(), "\n"))
	prompt = strings.ReplaceAll(prompt, "%QUESTION%", question)
	return prompt
}
