package learning

import "fmt"

const studyPlanResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "learning_paths": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
          "progress": {"type": "integer", "minimum": 0, "maximum": 100},
          "topics": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["id", "title", "description", "difficulty", "progress", "topics"],
        "additionalProperties": false
      }
    },
    "quizzes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "topic": {"type": "string"},
          "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
          "questions": {"type": "integer", "minimum": 1},
          "completed": {"type": "boolean"}
        },
        "required": ["id", "title", "topic", "difficulty", "questions", "completed"],
        "additionalProperties": false
      }
    },
    "summaries": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "topic": {"type": "string"},
          "content": {"type": "string"},
          "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
        },
        "required": ["id", "topic", "content", "date"],
        "additionalProperties": false
      }
    }
  },
  "required": ["learning_paths", "quizzes", "summaries"],
  "additionalProperties": false
}`

const analysisPromptTemplate = `You are a study planner. Given a student's learning goal, produce a structured
study plan as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Produce 1-3 learning paths ordered from foundational to advanced.
- Each path's topics list the concrete subjects to study, 2-6 entries.
- Progress is always 0 for a fresh plan.
- Produce one quiz per learning path, with 5-10 questions, never marked completed.
- Produce 1-2 summaries of the most important concepts, dated today in YYYY-MM-DD form.
- Identifiers must be short unique strings; any format is acceptable.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Learning goal:
%s`

// buildAnalysisPrompt embeds the schema and the student's goal into the
// instructional prompt.
func buildAnalysisPrompt(goal string) string {
	return fmt.Sprintf(analysisPromptTemplate, studyPlanResponseSchema, goal)
}
