package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/studyhall/ai/mock"
	"github.com/poiesic/studyhall/conversation"
	"github.com/poiesic/studyhall/core"
	"github.com/poiesic/studyhall/ingest"
	"github.com/poiesic/studyhall/learning"
	"github.com/poiesic/studyhall/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	entries []ingest.TranscriptEntry
	err     error
}

func (s *stubFetcher) Fetch(ctx context.Context, videoID string) ([]ingest.TranscriptEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

type testEnv struct {
	handler  *Handler
	registry *conversation.Registry
	echo     *echo.Echo
}

func newTestEnv(t *testing.T, planJSON string) *testEnv {
	t.Helper()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return prompt, nil
	}
	provider.GetMockGenerator().GenerateJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return planJSON, nil
	}

	registry := conversation.NewRegistry()
	fetcher := &stubFetcher{entries: []ingest.TranscriptEntry{
		{Start: 0, Duration: 2, Text: "osmosis moves water across membranes"},
	}}

	pipeline, err := ingest.NewPipeline(provider, registry,
		ingest.WithTranscriptFetcher(fetcher),
		ingest.WithRetryPolicy(resilience.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}),
	)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	analyzer, err := learning.NewAnalyzer(provider.GetMockGenerator())
	require.NoError(t, err)

	handler, err := NewHandler(pipeline, registry, analyzer)
	require.NoError(t, err)

	return &testEnv{handler: handler, registry: registry, echo: echo.New()}
}

func (env *testEnv) postJSON(t *testing.T, path, body string, handle echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	require.NoError(t, handle(c))
	return rec
}

const testPlanJSON = `{
  "learning_paths": [{"id": "a", "title": "Cell Biology", "description": "Membranes and transport.", "difficulty": "beginner", "progress": 0, "topics": ["osmosis"]}],
  "quizzes": [{"id": "b", "title": "Transport Quiz", "topic": "osmosis", "difficulty": "easy", "questions": 5, "completed": false}],
  "summaries": [{"id": "c", "topic": "Osmosis", "content": "Water follows solutes.", "date": "2026-09-01"}]
}`

func TestNewHandler_Validation(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	_, err := NewHandler(nil, env.registry, env.handler.analyzer)
	assert.ErrorIs(t, err, ErrPipelineRequired)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	require.NoError(t, env.handler.Health(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProcessYouTube_ThenChat(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/process-youtube",
		`{"url": "https://www.youtube.com/watch?v=bio101"}`, env.handler.ProcessYouTube)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Regexp(t, `^[0-9a-f]{32}$`, created.ConversationID)
	assert.Equal(t, 1, env.registry.Len())

	chatBody, err := json.Marshal(ChatRequest{
		Question:       "what does osmosis do?",
		ConversationID: created.ConversationID,
	})
	require.NoError(t, err)

	rec = env.postJSON(t, "/chat", string(chatBody), env.handler.Chat)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var answered ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answered))
	assert.Equal(t, created.ConversationID, answered.ConversationID)
	assert.Contains(t, answered.Answer, "osmosis moves water",
		"answer must be grounded in the ingested transcript")
}

func TestProcessYouTube_BadURL(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/process-youtube",
		`{"url": "https://www.youtube.com/watch?list=xyz"}`, env.handler.ProcessYouTube)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.registry.Len())
}

func TestProcessYouTube_MissingURL(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/process-youtube", `{}`, env.handler.ProcessYouTube)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_UnknownConversation(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/chat",
		`{"question": "hello", "conversation_id": "deadbeefdeadbeefdeadbeefdeadbeef"}`, env.handler.Chat)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "conversation not found")
}

func TestChat_MissingConversationID(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/chat", `{"question": "hello"}`, env.handler.Chat)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	require.NoError(t, env.handler.Upload(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.registry.Len())
}

func TestUpload_MissingFileField(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	require.NoError(t, env.handler.Upload(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeLearning(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/analyze-learning",
		`{"input": "learn cell biology"}`, env.handler.AnalyzeLearning)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan core.StudyPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.LearningPaths, 1)
	assert.Equal(t, "Cell Biology", plan.LearningPaths[0].Title)
}

func TestAnalyzeLearning_FallbackOnBrokenJSON(t *testing.T) {
	env := newTestEnv(t, "this is not json at all")

	rec := env.postJSON(t, "/analyze-learning",
		`{"input": "learn cell biology"}`, env.handler.AnalyzeLearning)
	require.Equal(t, http.StatusOK, rec.Code,
		"syntactically broken model output must still produce a plan")

	var plan core.StudyPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.LearningPaths, 1)
	assert.Equal(t, "Introduction to Topic", plan.LearningPaths[0].Title)
}

func TestAnalyzeLearning_EmptyInput(t *testing.T) {
	env := newTestEnv(t, testPlanJSON)

	rec := env.postJSON(t, "/analyze-learning", `{"input": "  "}`, env.handler.AnalyzeLearning)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusForError(t *testing.T) {
	timeout := resilience.Classify("embed", context.DeadlineExceeded)
	unavailable := resilience.Classify("embed", syscall.ECONNREFUSED)
	internal := resilience.Classify("embed", errors.New("boom"))

	assert.Equal(t, http.StatusGatewayTimeout, statusForError(timeout))
	assert.Equal(t, http.StatusServiceUnavailable, statusForError(unavailable))
	assert.Equal(t, http.StatusInternalServerError, statusForError(internal))
	assert.Equal(t, http.StatusBadRequest, statusForError(core.ErrInvalidVideoURL))
	assert.Equal(t, http.StatusInternalServerError, statusForError(errors.New("unexpected")))
}
