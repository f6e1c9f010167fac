package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/SAP-F-2025/study-assistant/internal/assistant"
	"github.com/SAP-F-2025/study-assistant/internal/events"
	"github.com/SAP-F-2025/study-assistant/internal/repositories/memory"
	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/SAP-F-2025/study-assistant/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	summary   string
	questions string
	answer    string
}

func (s *stubAssistant) Summarize(ctx context.Context, file assistant.Upload) (string, error) {
	return s.summary, nil
}

func (s *stubAssistant) GenerateQuestions(ctx context.Context, documentText string) (assistant.QuestionPayload, error) {
	return assistant.DecodeQuestionPayload([]byte(s.questions)), nil
}

func (s *stubAssistant) Ask(ctx context.Context, question, fileContent string) (string, error) {
	return s.answer, nil
}

const testUploadLimit = 1024

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := utils.NewNopLogger()
	manager := services.NewServiceManager(services.Dependencies{
		Sessions: memory.NewSessionMemory(0),
		Attempts: memory.NewAttemptMemory(),
		Assistant: &stubAssistant{
			summary:   "Title: Cells\nResults: They divide",
			questions: `[{"id": 1, "question": "What divides?", "options": ["Cells", "Rocks"], "correctAnswer": 0}]`,
			answer:    "Cells divide by mitosis.",
		},
		Publisher:      events.NewMockEventPublisher(utils.ToSlogLogger(logger)),
		Validator:      validator.New(),
		Logger:         utils.ToSlogLogger(logger),
		MaxUploadBytes: testUploadLimit,
	})

	router := gin.New()
	router.Use(utils.ContextLogger(logger))
	NewHandlerManager(manager, testUploadLimit, logger).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, router *gin.Engine, path, name, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[services.SessionResponse](t, w).ID
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSessionLifecycle(t *testing.T) {
	router := setupRouter(t)
	id := createSession(t, router)
	base := "/api/v1/sessions/" + id

	w := doJSON(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))

	w = doJSON(t, router, http.MethodGet, base+"/summary", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doUpload(t, router, base+"/document", "notes.txt", "text/plain", []byte("Cells divide."))
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[services.SessionResponse](t, w)
	assert.Equal(t, "notes.txt", session.File.Name)
	require.NotNil(t, session.Summary)
	assert.True(t, session.Summary.Structured)
	assert.Len(t, session.Transcript, 1)

	w = doJSON(t, router, http.MethodGet, base+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[services.SummaryResponse](t, w)
	assert.Len(t, summary.Sections, 2)

	w = doJSON(t, router, http.MethodDelete, base+"/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[services.SessionResponse](t, w).File)

	w = doJSON(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadDocumentErrors(t *testing.T) {
	router := setupRouter(t)
	id := createSession(t, router)
	path := "/api/v1/sessions/" + id + "/document"

	tests := []struct {
		name        string
		fileName    string
		contentType string
		content     []byte
		status      int
	}{
		{name: "unsupported type", fileName: "photo.png", contentType: "image/png", content: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), status: http.StatusUnsupportedMediaType},
		{name: "too large", fileName: "big.txt", contentType: "text/plain", content: bytes.Repeat([]byte("a"), testUploadLimit+10), status: http.StatusRequestEntityTooLarge},
		{name: "empty", fileName: "empty.txt", contentType: "text/plain", content: []byte{}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doUpload(t, router, path, tt.fileName, tt.contentType, tt.content)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizFlow(t *testing.T) {
	router := setupRouter(t)
	id := createSession(t, router)
	base := "/api/v1/sessions/" + id

	w := doJSON(t, router, http.MethodPut, base+"/view", map[string]string{"view": "challenge"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/view", map[string]string{"view": "quiz"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doUpload(t, router, base+"/document", "notes.txt", "text/plain", []byte("Cells divide."))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/view", map[string]string{"view": "challenge"})
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[services.SessionResponse](t, w)
	assert.Equal(t, 1, session.Quiz.Total)

	w = doJSON(t, router, http.MethodPost, base+"/quiz/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/quiz/answers", map[string]int{"question_id": 7, "option_index": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/quiz/answers", map[string]int{"question_id": 1, "option_index": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[services.QuizResponse](t, w).CanSubmit)

	w = doJSON(t, router, http.MethodPost, base+"/quiz/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quiz := decode[services.QuizResponse](t, w)
	require.NotNil(t, quiz.Result)
	assert.Equal(t, 1, quiz.Result.Score)

	w = doJSON(t, router, http.MethodGet, base+"/quiz/attempts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[services.AttemptListResponse](t, w).Total)

	w = doJSON(t, router, http.MethodGet, base+"/quiz/attempts/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment;")

	w = doJSON(t, router, http.MethodPost, base+"/quiz/retry", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[services.QuizResponse](t, w).ResultsRevealed)
}

func TestChat(t *testing.T) {
	router := setupRouter(t)
	id := createSession(t, router)
	base := "/api/v1/sessions/" + id

	w := doJSON(t, router, http.MethodPost, base+"/chat", map[string]string{"question": "How?"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doUpload(t, router, base+"/document", "notes.txt", "text/plain", []byte("Cells divide."))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/chat", map[string]string{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/chat", map[string]string{"question": "How?"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[services.AskResponse](t, w)
	assert.Equal(t, "Cells divide by mitosis.", resp.Reply.Text)

	w = doJSON(t, router, http.MethodGet, base+"/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 3)
}
