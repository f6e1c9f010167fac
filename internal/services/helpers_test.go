package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/SAP-F-2025/study-assistant/internal/assistant"
	"github.com/SAP-F-2025/study-assistant/internal/events"
	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"github.com/SAP-F-2025/study-assistant/internal/repositories/memory"
	"github.com/SAP-F-2025/study-assistant/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAssistant is a testify mock of assistant.Client
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Summarize(ctx context.Context, file assistant.Upload) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

func (m *MockAssistant) GenerateQuestions(ctx context.Context, documentText string) (assistant.QuestionPayload, error) {
	args := m.Called(ctx, documentText)
	return args.Get(0).(assistant.QuestionPayload), args.Error(1)
}

func (m *MockAssistant) Ask(ctx context.Context, question, fileContent string) (string, error) {
	args := m.Called(ctx, question, fileContent)
	return args.String(0), args.Error(1)
}

var errSaveFailed = errors.New("save failed")

// failingSessions wraps a session repository and fails the next failSaves writes.
type failingSessions struct {
	repositories.SessionRepository
	failSaves atomic.Int32
}

func (f *failingSessions) Save(ctx context.Context, session *models.DocumentSession) error {
	for n := f.failSaves.Load(); n > 0; n = f.failSaves.Load() {
		if f.failSaves.CompareAndSwap(n, n-1) {
			return errSaveFailed
		}
	}
	return f.SessionRepository.Save(ctx, session)
}

type testEnv struct {
	manager   ServiceManager
	sessions  *failingSessions
	assistant *MockAssistant
	publisher *events.MockEventPublisher
	attempts  *memory.AttemptMemory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		assistant: &MockAssistant{},
		publisher: events.NewMockEventPublisher(logger),
		attempts:  memory.NewAttemptMemory(),
		sessions:  &failingSessions{SessionRepository: memory.NewSessionMemory(0)},
	}
	env.manager = NewServiceManager(Dependencies{
		Sessions:       env.sessions,
		Attempts:       env.attempts,
		Assistant:      env.assistant,
		Publisher:      env.publisher,
		Validator:      validator.New(),
		Logger:         logger,
		MaxUploadBytes: 1 << 20,
	})
	return env
}

func (e *testEnv) store() *sessionStore {
	return e.manager.(*serviceManager).session.(*sessionService).store
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	resp, err := e.manager.Session().Create(context.Background())
	require.NoError(t, err)
	return resp.ID
}

// uploadText uploads a plain text document whose summary is summaryText.
func (e *testEnv) uploadText(t *testing.T, id, name, content, summaryText string) *SessionResponse {
	t.Helper()
	e.assistant.On("Summarize", mock.Anything, mock.MatchedBy(func(u assistant.Upload) bool {
		return u.Name == name
	})).Return(summaryText, nil).Once()

	resp, err := e.manager.Session().UploadDocument(context.Background(), id, &UploadDocumentRequest{
		FileName:    name,
		ContentType: "text/plain",
		Content:     []byte(content),
	})
	require.NoError(t, err)
	return resp
}

const threeQuestionPayload = `{"questions": [
	{"id": 1, "question": "What is studied?", "options": ["X", "Y", "Z"], "correctAnswer": 0},
	{"id": 2, "question": "Which method?", "options": ["A", "B"]},
	{"id": 3, "question": "What was found?", "options": ["P", "Q"], "correctAnswer": 1}
]}`

func questionPayload(body string) assistant.QuestionPayload {
	return assistant.DecodeQuestionPayload([]byte(body))
}

func intPtr(v int) *int { return &v }
