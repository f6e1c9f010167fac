package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/SAP-F-2025/study-assistant/internal/assistant"
	"github.com/SAP-F-2025/study-assistant/internal/events"
	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/validator"
)

const (
	FallbackAssistantUnavailable = "⚠️ Unable to connect to the assistant. Please try again later."
	FallbackEmptyAnswer          = "I'm sorry, I couldn't generate a response."
)

type ChatService interface {
	Ask(ctx context.Context, id string, req *AskRequest) (*AskResponse, error)
	Transcript(ctx context.Context, id string) ([]models.ChatMessage, error)
}

type chatService struct {
	store     *sessionStore
	assistant assistant.Client
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewChatService(deps Dependencies) ChatService {
	return &chatService{
		store:     deps.store(),
		assistant: deps.Assistant,
		publisher: deps.Publisher,
		validator: deps.Validator,
		logger:    NewServiceLogger(deps.Logger, LogConfig{Service: "study-assistant", Component: "chat"}),
	}
}

// Ask records the question with a pending reply right behind it, then relays
// it to the assistant. The reply fills its own placeholder, so the transcript
// keeps the order in which questions were asked whatever order answers arrive in.
func (s *chatService) Ask(ctx context.Context, id string, req *AskRequest) (resp *AskResponse, err error) {
	op := s.logger.WithOperation(ctx, "ask_question", id)
	defer func() { op.LogResult(err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	var (
		seq        int64
		generation int64
		content    string
	)
	if _, err = s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.State() == models.StateEmpty {
			return ErrNoDocument
		}
		if session.Summarizing {
			return ErrSummaryPending
		}
		session.NextSeq++
		seq = session.NextSeq
		generation = session.Generation
		content = chatContext(session)

		now := s.store.now()
		session.Transcript = append(session.Transcript,
			models.ChatMessage{ID: userMessageID(seq), RequestSeq: seq, Sender: models.SenderUser, Text: req.Question, Timestamp: now},
			models.ChatMessage{ID: replyMessageID(seq), RequestSeq: seq, Sender: models.SenderAI, Timestamp: now, Pending: true},
		)
		return nil
	}); err != nil {
		return nil, err
	}

	answer, answered := s.relay(ctx, id, req.Question, content)

	var reply models.ChatMessage
	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.Generation != generation {
			return errSkipSave
		}
		reply = fillReply(session, seq, answer, s.store.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session.Generation != generation {
		s.logger.Info(ctx, "Discarded reply for superseded document", "session_id", id, "request_seq", seq)
		reply = models.ChatMessage{ID: replyMessageID(seq), RequestSeq: seq, Sender: models.SenderAI, Text: answer}
	}

	if pubErr := s.publisher.Publish(ctx, events.NewSessionEvent(events.EventQuestionAsked, id, events.QuestionAskedEvent{
		RequestSeq:     seq,
		QuestionLength: utf8.RuneCountInString(req.Question),
		Answered:       answered,
	})); pubErr != nil {
		s.logger.Warn(ctx, "Failed to publish event", "event_type", events.EventQuestionAsked, "session_id", id, "error", pubErr)
	}

	return &AskResponse{Reply: reply, Transcript: session.Transcript}, nil
}

// relay calls the assistant and turns failures into AI-voiced fallback text.
// answered is false when a fallback was used.
func (s *chatService) relay(ctx context.Context, id, question, content string) (string, bool) {
	answer, err := s.assistant.Ask(context.WithoutCancel(ctx), question, content)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "Ask failed", "session_id", id, "error", err)
		return FallbackAssistantUnavailable, false
	case answer == "":
		return FallbackEmptyAnswer, false
	default:
		return answer, true
	}
}

func (s *chatService) Transcript(ctx context.Context, id string) ([]models.ChatMessage, error) {
	session, err := s.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Transcript == nil {
		return []models.ChatMessage{}, nil
	}
	return session.Transcript, nil
}

// fillReply completes the pending reply for seq. If the placeholder is gone the
// reply is inserted directly after the question that issued it.
func fillReply(session *models.DocumentSession, seq int64, text string, now time.Time) models.ChatMessage {
	reply := models.ChatMessage{ID: replyMessageID(seq), RequestSeq: seq, Sender: models.SenderAI, Text: text, Timestamp: now}

	for i := range session.Transcript {
		msg := &session.Transcript[i]
		if msg.RequestSeq == seq && msg.Sender == models.SenderAI {
			*msg = reply
			return reply
		}
	}

	pos := len(session.Transcript)
	for i, msg := range session.Transcript {
		if msg.RequestSeq == seq && msg.Sender == models.SenderUser {
			pos = i + 1
			break
		}
	}
	session.Transcript = append(session.Transcript, models.ChatMessage{})
	copy(session.Transcript[pos+1:], session.Transcript[pos:])
	session.Transcript[pos] = reply
	return reply
}

// chatContext is the document content sent along with a question.
func chatContext(session *models.DocumentSession) string {
	if session.Text != "" {
		return session.Text
	}
	if isFallbackSummary(session.Summary) {
		return ""
	}
	return session.Summary
}

// Message ids: the greeting is 1, question n is 2n and its reply 2n+1.
func userMessageID(seq int64) int64  { return 2 * seq }
func replyMessageID(seq int64) int64 { return 2*seq + 1 }
