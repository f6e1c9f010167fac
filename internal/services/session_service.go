package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/SAP-F-2025/study-assistant/internal/assistant"
	"github.com/SAP-F-2025/study-assistant/internal/events"
	"github.com/SAP-F-2025/study-assistant/internal/intake"
	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/quiz"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"github.com/SAP-F-2025/study-assistant/internal/summary"
	"github.com/SAP-F-2025/study-assistant/internal/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const (
	FallbackNoSummary     = "⚠️ No summary returned."
	FallbackSummaryFailed = "⚠️ Failed to summarize document."
)

type SessionService interface {
	Create(ctx context.Context) (*SessionResponse, error)
	Get(ctx context.Context, id string) (*SessionResponse, error)
	Delete(ctx context.Context, id string) error

	UploadDocument(ctx context.Context, id string, req *UploadDocumentRequest) (*SessionResponse, error)
	ResetDocument(ctx context.Context, id string) (*SessionResponse, error)
	SwitchView(ctx context.Context, id string, req *SwitchViewRequest) (*SessionResponse, error)
	Summary(ctx context.Context, id string) (*SummaryResponse, error)

	GenerateQuestions(ctx context.Context, id string) (*QuizResponse, error)
	Quiz(ctx context.Context, id string) (*QuizResponse, error)
	SelectAnswer(ctx context.Context, id string, req *SelectAnswerRequest) (*QuizResponse, error)
	SubmitQuiz(ctx context.Context, id string) (*QuizResponse, error)
	RetryQuiz(ctx context.Context, id string) (*QuizResponse, error)
	Attempts(ctx context.Context, id string) (*AttemptListResponse, error)
}

type sessionService struct {
	store          *sessionStore
	assistant      assistant.Client
	attempts       repositories.AttemptRepository
	publisher      events.EventPublisher
	validator      *validator.Validator
	logger         *ServiceLogger
	maxUploadBytes int64

	// collapses concurrent question generation for the same document
	inflight singleflight.Group
}

func NewSessionService(deps Dependencies) SessionService {
	return &sessionService{
		store:          deps.store(),
		assistant:      deps.Assistant,
		attempts:       deps.Attempts,
		publisher:      deps.Publisher,
		validator:      deps.Validator,
		logger:         NewServiceLogger(deps.Logger, LogConfig{Service: "study-assistant", Component: "session"}),
		maxUploadBytes: deps.MaxUploadBytes,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) Create(ctx context.Context) (resp *SessionResponse, err error) {
	session := &models.DocumentSession{
		ID:         uuid.NewString(),
		View:       models.ViewSummary,
		Transcript: []models.ChatMessage{},
	}

	op := s.logger.WithOperation(ctx, "create_session", session.ID)
	defer func() { op.LogResult(err) }()

	if err = s.store.create(ctx, session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*SessionResponse, error) {
	session, err := s.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) Delete(ctx context.Context, id string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_session", id)
	defer func() { op.LogResult(err) }()

	return s.store.delete(ctx, id)
}

// ===== DOCUMENT =====

// UploadDocument replaces the session's document and summarizes it. The
// previous summary, quiz and transcript are dropped before the assistant is
// called, so a slow or failed summary never shows stale content.
func (s *sessionService) UploadDocument(ctx context.Context, id string, req *UploadDocumentRequest) (resp *SessionResponse, err error) {
	op := s.logger.WithOperation(ctx, "upload_document", id)
	defer func() { op.LogResult(err) }()

	if errs := s.validator.Request().ValidateUpload(req.FileName, int64(len(req.Content)), s.maxUploadBytes); len(errs) > 0 {
		return nil, errs
	}

	doc, err := intake.Accept(req.FileName, req.ContentType, req.Content, s.maxUploadBytes)
	if err != nil {
		return nil, mapIntakeError(err)
	}

	var generation int64
	if _, err = s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		session.ClearDocument()
		session.File = &models.FileReference{
			Name:      doc.Name,
			Size:      doc.Size,
			MIMEType:  doc.MIMEType,
			PlainText: doc.PlainText,
		}
		session.Text = doc.Text
		session.Summarizing = true
		generation = session.Generation
		return nil
	}); err != nil {
		return nil, err
	}

	text := s.summarize(ctx, doc)

	applied := false
	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.Generation != generation {
			return errSkipSave
		}
		session.Summary = text
		session.Summarizing = false
		if len(session.Transcript) == 0 {
			session.Transcript = append(session.Transcript, greeting(session.File.Name, s.store.now()))
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		parsed := summary.Parse(text)
		s.publish(ctx, events.NewSessionEvent(events.EventDocumentSummarized, id, events.DocumentSummarizedEvent{
			DocumentName: doc.Name,
			MIMEType:     doc.MIMEType,
			SizeBytes:    doc.Size,
			Structured:   parsed.Structured,
			Sections:     len(parsed.Sections),
			Fallback:     isFallbackSummary(text),
		}))
	} else {
		s.logger.Info(ctx, "Discarded summary for superseded document", "session_id", id, "document", doc.Name)
	}

	return toSessionResponse(session), nil
}

// summarize never fails; transport and decode errors become fallback text.
func (s *sessionService) summarize(ctx context.Context, doc *intake.Document) string {
	text, err := s.assistant.Summarize(context.WithoutCancel(ctx), assistant.Upload{
		Name:        doc.Name,
		ContentType: doc.MIMEType,
		Content:     doc.Content,
	})
	switch {
	case err != nil:
		s.logger.Warn(ctx, "Summarize failed", "document", doc.Name, "error", err)
		return FallbackSummaryFailed
	case text == "":
		return FallbackNoSummary
	default:
		return text
	}
}

func (s *sessionService) ResetDocument(ctx context.Context, id string) (resp *SessionResponse, err error) {
	op := s.logger.WithOperation(ctx, "reset_document", id)
	defer func() { op.LogResult(err) }()

	var name string
	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.State() == models.StateEmpty {
			return errSkipSave
		}
		name = session.File.Name
		session.ClearDocument()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if name != "" {
		s.publish(ctx, events.NewSessionEvent(events.EventDocumentReset, id, events.DocumentResetEvent{DocumentName: name}))
	}
	return toSessionResponse(session), nil
}

// SwitchView changes the active view. Entering the challenge view with no
// questions and no generation in flight starts question generation.
func (s *sessionService) SwitchView(ctx context.Context, id string, req *SwitchViewRequest) (resp *SessionResponse, err error) {
	op := s.logger.WithOperation(ctx, "switch_view", id)
	defer func() { op.LogResult(err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	view := models.SessionView(req.View)
	trigger := false
	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if view == models.ViewChallenge && session.State() == models.StateEmpty {
			return ErrNoDocument
		}
		session.View = view
		trigger = view == models.ViewChallenge && quiz.IsEmpty(session.Quiz) && !session.GeneratingQuestions
		return nil
	})
	if err != nil {
		return nil, err
	}

	if trigger {
		generated, genErr := s.generate(ctx, id, false)
		switch {
		case genErr == nil:
			session = generated
		case errors.Is(genErr, ErrDocumentTextUnavailable), errors.Is(genErr, ErrSummaryPending):
			s.logger.Info(ctx, "Question generation deferred", "session_id", id, "reason", genErr.Error())
		default:
			return nil, genErr
		}
	}

	return toSessionResponse(session), nil
}

func (s *sessionService) Summary(ctx context.Context, id string) (*SummaryResponse, error) {
	session, err := s.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State() == models.StateEmpty {
		return nil, ErrNoDocument
	}
	return toSummaryResponse(session), nil
}

// ===== QUIZ =====

// GenerateQuestions replaces the quiz with a freshly generated question set.
func (s *sessionService) GenerateQuestions(ctx context.Context, id string) (resp *QuizResponse, err error) {
	op := s.logger.WithOperation(ctx, "generate_questions", id)
	defer func() { op.LogResult(err) }()

	session, err := s.generate(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(session), nil
}

func (s *sessionService) generate(ctx context.Context, id string, force bool) (*models.DocumentSession, error) {
	current, err := s.store.get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := id + ":" + strconv.FormatInt(current.Generation, 10)
	result, err, shared := s.inflight.Do(key, func() (interface{}, error) {
		return s.runGeneration(context.WithoutCancel(ctx), id, force)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug(ctx, "Joined in-flight question generation", "session_id", id)
	}
	return result.(*models.DocumentSession), nil
}

func (s *sessionService) runGeneration(ctx context.Context, id string, force bool) (*models.DocumentSession, error) {
	var (
		generation int64
		text       string
		started    bool
	)
	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.State() == models.StateEmpty {
			return ErrNoDocument
		}
		if !force && (session.GeneratingQuestions || !quiz.IsEmpty(session.Quiz)) {
			return errSkipSave
		}
		source, err := documentText(session)
		if err != nil {
			return err
		}
		session.GeneratingQuestions = true
		generation = session.Generation
		text = source
		started = true
		return nil
	})
	if err != nil || !started {
		return session, err
	}

	payload, callErr := s.assistant.GenerateQuestions(ctx, text)
	if callErr != nil {
		s.logger.Warn(ctx, "Question generation failed", "session_id", id, "error", callErr)
		payload = assistant.QuestionPayload{}
	}
	questions := quiz.Validate(payload.Candidates)

	var documentName string
	applied := false
	session, err = s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.Generation != generation {
			return errSkipSave
		}
		session.Quiz = quiz.NewSession(questions)
		session.GeneratingQuestions = false
		documentName = session.File.Name
		applied = true
		return nil
	})
	if err != nil {
		s.clearGenerating(ctx, id, generation)
		return nil, err
	}

	if applied {
		s.publish(ctx, events.NewSessionEvent(events.EventQuestionsGenerated, id, events.QuestionsGeneratedEvent{
			DocumentName:   documentName,
			PayloadShape:   payload.Shape.String(),
			Received:       len(payload.Candidates) + payload.Dropped,
			ValidQuestions: len(questions),
		}))
	}
	return session, nil
}

// clearGenerating drops the in-progress flag after a failed write so that the
// next switch to the challenge view generates again.
func (s *sessionService) clearGenerating(ctx context.Context, id string, generation int64) {
	_, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if session.Generation != generation || !session.GeneratingQuestions {
			return errSkipSave
		}
		session.GeneratingQuestions = false
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "Failed to clear question generation flag", "session_id", id, "error", err)
	}
}

func (s *sessionService) Quiz(ctx context.Context, id string) (*QuizResponse, error) {
	session, err := s.store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(session), nil
}

func (s *sessionService) SelectAnswer(ctx context.Context, id string, req *SelectAnswerRequest) (resp *QuizResponse, err error) {
	op := s.logger.WithOperation(ctx, "select_answer", id)
	defer func() { op.LogResult(err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if quiz.IsEmpty(session.Quiz) {
			return ErrQuizNotGenerated
		}
		if session.Quiz.ResultsRevealed {
			return errSkipSave
		}
		return quiz.SelectAnswer(session.Quiz, *req.QuestionID, *req.OptionIndex)
	})
	if err != nil {
		return nil, err
	}
	return toQuizResponse(session), nil
}

// SubmitQuiz reveals results once every question is answered. Submitting an
// already revealed quiz returns it unchanged and records nothing.
func (s *sessionService) SubmitQuiz(ctx context.Context, id string) (resp *QuizResponse, err error) {
	op := s.logger.WithOperation(ctx, "submit_quiz", id)
	defer func() { op.LogResult(err) }()

	submitted := false
	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if quiz.IsEmpty(session.Quiz) {
			return ErrQuizNotGenerated
		}
		if session.Quiz.ResultsRevealed {
			return errSkipSave
		}
		if !quiz.CanSubmit(session.Quiz) {
			return NewBusinessRuleError(ruleQuizIncomplete, ErrQuizNotReady.Error(), map[string]interface{}{
				"answered": quiz.Answered(session.Quiz),
				"total":    len(session.Quiz.Questions),
			})
		}
		submitted = quiz.Submit(session.Quiz)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if submitted {
		s.recordAttempt(ctx, session)
	}
	return toQuizResponse(session), nil
}

// recordAttempt stores the submitted quiz in the attempt history. A failure is
// logged and never undoes the submission.
func (s *sessionService) recordAttempt(ctx context.Context, session *models.DocumentSession) {
	result := quiz.Result(session.Quiz)

	answers := make([]models.AttemptAnswer, 0, len(session.Quiz.Questions))
	for _, q := range session.Quiz.Questions {
		selected := session.Quiz.Selections[q.ID]
		answers = append(answers, models.AttemptAnswer{
			QuestionID:    q.ID,
			Question:      q.Text,
			Selected:      selected,
			SelectedText:  q.Options[selected],
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     selected == q.CorrectAnswer,
		})
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		s.logger.Warn(ctx, "Failed to encode attempt answers", "session_id", session.ID, "error", err)
		return
	}

	count, err := s.attempts.CountBySession(ctx, session.ID)
	if err != nil {
		s.logger.Warn(ctx, "Failed to count attempts", "session_id", session.ID, "error", err)
	}

	attempt := &models.QuizAttempt{
		SessionID:     session.ID,
		DocumentName:  session.File.Name,
		Score:         result.Score,
		Total:         result.Total,
		Percentage:    result.Percentage,
		Band:          result.Band,
		Answers:       datatypes.JSON(answersJSON),
		AttemptNumber: int(count) + 1,
		SubmittedAt:   s.store.now(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		s.logger.Warn(ctx, "Failed to record quiz attempt", "session_id", session.ID, "error", err)
		return
	}

	s.publish(ctx, events.NewSessionEvent(events.EventQuizSubmitted, session.ID, events.QuizSubmittedEvent{
		DocumentName:  attempt.DocumentName,
		AttemptNumber: attempt.AttemptNumber,
		Score:         result.Score,
		Total:         result.Total,
		Percentage:    result.Percentage,
		Band:          string(result.Band),
	}))
}

// RetryQuiz clears selections and results, keeping the question set.
func (s *sessionService) RetryQuiz(ctx context.Context, id string) (resp *QuizResponse, err error) {
	op := s.logger.WithOperation(ctx, "retry_quiz", id)
	defer func() { op.LogResult(err) }()

	session, err := s.store.mutate(ctx, id, func(session *models.DocumentSession) error {
		if quiz.IsEmpty(session.Quiz) {
			return ErrQuizNotGenerated
		}
		quiz.Reset(session.Quiz)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toQuizResponse(session), nil
}

func (s *sessionService) Attempts(ctx context.Context, id string) (*AttemptListResponse, error) {
	if _, err := s.store.get(ctx, id); err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListBySession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return &AttemptListResponse{SessionID: id, Attempts: attempts, Total: len(attempts)}, nil
}

// ===== HELPERS =====

func (s *sessionService) publish(ctx context.Context, event *events.SessionEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish event", "event_type", event.Type, "session_id", event.SessionID, "error", err)
	}
}

// documentText picks the text questions are generated from: locally read
// text, otherwise the summary once a real one is available.
func documentText(session *models.DocumentSession) (string, error) {
	if session.Text != "" {
		return session.Text, nil
	}
	if session.Summarizing {
		return "", ErrSummaryPending
	}
	if session.Summary == "" || isFallbackSummary(session.Summary) {
		return "", ErrDocumentTextUnavailable
	}
	return session.Summary, nil
}

func isFallbackSummary(text string) bool {
	return text == FallbackNoSummary || text == FallbackSummaryFailed
}

func mapIntakeError(err error) error {
	switch {
	case errors.Is(err, intake.ErrUnsupportedType):
		return fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
	case errors.Is(err, intake.ErrEmptyDocument):
		return fmt.Errorf("%w: %w", ErrEmptyFile, err)
	case errors.Is(err, intake.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrFileTooLarge, err)
	default:
		return err
	}
}
