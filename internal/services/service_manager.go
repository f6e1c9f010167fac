package services

import (
	"log/slog"

	"github.com/SAP-F-2025/study-assistant/internal/assistant"
	"github.com/SAP-F-2025/study-assistant/internal/events"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"github.com/SAP-F-2025/study-assistant/internal/validator"
)

// Dependencies are the collaborators shared by all services.
type Dependencies struct {
	Sessions       repositories.SessionRepository
	Attempts       repositories.AttemptRepository
	Assistant      assistant.Client
	Publisher      events.EventPublisher
	Validator      *validator.Validator
	Logger         *slog.Logger
	MaxUploadBytes int64

	shared *sessionStore
}

func (d *Dependencies) store() *sessionStore {
	if d.shared == nil {
		d.shared = newSessionStore(d.Sessions)
	}
	return d.shared
}

type ServiceManager interface {
	Session() SessionService
	Chat() ChatService
	Export() ExportService
}

type serviceManager struct {
	session SessionService
	chat    ChatService
	export  ExportService
}

// NewServiceManager builds every service over one session store so that
// session and chat operations share per-session locking.
func NewServiceManager(deps Dependencies) ServiceManager {
	deps.store()
	return &serviceManager{
		session: NewSessionService(deps),
		chat:    NewChatService(deps),
		export:  NewExportService(deps),
	}
}

func (m *serviceManager) Session() SessionService { return m.session }
func (m *serviceManager) Chat() ChatService       { return m.chat }
func (m *serviceManager) Export() ExportService   { return m.export }
