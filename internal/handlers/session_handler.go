package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	maxUploadBytes int64
}

func NewSessionHandler(
	sessionService services.SessionService,
	maxUploadBytes int64,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateSession creates an empty document session
// @Summary Create session
// @Tags sessions
// @Produce json
// @Success 201 {object} services.SessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Created session", "session_id", session.ID)
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the full session view
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession discards a session
// @Summary Delete session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadDocument accepts a multipart "file" field and summarizes it
// @Summary Upload document
// @Description Replaces the session document and returns the session with its summary
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "PDF, DOC, DOCX or TXT document"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /sessions/{id}/document [post]
func (h *SessionHandler) UploadDocument(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "A file field is required", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read uploaded file", err)
		return
	}
	defer file.Close()

	// One byte past the limit is enough to report the file as too large
	limit := h.maxUploadBytes + 1
	if h.maxUploadBytes <= 0 {
		limit = header.Size
	}
	content, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read uploaded file", err)
		return
	}

	h.LogRequest(c, "Uploading document", "file_name", header.Filename, "size", header.Size)

	session, err := h.sessionService.UploadDocument(c.Request.Context(), id, &services.UploadDocumentRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ResetDocument drops the document and everything derived from it
// @Summary Reset document
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/document [delete]
func (h *SessionHandler) ResetDocument(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	session, err := h.sessionService.ResetDocument(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SwitchView changes between the summary and challenge views
// @Summary Switch view
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param view body services.SwitchViewRequest true "Target view"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/view [put]
func (h *SessionHandler) SwitchView(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SwitchViewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.SwitchView(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetSummary returns the parsed summary sections
// @Summary Get summary
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SummaryResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/summary [get]
func (h *SessionHandler) GetSummary(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	summary, err := h.sessionService.Summary(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func contentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q", fileName)
}
