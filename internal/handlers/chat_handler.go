package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		chatService: chatService,
	}
}

// Ask relays a question about the document to the assistant
// @Summary Ask question
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param question body services.AskRequest true "Question"
// @Success 200 {object} services.AskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/chat [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.AskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.chatService.Ask(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTranscript returns the conversation so far
// @Summary Get transcript
// @Tags chat
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} models.ChatMessage
// @Router /sessions/{id}/chat [get]
func (h *ChatHandler) GetTranscript(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	transcript, err := h.chatService.Transcript(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcript)
}
