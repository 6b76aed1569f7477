// README: Assistant chat handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/http/middleware"
	"sirparcel/internal/modules/assistant"
)

type AssistantHandler struct {
	assistant *assistant.Service
}

func NewAssistantHandler(svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{assistant: svc}
}

type chatReq struct {
	Message string `json:"message"`
}

// History handles GET /api/assistant/messages.
func (h *AssistantHandler) History(c *gin.Context) {
	id, err := middleware.ChatID(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	msgs, err := h.assistant.History(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"messages": msgs})
}

// Send handles POST /api/assistant/messages.
func (h *AssistantHandler) Send(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := middleware.ChatID(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	reply, err := h.assistant.Chat(c.Request.Context(), id, req.Message)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, reply)
}
