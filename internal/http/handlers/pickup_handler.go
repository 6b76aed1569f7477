// README: Pickup booking handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/modules/pickup"
)

type PickupHandler struct {
	pickups *pickup.Service
}

func NewPickupHandler(svc *pickup.Service) *PickupHandler {
	return &PickupHandler{pickups: svc}
}

// Schedule handles POST /api/pickups.
func (h *PickupHandler) Schedule(c *gin.Context) {
	var req pickup.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	conf, err := h.pickups.Schedule(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, conf)
}
