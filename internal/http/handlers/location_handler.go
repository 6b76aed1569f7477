// README: Location handlers (office finder).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/modules/location"
)

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

func (h *LocationHandler) States(c *gin.Context) {
	states, err := h.location.ListStates(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"states": states})
}

func (h *LocationHandler) Cities(c *gin.Context) {
	cities, err := h.location.ListCities(c.Request.Context(), c.Param("state"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"state": c.Param("state"), "cities": cities})
}

func (h *LocationHandler) Offices(c *gin.Context) {
	offices, err := h.location.ListOffices(c.Request.Context(), c.Param("state"), c.Param("city"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"city": c.Param("city"), "offices": offices})
}
