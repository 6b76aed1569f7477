// README: Public tracking handlers (status, timeline, proof of delivery).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/modules/order"
)

type TrackHandler struct {
	orders *order.Service
	now    func() time.Time
}

func NewTrackHandler(orders *order.Service) *TrackHandler {
	return &TrackHandler{orders: orders, now: time.Now}
}

type trackResp struct {
	Waybill     string                `json:"waybill"`
	ProductName string                `json:"product_name"`
	Seller      order.Party           `json:"seller"`
	ETA         string                `json:"eta"`
	Timeline    []order.TimelineEntry `json:"timeline"`
}

// Track handles GET /api/track/:waybill.
func (h *TrackHandler) Track(c *gin.Context) {
	waybill := c.Param("waybill")
	pkg, err := h.orders.Track(c.Request.Context(), waybill)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, trackResp{
		Waybill:     waybill,
		ProductName: pkg.ProductName,
		Seller:      pkg.Seller,
		ETA:         pkg.ETA,
		Timeline:    order.Timeline(pkg.Timeline),
	})
}

// Proof handles GET /api/track/:waybill/proof.
func (h *TrackHandler) Proof(c *gin.Context) {
	waybill := c.Param("waybill")
	pkg, err := h.orders.Track(c.Request.Context(), waybill)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	data, err := order.ProofOfDelivery(waybill, pkg, h.now())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeFile(c, "proof_"+waybill+".xlsx", data)
}
