// README: Quote handlers (city catalog, price quote, volumetric weight).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sirparcel/internal/maps"
	"sirparcel/internal/modules/pricing"
	"sirparcel/internal/service"
)

type QuoteHandler struct {
	pricing *pricing.Service
	planner *service.QuotePlanner
}

func NewQuoteHandler(p *pricing.Service, planner *service.QuotePlanner) *QuoteHandler {
	return &QuoteHandler{pricing: p, planner: planner}
}

type quoteReq struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Weight decimal.Decimal `json:"weight"`
}

type rateResp struct {
	BaseRate  string `json:"base_rate"`
	RatePerKg string `json:"rate_per_kg"`
}

type quoteResp struct {
	Cost            string        `json:"cost"`
	Currency        string        `json:"currency"`
	Display         string        `json:"display"`
	Explanation     string        `json:"explanation"`
	Source          string        `json:"source"`
	Tier            string        `json:"tier,omitempty"`
	OriginZone      string        `json:"origin_zone,omitempty"`
	DestinationZone string        `json:"destination_zone,omitempty"`
	Weight          string        `json:"weight"`
	Rate            rateResp      `json:"rate"`
	Transit         *maps.Transit `json:"transit,omitempty"`
}

// Cities handles GET /api/cities.
func (h *QuoteHandler) Cities(c *gin.Context) {
	cities, err := h.pricing.Cities(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"cities": cities})
}

// Quote handles POST /api/quote.
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	plan, err := h.planner.Plan(c.Request.Context(), pricing.QuoteRequest{From: req.From, To: req.To, Weight: req.Weight})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	q := plan.Quote
	money := q.Money()
	writeJSON(c, http.StatusOK, quoteResp{
		Cost:            q.Cost.StringFixed(2),
		Currency:        money.Currency,
		Display:         money.String(),
		Explanation:     q.Explanation,
		Source:          string(q.Source),
		Tier:            string(q.Tier),
		OriginZone:      q.OriginZone,
		DestinationZone: q.DestinationZone,
		Weight:          q.Weight.String(),
		Rate:            rateResp{BaseRate: q.Rate.BaseRate.String(), RatePerKg: q.Rate.RatePerKg.String()},
		Transit:         plan.Transit,
	})
}

type volumetricReq struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// VolumetricWeight handles POST /api/tools/volumetric-weight.
func (h *QuoteHandler) VolumetricWeight(c *gin.Context) {
	var req volumetricReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	w, err := pricing.VolumetricWeight(req.Length, req.Width, req.Height)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"volumetric_weight_kg": w.StringFixed(2)})
}
