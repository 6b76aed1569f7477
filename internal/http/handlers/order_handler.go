// README: Order handlers (claim a package, order history, invoices).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/http/middleware"
	"sirparcel/internal/modules/account"
	"sirparcel/internal/modules/order"
)

type OrderHandler struct {
	orders   *order.Service
	accounts *account.Service
	now      func() time.Time
}

func NewOrderHandler(orders *order.Service, accounts *account.Service) *OrderHandler {
	return &OrderHandler{orders: orders, accounts: accounts, now: time.Now}
}

type claimReq struct {
	Waybill string `json:"waybill"`
}

type orderResp struct {
	ID        string                `json:"id"`
	Product   order.Product         `json:"product"`
	Recipient order.Party           `json:"recipient"`
	Seller    order.Party           `json:"seller"`
	ETA       string                `json:"eta"`
	Timeline  []order.TimelineEntry `json:"timeline"`
}

func toOrderResp(id string, o order.Order) orderResp {
	return orderResp{
		ID:        id,
		Product:   o.Product,
		Recipient: o.Recipient,
		Seller:    o.Seller,
		ETA:       o.ETA,
		Timeline:  order.Timeline(o.Timeline),
	}
}

// Claim handles POST /api/me/claims. The recipient is the caller's profile.
func (h *OrderHandler) Claim(c *gin.Context) {
	var req claimReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ctx := c.Request.Context()
	p, err := h.accounts.Profile(ctx, middleware.CallerUsername(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	o, err := h.orders.Claim(ctx, order.ClaimCommand{
		Username: p.Username,
		Waybill:  req.Waybill,
		FullName: p.FullName,
		Address:  p.Address,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toOrderResp(req.Waybill, o))
}

// List handles GET /api/me/orders.
func (h *OrderHandler) List(c *gin.Context) {
	owned, err := h.orders.ListByUser(c.Request.Context(), middleware.CallerUsername(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]orderResp, 0, len(owned))
	for _, o := range owned {
		out = append(out, toOrderResp(o.ID, o.Order))
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": out})
}

// Invoice handles GET /api/me/orders/:id/invoice.
func (h *OrderHandler) Invoice(c *gin.Context) {
	id := c.Param("id")
	o, err := h.orders.Get(c.Request.Context(), middleware.CallerUsername(c), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	data, err := order.Invoice(id, o, h.now())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeFile(c, "invoice_"+id+".xlsx", data)
}
