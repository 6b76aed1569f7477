package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sirparcel/internal/ai"
	"sirparcel/internal/http/middleware"
	"sirparcel/internal/infra"
	"sirparcel/internal/modules/account"
	"sirparcel/internal/modules/assistant"
	"sirparcel/internal/modules/location"
	"sirparcel/internal/modules/order"
	"sirparcel/internal/modules/pickup"
	"sirparcel/internal/modules/pricing"
	"sirparcel/internal/service"
)

var fixtures = map[string]string{
	location.DocumentName: `{
  "Maharashtra": {"cities": {"Mumbai": {"offices": [{"address": "1 Marine Drive", "contact": "022-1111"}]}, "Pune": {"offices": []}}},
  "Delhi": {"cities": {"Delhi": {"offices": []}}},
  "Karnataka": {"cities": {"Bengaluru": {"offices": []}}}
}`,
	pricing.ZoneDocumentName: `{
  "zones": {"West": ["Maharashtra"], "North": ["Delhi"], "South": ["Karnataka"]},
  "zone_adjacencies": {"West": ["South"]},
  "special_regions": [],
  "pricing": {
    "special_region": {"base_rate": 100, "rate_per_kg": 20},
    "intra_zone": {"base_rate": 30, "rate_per_kg": 5},
    "adjacent_zone": {"base_rate": 40, "rate_per_kg": 7.5},
    "national": {"base_rate": 60, "rate_per_kg": 12}
  }
}`,
	pricing.DirectDocumentName: `{"Mumbai": {"Delhi": {"base_rate": 50, "rate_per_kg": 10}}}`,
	order.PackagesDocument: `{
  "packages": {
    "FMPP0001": {
      "product_name": "Wireless Mouse",
      "seller": {"name": "Gadget Hub", "address": "12 MG Road, Bengaluru"},
      "eta": "Delivered",
      "timeline": [
        {"status": "Ordered", "date": "2024-05-01", "details": "Order placed"},
        {"status": "Delivered", "date": "2024-05-04", "details": "Handed to resident"}
      ]
    }
  }
}`,
}

type echoProvider struct{}

func (echoProvider) Reply(_ context.Context, conv ai.Conversation) (string, error) {
	last, _ := conv.Last()
	return "You asked: " + last.Content, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	for name, body := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	docs := infra.NewDocuments(infra.NewFileBackend(dir), nil)

	locStore := location.NewStore(docs)
	pricingSvc := pricing.NewService(pricing.NewStore(docs, locStore), nil)
	orderStore := order.NewStore(docs)
	orderSvc := order.NewService(orderStore, nil)

	return NewRouter(ServerDeps{
		Pricing:   pricingSvc,
		Planner:   service.NewQuotePlanner(pricingSvc, nil, nil),
		Location:  location.NewService(locStore),
		Order:     orderSvc,
		Account:   account.NewService(docs, orderStore, nil),
		Pickup:    pickup.NewService(nil),
		Assistant: assistant.NewService(assistant.NewMemoryStore(), echoProvider{}, orderSvc, assistant.Config{}, nil),
		Sessions:  middleware.NewCookieStore("0123456789abcdef0123456789abcdef", false, time.Hour),
	})
}

// client carries cookies between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T) *client {
	return &client{t: t, h: newTestRouter(t), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	w := newClient(t).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestQuoteEndpoint(t *testing.T) {
	c := newClient(t)
	tests := []struct {
		name   string
		body   map[string]any
		status int
		check  func(t *testing.T, out map[string]any)
	}{
		{
			name:   "direct rate",
			body:   map[string]any{"from": "Mumbai", "to": "Delhi", "weight": 2},
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "70.00", out["cost"])
				assert.Equal(t, "Rs. 70.00", out["display"])
				assert.Equal(t, "Shipment from Mumbai to Delhi (Direct Rate).", out["explanation"])
				assert.NotContains(t, out, "transit")
			},
		},
		{
			name:   "adjacent zone",
			body:   map[string]any{"from": "Pune", "to": "Bengaluru", "weight": "1.5"},
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "51.25", out["cost"])
				assert.Equal(t, "adjacent_zone", out["tier"])
			},
		},
		{
			name:   "unknown city",
			body:   map[string]any{"from": "Atlantis", "to": "Delhi", "weight": 1},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "same city",
			body:   map[string]any{"from": "Pune", "to": "Pune", "weight": 1},
			status: http.StatusBadRequest,
			check: func(t *testing.T, out map[string]any) {
				assert.Contains(t, out["error"], "cannot be the same")
			},
		},
		{
			name:   "zero weight",
			body:   map[string]any{"from": "Mumbai", "to": "Delhi", "weight": 0},
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.do(http.MethodPost, "/api/quote", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, decode(t, w))
			}
		})
	}
}

func TestQuoteEndpoint_InvalidJSON(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/quote", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCitiesAndVolumetric(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/cities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Bengaluru", "Delhi", "Mumbai", "Pune"}, decode(t, w)["cities"])

	w = c.do(http.MethodPost, "/api/tools/volumetric-weight", map[string]any{"length": 50, "width": 40, "height": 25})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.00", decode(t, w)["volumetric_weight_kg"])

	w = c.do(http.MethodPost, "/api/tools/volumetric-weight", map[string]any{"length": 0, "width": 40, "height": 25})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocationEndpoints(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/locations/states", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Maharashtra", "Delhi", "Karnataka"}, decode(t, w)["states"])

	w = c.do(http.MethodGet, "/api/locations/states/Maharashtra/cities/Mumbai/offices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	offices := decode(t, w)["offices"].([]any)
	require.Len(t, offices, 1)
	assert.Equal(t, "1 Marine Drive", offices[0].(map[string]any)["address"])

	w = c.do(http.MethodGet, "/api/locations/states/Goa/cities", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackEndpoints(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/track/FMPP0001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, "Wireless Mouse", out["product_name"])
	timeline := out["timeline"].([]any)
	require.Len(t, timeline, 2)
	assert.Equal(t, true, timeline[0].(map[string]any)["delivered"])

	w = c.do(http.MethodGet, "/api/track/FMPP0001/proof", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())

	w = c.do(http.MethodGet, "/api/track/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPickupEndpoint(t *testing.T) {
	c := newClient(t)
	req := map[string]any{
		"shipper_name":      "Asha",
		"shipper_address":   "4 Park St",
		"shipper_pincode":   "400001",
		"shipper_phone":     "9800000000",
		"recipient_name":    "Ravi",
		"recipient_address": "9 Lake Rd",
		"recipient_pincode": "110001",
		"description":       "Books",
		"weight":            "2.5",
		"date":              time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}
	w := c.do(http.MethodPost, "/api/pickups", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["reference"])

	req["shipper_pincode"] = "4000"
	w = c.do(http.MethodPost, "/api/pickups", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountAndOrderFlow(t *testing.T) {
	c := newClient(t)
	signup := map[string]any{"username": "asha", "password": "s3cret", "full_name": "Asha Rao", "address": "4 Park St"}

	w := c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodPost, "/api/accounts", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = c.do(http.MethodPost, "/api/accounts", signup)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/session", map[string]any{"username": "asha", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = c.do(http.MethodPost, "/api/session", map[string]any{"username": "asha", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha Rao", decode(t, w)["full_name"])

	w = c.do(http.MethodPost, "/api/me/claims", map[string]any{"waybill": "FMPP0001"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Asha Rao", decode(t, w)["recipient"].(map[string]any)["name"])

	w = c.do(http.MethodPost, "/api/me/claims", map[string]any{"waybill": "FMPP0001"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = c.do(http.MethodPost, "/api/me/claims", map[string]any{"waybill": "FMPP9999"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/api/me/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode(t, w)["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, "FMPP0001", orders[0].(map[string]any)["id"])

	w = c.do(http.MethodGet, "/api/me/orders/FMPP0001/invoice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_FMPP0001.xlsx")
	w = c.do(http.MethodGet, "/api/me/orders/FMPP0002/invoice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	update := map[string]any{"username": "asha.rao", "password": "", "full_name": "Asha Rao", "address": "7 New Rd"}
	w = c.do(http.MethodPut, "/api/me", update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "update ends the session")

	w = c.do(http.MethodPost, "/api/session", map[string]any{"username": "asha.rao", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodGet, "/api/me/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 1, "orders follow the rename")

	w = c.do(http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = c.do(http.MethodGet, "/api/me/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordReset(t *testing.T) {
	c := newClient(t)
	w := c.do(http.MethodPost, "/api/accounts/password-reset", map[string]any{"username": "ghost", "new_password": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	c.do(http.MethodPost, "/api/accounts", map[string]any{"username": "ravi", "password": "old", "full_name": "Ravi", "address": "Delhi"})
	w = c.do(http.MethodPost, "/api/accounts/password-reset", map[string]any{"username": "ravi", "new_password": "new"})
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodPost, "/api/session", map[string]any{"username": "ravi", "password": "new"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAssistantEndpoints(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/assistant/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := decode(t, w)["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, assistant.Greeting, msgs[0].(map[string]any)["content"])

	w = c.do(http.MethodPost, "/api/assistant/messages", map[string]any{"message": "where is FMPP0001?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decode(t, w)
	assert.Equal(t, false, reply["degraded"])
	assert.Equal(t, "You asked: where is FMPP0001?", reply["message"].(map[string]any)["content"])

	w = c.do(http.MethodGet, "/api/assistant/messages", nil)
	assert.Len(t, decode(t, w)["messages"], 3)

	w = c.do(http.MethodPost, "/api/assistant/messages", map[string]any{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
