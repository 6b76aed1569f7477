// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/infra"
	"sirparcel/internal/modules/account"
	"sirparcel/internal/modules/assistant"
	"sirparcel/internal/modules/location"
	"sirparcel/internal/modules/order"
	"sirparcel/internal/modules/pickup"
	"sirparcel/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeFile(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// statusOf maps module errors to HTTP statuses in one place.
func statusOf(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, order.ErrBadRequest),
		errors.Is(err, account.ErrBadRequest),
		errors.Is(err, pickup.ErrBadRequest),
		errors.Is(err, assistant.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, pricing.ErrUnresolvedLocation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, location.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, account.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrInsufficientTokens):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError reports err to the client. Client errors carry the module's
// message; server errors are recorded on the context for the request log and
// only a missing tier rate keeps its reason.
func writeDomainError(c *gin.Context, err error) {
	status := statusOf(err)
	if status < http.StatusInternalServerError {
		writeError(c, status, err.Error())
		return
	}
	_ = c.Error(err)

	var schemaErr *infra.SchemaError
	switch {
	case errors.Is(err, pricing.ErrMissingTierRate):
		writeError(c, status, err.Error())
	case errors.As(err, &schemaErr):
		writeError(c, status, "reference data in "+schemaErr.Document+" is invalid")
	case errors.Is(err, infra.ErrStoreIO):
		writeError(c, status, "storage unavailable")
	default:
		writeError(c, status, "internal error")
	}
}
