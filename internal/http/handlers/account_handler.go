// README: Account handlers (sign up, password reset, login, profile).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sirparcel/internal/http/middleware"
	"sirparcel/internal/modules/account"
)

type AccountHandler struct {
	accounts *account.Service
}

func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{accounts: svc}
}

type signupReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
}

type resetReq struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp handles POST /api/accounts.
func (h *AccountHandler) SignUp(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.accounts.Register(c.Request.Context(), account.RegisterInput(req))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

// ResetPassword handles POST /api/accounts/password-reset.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), req.Username, req.NewPassword); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"message": "Password reset successful. Please log in."})
}

// Login handles POST /api/session.
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if err := middleware.Login(c, p.Username); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// Logout handles DELETE /api/session.
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/me.
func (h *AccountHandler) Me(c *gin.Context) {
	p, err := h.accounts.Profile(c.Request.Context(), middleware.CallerUsername(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// UpdateMe handles PUT /api/me. A successful update ends the session so the
// user logs in again with the new details.
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.accounts.Update(c.Request.Context(), middleware.CallerUsername(c), account.UpdateInput(req))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if err := middleware.Logout(c); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}
