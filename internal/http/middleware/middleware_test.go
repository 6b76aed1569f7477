// README: Tests for session, request id and recovery middleware.
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sirparcel/internal/http/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestIDs(), middleware.Recovery(zap.NewNop()), middleware.Session(middleware.NewCookieStore("test-secret", false, time.Hour)))
	r.POST("/login", func(c *gin.Context) {
		if err := middleware.Login(c, c.Query("u")); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		_ = middleware.Logout(c)
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", middleware.RequireLogin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": middleware.CallerUsername(c)})
	})
	r.GET("/chat", func(c *gin.Context) {
		id, err := middleware.ChatID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r *gin.Engine, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSession_LoginLogout(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/login?u=asha", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = do(r, http.MethodGet, "/me", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "asha")

	w = do(r, http.MethodPost, "/logout", cookies)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodGet, "/me", w.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_TamperedCookieIsAnonymous(t *testing.T) {
	r := newTestRouter()
	w := do(r, http.MethodGet, "/me", []*http.Cookie{{Name: middleware.SessionName, Value: "forged"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_ChatIDIsStable(t *testing.T) {
	r := newTestRouter()
	w := do(r, http.MethodGet, "/chat", nil)
	first := w.Body.String()
	require.NotEmpty(t, first)

	w = do(r, http.MethodGet, "/chat", w.Result().Cookies())
	assert.Equal(t, first, w.Body.String())
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}
