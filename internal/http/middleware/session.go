// README: Cookie sessions (gorilla/sessions) carrying the logged-in username and the chat id.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const SessionName = "sirparcel"

const (
	ctxSessionKey = "session"
	keyUsername   = "username"
	keyChatID     = "chat_id"
)

// NewCookieStore returns a signed cookie store. With an empty secret a random
// key is generated, so sessions do not survive a restart.
func NewCookieStore(secret string, secure bool, maxAge time.Duration) *sessions.CookieStore {
	key := []byte(secret)
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(maxAge.Seconds()))
	return store
}

// Session loads the request's session. A cookie that fails to decode is
// replaced by a fresh session.
func Session(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, _ := store.Get(c.Request, SessionName)
		c.Set(ctxSessionKey, s)
		c.Next()
	}
}

func session(c *gin.Context) *sessions.Session {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*sessions.Session)
	return s
}

// CallerUsername returns the logged-in username, or "" for anonymous requests.
func CallerUsername(c *gin.Context) string {
	s := session(c)
	if s == nil {
		return ""
	}
	name, _ := s.Values[keyUsername].(string)
	return name
}

// RequireLogin rejects anonymous requests with 401.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerUsername(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// Login records username in the session. Call before writing the body.
func Login(c *gin.Context, username string) error {
	s := session(c)
	if s == nil {
		return http.ErrNoCookie
	}
	s.Values[keyUsername] = username
	return s.Save(c.Request, c.Writer)
}

// Logout forgets the user but keeps the chat transcript.
func Logout(c *gin.Context) error {
	s := session(c)
	if s == nil {
		return nil
	}
	delete(s.Values, keyUsername)
	return s.Save(c.Request, c.Writer)
}

// ChatID returns the session's chat id, creating one on first use.
func ChatID(c *gin.Context) (string, error) {
	s := session(c)
	if s == nil {
		return "", http.ErrNoCookie
	}
	if id, ok := s.Values[keyChatID].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	s.Values[keyChatID] = id
	if err := s.Save(c.Request, c.Writer); err != nil {
		return "", err
	}
	return id, nil
}
