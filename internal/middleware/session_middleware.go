package middleware

import (
	"net/http"

	"fraud_report_backend/internal/session"
	"fraud_report_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the *session.Session.
const SessionKey = "session"

// SessionMiddleware resolves the session cookie to a session, creating one when needed,
// and refreshes the cookie on every request.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(session.CookieName)

		s, fresh, err := manager.Resolve(token)
		if err != nil {
			utils.LogError(err, "SessionMiddleware: failed to resolve session")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, fresh, int(manager.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)
		c.Set(SessionKey, s)

		c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
