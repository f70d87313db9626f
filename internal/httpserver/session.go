package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"furnish-storefront/internal/domain"
)

const (
	sessionCookie    = "furnish_session"
	sessionCookieAge = 180 * 24 * 60 * 60

	ctxSessionID = "shopper_session_id"
	ctxSession   = "shopper_session"

	signInPath  = "/signin"
	accountPath = "/account"
)

// shopperSession assigns every visitor a stable session id cookie; cart and
// token state key off it.
func shopperSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionCookieAge, "/", "", false, true)
		}
		c.Set(ctxSessionID, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

// guard is the route wrapper around protected and auth-only routes. With
// requireAuth set, anonymous shoppers are sent to sign-in; without it
// (the sign-in and sign-up pages themselves), signed-in shoppers are sent to
// the dashboard instead. Either way the resolved session lands in the
// request context.
func guard(sessions SessionStore, requireAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Restore(c.Request.Context(), sessionID(c))
		if requireAuth && !sess.IsAuthenticated() {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign-in required"})
			} else {
				c.Redirect(http.StatusSeeOther, signInPath)
				c.Abort()
			}
			return
		}
		if !requireAuth && sess.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, accountPath)
			c.Abort()
			return
		}
		c.Set(ctxSession, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) domain.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(domain.Session); ok {
			return sess
		}
	}
	return domain.Session{}
}

func wantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") || accept == "" || accept == "*/*"
}
