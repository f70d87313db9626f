package httpserver

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"furnish-storefront/internal/domain"
)

// oauthErrorMessages maps provider error codes onto copy the sign-in page can
// show. Codes outside the set get the generic fallback.
var oauthErrorMessages = map[string]string{
	"access_denied":           "Sign-in was cancelled.",
	"server_error":            "The sign-in provider hit an error. Please try again.",
	"temporarily_unavailable": "The sign-in provider is temporarily unavailable. Please try again.",
}

func registerAuthRoutes(router *gin.Engine, sessions SessionStore) {
	auth := router.Group("/auth")
	auth.POST("/signin", signInHandler(sessions))
	auth.POST("/signup", signUpHandler(sessions))
	auth.GET("/google", googleRedirectHandler(sessions))
	auth.POST("/google", googleURLHandler(sessions))
	auth.GET("/callback", oauthCallbackHandler(sessions))
	auth.POST("/signout", signOutHandler(sessions))
	auth.POST("/forgot-password", forgotPasswordHandler(sessions))
	auth.GET("/me", meHandler(sessions))

	// The sign-in and sign-up pages are auth-only: a signed-in shopper is
	// bounced straight to the dashboard.
	router.GET(signInPath, guard(sessions, false), pageHandler("signin"))
	router.GET("/signup", guard(sessions, false), pageHandler("signup"))
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func signInHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		res := sessions.SignIn(c.Request.Context(), sessionID(c), req.Email, req.Password)
		if !res.Success {
			c.JSON(http.StatusUnauthorized, res)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func signUpHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid email and a password of at least 8 characters are required"})
			return
		}
		meta := domain.UserMetadata{FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone}
		res := sessions.SignUp(c.Request.Context(), sessionID(c), req.Email, req.Password, meta)
		if !res.Success {
			c.JSON(http.StatusBadRequest, res)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// googleRedirectHandler drives the full-page redirect to the provider.
func googleRedirectHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := sessions.SignInWithGoogle(c.Request.Context(), sessionID(c), callbackURL(c))
		if !res.Success {
			c.Redirect(http.StatusSeeOther, signInPath+"?error="+url.QueryEscape(res.Error))
			return
		}
		c.Redirect(http.StatusSeeOther, res.RedirectURL)
	}
}

// googleURLHandler hands the provider URL to clients that redirect themselves.
func googleURLHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := sessions.SignInWithGoogle(c.Request.Context(), sessionID(c), callbackURL(c))
		if !res.Success {
			c.JSON(http.StatusBadGateway, res)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": res.RedirectURL})
	}
}

// oauthCallbackHandler is phase two of the OAuth flow: the provider lands
// here with an error code, an authorization code, or tokens in the query
// string. Codes are exchanged, tokens persisted and re-validated, then the
// shopper moves on with a clean URL; the sensitive query parameters never
// survive the redirect.
func oauthCallbackHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if code := c.Query("error"); code != "" {
			msg, ok := oauthErrorMessages[code]
			if !ok {
				msg = fmt.Sprintf("authentication error: %s", code)
			}
			c.Redirect(http.StatusSeeOther, signInPath+"?error="+url.QueryEscape(msg))
			return
		}

		// The directly-configured Google flow hands back an authorization
		// code rather than tokens.
		if code := c.Query("code"); code != "" {
			res := sessions.ExchangeCode(c.Request.Context(), sessionID(c), code)
			if !res.Success {
				c.Redirect(http.StatusSeeOther, signInPath+"?error="+url.QueryEscape(res.Error))
				return
			}
			c.Redirect(http.StatusSeeOther, accountPath)
			return
		}

		access := c.Query("access_token")
		if access == "" {
			// Neither an error nor a token: malformed callback.
			c.Redirect(http.StatusSeeOther, signInPath+"?error="+url.QueryEscape("Sign-in did not complete. Please try again."))
			return
		}

		res := sessions.CompleteOAuth(c.Request.Context(), sessionID(c), access, c.Query("refresh_token"))
		if !res.Success {
			c.Redirect(http.StatusSeeOther, signInPath+"?error="+url.QueryEscape(res.Error))
			return
		}
		c.Redirect(http.StatusSeeOther, accountPath)
	}
}

func signOutHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.SignOut(c.Request.Context(), sessionID(c))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func forgotPasswordHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		res := sessions.ForgotPassword(c.Request.Context(), req.Email)
		if !res.Success {
			c.JSON(http.StatusBadGateway, res)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func meHandler(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Restore(c.Request.Context(), sessionID(c))
		if !sess.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": sess.User})
	}
}

// pageHandler stands in for the SPA shell on routes the guard protects.
func pageHandler(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": name})
	}
}

func callbackURL(c *gin.Context) string {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/auth/callback", scheme, c.Request.Host)
}
