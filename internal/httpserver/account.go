package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"furnish-storefront/internal/domain"
)

func registerAccountRoutes(router *gin.Engine, accounts AccountService, sessions SessionStore) {
	g := router.Group("/account", guard(sessions, true))
	g.GET("", dashboardHandler())
	g.GET("/addresses", listAddressesHandler(accounts))
	g.POST("/addresses", createAddressHandler(accounts))
	g.PUT("/addresses/:id", updateAddressHandler(accounts))
	g.DELETE("/addresses/:id", deleteAddressHandler(accounts))
	g.PUT("/addresses/:id/default", setDefaultAddressHandler(accounts))
	g.GET("/profile", getProfileHandler(accounts))
	g.PUT("/profile", updateProfileHandler(accounts))
	g.POST("/support/tickets", createTicketHandler(accounts))

	// Newsletter signup is open to anonymous visitors.
	router.POST("/newsletter/subscribe", subscribeHandler(accounts))
}

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "account", "user": currentSession(c).User})
	}
}

func listAddressesHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := accounts.Addresses(c.Request.Context(), currentSession(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func createAddressHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var a domain.Address
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address payload"})
			return
		}
		created, err := accounts.CreateAddress(c.Request.Context(), currentSession(c), a)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateAddressHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var a domain.Address
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address payload"})
			return
		}
		updated, err := accounts.UpdateAddress(c.Request.Context(), currentSession(c), c.Param("id"), a)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteAddressHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.DeleteAddress(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func setDefaultAddressHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.SetDefaultAddress(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func getProfileHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := accounts.Profile(c.Request.Context(), currentSession(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func updateProfileHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p domain.Profile
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
			return
		}
		updated, err := accounts.UpdateProfile(c.Request.Context(), currentSession(c), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func createTicketHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var t domain.SupportTicket
		if err := c.ShouldBindJSON(&t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket payload"})
			return
		}
		created, err := accounts.CreateTicket(c.Request.Context(), currentSession(c), t)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func subscribeHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		if err := accounts.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
