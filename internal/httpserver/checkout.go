package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"furnish-storefront/internal/domain"
	checkoutsvc "furnish-storefront/internal/service/checkout"
)

func registerCheckoutRoutes(router *gin.Engine, checkouts CheckoutService, sessions SessionStore) {
	g := router.Group("/checkout", guard(sessions, true))
	g.GET("/methods", listMethodsHandler())
	g.POST("/shipping", saveShippingHandler(checkouts))
	g.GET("/summary", summaryHandler(checkouts))
	g.POST("/pay", payHandler(checkouts))
	g.POST("/submit", submitHandler(checkouts))
}

func listMethodsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"methods": checkoutsvc.Methods})
	}
}

type shippingRequest struct {
	domain.ShippingInfo
	Method string `json:"method" binding:"required"`
}

func saveShippingHandler(checkouts CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req shippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipping payload"})
			return
		}
		draft, err := checkouts.SaveShipping(c.Request.Context(), sessionID(c), currentSession(c), req.ShippingInfo, req.Method)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

func summaryHandler(checkouts CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := checkouts.Summary(c.Request.Context(), sessionID(c), currentSession(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func payHandler(checkouts CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PaymentMethodID string `json:"paymentMethodId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethodId is required"})
			return
		}
		result, err := checkouts.Pay(c.Request.Context(), sessionID(c), currentSession(c), req.PaymentMethodID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func submitHandler(checkouts CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := checkouts.Submit(c.Request.Context(), sessionID(c), currentSession(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
