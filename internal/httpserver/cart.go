package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"furnish-storefront/internal/domain"
	cartsvc "furnish-storefront/internal/service/cart"
)

func registerCartRoutes(router *gin.Engine, carts CartStore) {
	g := router.Group("/cart")
	g.GET("", getCartHandler(carts))
	g.DELETE("", clearCartHandler(carts))
	g.POST("/items", addItemHandler(carts))
	g.PATCH("/items/:id", updateQuantityHandler(carts))
	g.DELETE("/items/:id", removeItemHandler(carts))
}

func getCartHandler(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, carts.Load(c.Request.Context(), sessionID(c)))
	}
}

func addItemHandler(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line item payload"})
			return
		}
		if !validItemType(in.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item type"})
			return
		}
		if strings.TrimSpace(in.ReferenceID) == "" || strings.TrimSpace(in.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "referenceId and name are required"})
			return
		}
		c.JSON(http.StatusCreated, carts.AddItem(c.Request.Context(), sessionID(c), in))
	}
}

func updateQuantityHandler(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Quantity *int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		c.JSON(http.StatusOK, carts.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("id"), *body.Quantity))
	}
}

func removeItemHandler(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, carts.RemoveItem(c.Request.Context(), sessionID(c), c.Param("id")))
	}
}

func clearCartHandler(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, carts.Clear(c.Request.Context(), sessionID(c)))
	}
}

func validItemType(t domain.ItemType) bool {
	switch t {
	case domain.ItemTypeProduct, domain.ItemTypeRoomStyle, domain.ItemTypeDesignerCollection:
		return true
	}
	return false
}
