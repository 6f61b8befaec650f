package handlers

import (
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// OptionalAuth resolves a bearer token when one is present. Checkout works
// anonymously; a verified session upgrades it to the authenticated
// order-creation path.
func OptionalAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if customerID, ok := authService.Verify(token); ok {
				c.Set("customer_id", customerID)
			}
		}
		c.Next()
	}
}
