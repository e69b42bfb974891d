package middleware

import (
	"log"
	"net/http"
	"strings"

	"smart-va/internal/models"
	"smart-va/internal/services"

	"github.com/gin-gonic/gin"
)

const adminClaimsKey = "adminClaims"

// AdminAuth requires a valid admin bearer token. A nil JWT service disables
// the check.
func AdminAuth(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtService == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header required",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header must use the Bearer scheme",
			})
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("WARNING: [AUTH] Rejected admin token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(adminClaimsKey, claims)
		c.Next()
	}
}

// GetAdminClaims returns the claims stored by AdminAuth, or nil
func GetAdminClaims(c *gin.Context) *models.AdminClaims {
	value, exists := c.Get(adminClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.AdminClaims)
	return claims
}
