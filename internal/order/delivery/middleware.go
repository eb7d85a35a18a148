package delivery

import (
	"net/http"
	"strings"

	"etsy-scanner-backend/internal/order/usecase"

	"github.com/gin-gonic/gin"
)

// CredentialsMiddleware extracts the Gmail bearer credential and resolves the
// mailbox owner's identity from it. Everything downstream partitions by that
// owner email.
func CredentialsMiddleware(scanUsecase usecase.ScanUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		accessToken := parts[1]
		refreshToken := c.GetHeader("X-Refresh-Token")

		ownerEmail, err := scanUsecase.ResolveOwner(c.Request.Context(), accessToken, refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("ownerEmail", ownerEmail)
		c.Set("accessToken", accessToken)
		c.Set("refreshToken", refreshToken)
		c.Next()
	}
}
