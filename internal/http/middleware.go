package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vehicletrack/internal/token"
)

const ctxUserID = "userID"

// authRequired gates protected routes behind a bearer session token and
// populates the caller identity for downstream ownership checks.
func authRequired(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_TOKEN",
			})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			code := "INVALID_TOKEN"
			if errors.Is(err, token.ErrTokenExpired) {
				code = "TOKEN_EXPIRED"
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid or expired token",
				"code":  code,
			})
			return
		}

		if claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid token payload",
				"code":  "INVALID_PAYLOAD",
			})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
