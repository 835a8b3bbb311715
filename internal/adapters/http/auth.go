package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/telecare/signaling/internal/adapters/signal"
	"github.com/telecare/signaling/internal/domain"
)

// TokenClaims is the payload the clinic backend signs into its access
// tokens: user id, display name and role.
type TokenClaims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token and stashes the caller's
// identity for downstream handlers. Browsers cannot set headers on
// WebSocket dials, so a `token` query parameter is accepted as well.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			return
		}

		claims := &TokenClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid role"})
			return
		}
		signal.SetIdentity(c, signal.Identity{
			UserID: domain.UserID(claims.ID),
			Name:   claims.FullName,
			Role:   role,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}
