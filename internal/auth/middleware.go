package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "toystore_claims"

// Spanish user-facing messages, kept from the original frontend contract.
const (
	msgInvalidToken  = "Token inválido o expirado."
	msgAdminRequired = "Acceso denegado. Se requiere rol de administrador."
)

// ClaimsFromContext returns the verified claims attached by RequireAuth.
func ClaimsFromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// RequireAuth verifies the bearer token on every request independently.
// Missing or non-bearer header is 401; a present but invalid or expired
// token is 403. On success the claims are attached to the gin context.
func RequireAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgInvalidToken})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireAdmin gates a route on the admin role. It must run after
// RequireAuth; identity is already proven here, so the denial message may
// name the missing role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgAdminRequired})
			return
		}
		c.Next()
	}
}
