package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-parking-lot/internal/core/auth"
	"go-parking-lot/internal/domain"
	resp "go-parking-lot/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT requires a valid bearer token and, when roles are given, one of them.
// The raw token is put on the request context so outgoing service calls forward it.
func AuthJWT(j *auth.JWTer, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "Missing token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
		claims, err := j.Parse(raw)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyRole, claims.Role)
		if uid, ok := claims.UserID(); ok {
			c.Set(KeyUserID, uid)
		}
		c.Request = c.Request.WithContext(auth.WithToken(c.Request.Context(), raw))

		if !hasRole(claims.Role, roles) {
			resp.Abort(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

// RequireRoles narrows a group already behind AuthJWT.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasRole(c.GetString(KeyRole), roles) {
			resp.Abort(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func hasRole(role string, allowed []domain.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if string(r) == role {
			return true
		}
	}
	return false
}

// ActorOf returns the caller set by AuthJWT.
func ActorOf(c *gin.Context) domain.Actor {
	a := domain.Actor{Role: domain.Role(c.GetString(KeyRole))}
	if v, ok := c.Get(KeyUserID); ok {
		a.UserID, _ = v.(uint)
	}
	return a
}
