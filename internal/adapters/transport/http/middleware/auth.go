package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/auth-service/internal/domain/auth/jwt"
)

const subjectKey = "auth_subject"

// RequireAuth gates a route group behind a bearer token. Missing,
// malformed, badly signed and expired tokens all produce the same 401
// body; the reason is never disclosed to the client.
func RequireAuth(jwtUtil jwt.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, raw, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			unauthorized(c)
			return
		}

		claims, err := jwtUtil.ValidateAccessToken(strings.TrimSpace(raw))
		if err != nil {
			unauthorized(c)
			return
		}

		uid, err := uuid.Parse(claims.Subject)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(subjectKey, uid)
		c.Next()
	}
}

// Subject returns the authenticated user id set by RequireAuth.
func Subject(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(subjectKey)
	if !ok {
		return uuid.Nil, false
	}
	uid, ok := v.(uuid.UUID)
	return uid, ok
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
}
