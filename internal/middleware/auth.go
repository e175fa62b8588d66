package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"logviewer/internal/session"
)

// SessionValidator is satisfied by every session.Store.
type SessionValidator interface {
	Validate(ctx context.Context, token string) bool
}

// RequireSession runs next only when the request carries a live session
// cookie; otherwise it answers 401 with a JSON error.
func RequireSession(store SessionValidator, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.TokenFromRequest(c.Request)
		if !store.Validate(c.Request.Context(), token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		next(c)
	}
}
