package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"logviewer/internal/utils"
)

const nonceKey = "cspNonce"

// SecurityHeaders attaches a Content-Security-Policy with a fresh script
// nonce to every response. Handlers that render inline scripts read the
// nonce back with Nonce.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce := utils.RandomString(16)
		c.Set(nonceKey, nonce)

		h := c.Writer.Header()
		h.Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'self'; script-src 'self' 'nonce-%s'; style-src 'self' 'unsafe-inline'; base-uri 'none'; frame-ancestors 'none'",
			nonce,
		))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "same-origin")

		c.Next()
	}
}

// Nonce returns the CSP nonce issued for this response.
func Nonce(c *gin.Context) string {
	return c.GetString(nonceKey)
}
