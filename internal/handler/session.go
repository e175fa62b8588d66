package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logviewer/internal/logger"
	"logviewer/internal/session"
)

func (h *Handler) login(c *gin.Context) {
	if c.Request.Method != http.MethodPost || !h.checker.Check(c.PostForm("password")) {
		logger.Warn("login rejected", map[string]any{
			"ip": c.ClientIP(),
		})
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	token, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		logger.Error("failed to create session", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	session.SetCookie(c.Writer, token, h.opts.CookieMaxAge, h.secure(c))

	logger.Info("login succeeded", map[string]any{
		"ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// logout is idempotent: with or without a live session the cookie is
// cleared and the answer is success.
func (h *Handler) logout(c *gin.Context) {
	if token := session.TokenFromRequest(c.Request); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			logger.Warn("failed to destroy session", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, h.secure(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) checkSession(c *gin.Context) {
	ok := h.sessions.Validate(c.Request.Context(), session.TokenFromRequest(c.Request))
	c.JSON(http.StatusOK, gin.H{"authenticated": ok})
}
