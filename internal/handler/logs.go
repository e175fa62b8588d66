package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logviewer/internal/logger"
	"logviewer/internal/logview"
	"logviewer/internal/session"
)

// getLog always answers 200 text/plain; failures are carried in the body.
func (h *Handler) getLog(c *gin.Context) {
	view := formValue(c, "view")
	res := h.pipeline.Fetch(c.Request.Context(), session.TokenFromRequest(c.Request), view)

	if res.Outcome != logview.OutcomeOK {
		logger.Debug("log fetch did not succeed", map[string]any{
			"view":      view,
			"outcome":   res.Outcome.String(),
			"exit_code": res.ExitCode,
		})
	}

	c.Header("Cache-Control", "no-store")
	c.String(http.StatusOK, "%s", res.Body)
}

// describeView runs behind middleware.RequireSession.
func (h *Handler) describeView(c *gin.Context) {
	v, ok := h.views.Lookup(formValue(c, "view"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":        v.Name,
		"cmd":         v.Command,
		"refresh":     v.Refresh,
		"bottom":      v.Bottom,
		"safe_output": v.SafeOutput,
	})
}
