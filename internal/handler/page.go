package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"logviewer/internal/logger"
	"logviewer/internal/middleware"
	"logviewer/internal/web"
)

func (h *Handler) page(c *gin.Context) {
	var buf bytes.Buffer
	err := web.Render(&buf, web.Page{
		Nonce:           middleware.Nonce(c),
		DefaultInterval: h.opts.DefaultRefresh,
		Views:           h.views.Public(),
	})
	if err != nil {
		logger.Error("failed to render page", map[string]any{
			"error": err.Error(),
		})
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
