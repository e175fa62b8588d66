// Package handler serves the single `/` endpoint and dispatches on the
// `action` parameter.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logviewer/internal/auth/credentials"
	"logviewer/internal/logger"
	"logviewer/internal/logview"
	"logviewer/internal/middleware"
	"logviewer/internal/session"
	"logviewer/internal/views"
)

type Options struct {
	// CookieMaxAge is the session cookie lifetime in seconds.
	CookieMaxAge        int
	TrustForwardedProto bool
	// DefaultRefresh is the page's fallback poll interval in seconds.
	DefaultRefresh int
}

type Handler struct {
	sessions session.Store
	checker  *credentials.Checker
	views    *views.Registry
	pipeline *logview.Pipeline
	opts     Options

	viewInfo gin.HandlerFunc
}

func NewHandler(
	sessions session.Store,
	checker *credentials.Checker,
	registry *views.Registry,
	pipeline *logview.Pipeline,
	opts Options,
) *Handler {
	h := &Handler{
		sessions: sessions,
		checker:  checker,
		views:    registry,
		pipeline: pipeline,
		opts:     opts,
	}
	h.viewInfo = middleware.RequireSession(sessions, h.describeView)
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.dispatch)
	r.POST("/", h.dispatch)
	r.GET("/healthz", h.health)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

func (h *Handler) dispatch(c *gin.Context) {
	switch formValue(c, "action") {
	case "login":
		h.login(c)
	case "logout":
		h.logout(c)
	case "check_session":
		h.checkSession(c)
	case "get_log":
		h.getLog(c)
	case "view_info":
		h.viewInfo(c)
	default:
		h.page(c)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// formValue prefers the POST body over the query string.
func formValue(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (h *Handler) secure(c *gin.Context) bool {
	return session.IsSecureRequest(c.Request, h.opts.TrustForwardedProto)
}
