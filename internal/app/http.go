package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"logviewer/internal/auth/credentials"
	"logviewer/internal/config"
	"logviewer/internal/handler"
	"logviewer/internal/logview"
	"logviewer/internal/middleware"
)

func setupHTTP(ctx context.Context, cfg *config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	checker := credentials.NewChecker(cfg.Password, cfg.PasswordHash)
	runner := logview.NewShellRunner(cfg.Shell, cfg.CommandTimeout)
	pipeline := logview.New(infra.Sessions, cfg.Views, runner)

	h := handler.NewHandler(
		infra.Sessions,
		checker,
		cfg.Views,
		pipeline,
		handler.Options{
			CookieMaxAge:        cfg.SessionDurationSeconds(),
			TrustForwardedProto: cfg.TrustForwardedProto,
			DefaultRefresh:      cfg.RefreshInterval,
		},
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog())
	router.Use(middleware.SecurityHeaders())

	h.RegisterRoutes(router)

	return router, infra.Close, nil
}
