package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"logviewer/internal/app"
	"logviewer/internal/config"
	"logviewer/internal/logger"
)

func main() {
	flags := pflag.NewFlagSet("logviewer", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "logview.json", "path to the JSON configuration file")
	addr := flags.String("addr", "", "listen address, overrides listen_addr")
	hashPassword := flags.Bool("hash-password", false, "read a password and print its bcrypt hash for password_hash")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *hashPassword {
		if err := printHash(os.Stdin, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", map[string]any{
			"path":  *configPath,
			"error": err.Error(),
		})
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	logger.Init(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("logviewer started", map[string]any{
		"addr":          cfg.ListenAddr,
		"views":         cfg.Views.Len(),
		"session_store": cfg.SessionStore,
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("logviewer stopped cleanly", nil)
}
