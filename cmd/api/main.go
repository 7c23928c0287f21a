package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"clubsphere/internal/app"
	"clubsphere/internal/config"
	"clubsphere/internal/logger"
	"clubsphere/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     cfg.Settings.Debug,
		LogToFile: cfg.Settings.LogToFile,
		LogsDir:   cfg.Settings.LogsDir,
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()
	if err != nil {
		log.Errorf("bootstrap: %v", err)
		return
	}
	if err := a.OpenVerifier(ctx); err != nil {
		log.Errorf("token verifier: %v", err)
		return
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.New(a.Resolver(), a.Services()),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		log.Infof("listening on %s (store: %s)", cfg.Server.Addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
}
