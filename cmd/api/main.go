package main

import (
	"net/http"
	"os"
	"time"

	"cardulary/internal/adapters/auth/sessions"
	"cardulary/internal/config"
	"cardulary/internal/platform/logger"
	"cardulary/internal/ports/auth"
	"cardulary/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	// Sin servicio de sesiones configurado el middleware corre en modo
	// dev (X-Debug-User-ID); nunca dejar así en producción.
	var verifier auth.Verifier
	if sv := sessions.NewVerifier(cfg.SessionsBaseURL, cfg.SessionsAPIKey); sv.IsConfigured() {
		verifier = sv
	} else {
		log.Warn("sessions service not configured, auth in dev mode", nil)
	}

	h := router.NewRouter(router.Options{
		Config:       cfg,
		Log:          log,
		AuthVerifier: verifier,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr()})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
