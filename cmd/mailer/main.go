package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/georgemunganga/kidswear-store/internal/modules/mailer"
	"github.com/georgemunganga/kidswear-store/pkg/config"
	"github.com/georgemunganga/kidswear-store/pkg/logger"
	"github.com/georgemunganga/kidswear-store/pkg/shutdown"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadMailer()
	log := logger.New(logger.Options{Service: "email-api", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if envErr != nil {
		log.Warn("no .env file, using process environment")
	}
	if cfg.ZeptoMailAPIKey == "" {
		// The relay still starts; every send reports failure until a key is set.
		log.Warn("ZEPTOMAIL_API_KEY is empty, emails will not be delivered")
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	provider := mailer.NewZeptoMail(cfg.ZeptoMailURL, cfg.ZeptoMailAPIKey, cfg.SenderEmail, cfg.SenderName,
		&http.Client{Timeout: cfg.SendTimeout})
	relay := mailer.NewRelay(provider, mailer.Options{
		AdminEmail: cfg.AdminEmail,
		Brand:      cfg.SenderName,
		SiteURL:    cfg.SiteURL,
	}, log)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mailer.NewHandler(relay, log).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("email api starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warn("graceful shutdown timeout, forcing close", slog.Any("err", err))
		srv.Close()
	}
	wg.Wait()
	log.Info("bye")
}
