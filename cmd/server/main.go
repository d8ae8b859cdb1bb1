package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"autokudos/internal/adapters/email"
	web "autokudos/internal/adapters/http"
	"autokudos/internal/adapters/sheets"
	"autokudos/internal/adapters/storage/backend"
	redisstore "autokudos/internal/adapters/storage/redis"
	"autokudos/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := backend.Open(ctx, backend.OpenOptions{
		Engine:    cfg.Store,
		DBPath:    cfg.DBPath,
		SlowQuery: cfg.SlowQuery,
		Redis: redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		},
	})
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.Store, err)
	}
	defer store.Close()

	var mailer email.Sender
	if cfg.ResendKey != "" {
		mailer = email.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		mailer = email.NewNoopSender()
		if cfg.Production() {
			log.Println("WARNING: KUDOS_RESEND_KEY is not set, submission emails are DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set KUDOS_RESEND_KEY for real delivery)")
		}
	}

	opts := web.Options{
		Stores:         store.Stores,
		Mailer:         mailer,
		AdminEmail:     cfg.AdminEmail,
		CSRFKey:        cfg.CSRFKey,
		SecureCookies:  cfg.SecureCookies,
		TrustedOrigins: cfg.TrustedOrigins,
		StaticDir:      cfg.StaticDir,
		RateLimit:      cfg.RateLimit,
		SlowRequest:    cfg.SlowRequest,
	}
	// Assigned only when non-nil so the interfaces stay nil otherwise.
	if store.Queries != nil {
		opts.Queries = store.Queries
	}
	if cfg.SheetsEnabled() {
		pub, err := sheets.New(ctx, cfg.SheetsCredentials, cfg.SheetsSpreadsheetID, cfg.SheetsTab)
		if err != nil {
			log.Fatalf("failed to configure standings sheet: %v", err)
		}
		opts.Publisher = pub
		log.Printf("Standings publishing to sheet %s", cfg.SheetsSpreadsheetID)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewMux(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Kudos %s starting on %s (env=%s, store=%s)", version, cfg.Addr, cfg.Env, cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
