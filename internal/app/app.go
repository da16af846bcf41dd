// Package app wires configuration, database, and HTTP server into a
// runnable process. It is the only bootstrap path; cmd/server stays thin.
package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/config"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/db"
	internalhttp "github.com/prabhaspasupuleti/multywavewebbackend/internal/http"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/logging"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/mail"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/recaptcha"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/uploads"
)

// Options holds command-line inputs for a run.
type Options struct {
	ConfigPath  string // Optional YAML config file path.
	CreateAdmin bool   // Seed the admin account and exit.
}

// Run boots the server (or runs the seed command) and blocks until the
// context is cancelled or a fatal error occurs.
func Run(ctx context.Context, opts Options) error {
	cfg, errLoad := config.Load(opts.ConfigPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.LogFile)

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	log.Infof("database ready (dialect=%s)", db.DialectName(conn))

	if opts.CreateAdmin {
		return seedAdminFromEnv(conn)
	}

	store := uploads.NewStore(cfg.Server.UploadDir)
	verifier := recaptcha.NewVerifier(cfg.Recaptcha.Secret, cfg.Recaptcha.Threshold)
	sender := mail.NewMailer(cfg.SMTP)

	engine := internalhttp.NewServer(cfg, conn, store, verifier, sender)

	server := &nethttp.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, nethttp.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// seedAdminFromEnv creates or updates the admin account from
// ADMIN_USERNAME and ADMIN_PASSWORD.
func seedAdminFromEnv(conn *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return fmt.Errorf("app: ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}
	if errSeed := db.SeedAdmin(conn, username, password); errSeed != nil {
		return errSeed
	}
	log.Infof("admin account %q ready", username)
	return nil
}
