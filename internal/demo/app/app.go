// Package app assembles the demo service: configuration, database, token
// service, authentication gate and HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lastshield/shield/internal/demo/domain"
	httpapi "github.com/lastshield/shield/internal/demo/http"
	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/internal/demo/store/drivers/sqlite"
	"github.com/lastshield/shield/pkg/cryptox"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/idx"
	"github.com/lastshield/shield/pkg/jwtx"
	"github.com/lastshield/shield/pkg/routeauth"
	"github.com/lastshield/shield/pkg/shield"
	"github.com/lastshield/shield/pkg/slogx"
	"github.com/lastshield/shield/pkg/token"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the demo service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *token.Service
	gate   *shield.Gate

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "shield-demo",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if app.cfg.SecretKey == "" {
		// Ephemeral secret: tokens will not survive a restart.
		app.cfg.SecretKey = cryptox.MustGenerateSecret(cryptox.SecretSize256)
		app.logger.Warn("SHIELD_SECRET_KEY not set, generated an ephemeral signing secret")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initTokens(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initGate(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.bootstrapAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("demo service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down demo service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("demo service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initTokens builds the signing codec and the token service on top of the
// persisted token store.
func (app *Application) initTokens() error {
	codec, err := jwtx.NewCodec(jwtx.Algorithm(app.cfg.Algorithm), app.cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	app.tokens = token.NewService(
		codec,
		token.NewTrustedIssuers(app.cfg.Issuer),
		app.cfg.TokenTTL,
		token.WithStore(app.db.Tokens()),
	)
	return nil
}

// initGate wires the route rules and the user directory into the
// authentication gate.
func (app *Application) initGate() error {
	routes := routeauth.NewRegistry().
		Add("/auth/login", nil, http.MethodPost).
		Add("/auth/register", nil, http.MethodPost).
		Add("/livez", nil, http.MethodGet).
		Add("/readyz", nil, http.MethodGet).
		Add("/auth/revoke", []string{"ADMIN"}, http.MethodPost).
		Add("/admin/**", []string{"ADMIN"})
	// Everything else (e.g. /auth/profile) requires authentication only.

	users := app.db.Users()
	directory := shield.UserDirectoryFunc(func(ctx context.Context, subject string) (shield.UserRecord, error) {
		u, err := users.GetUserByUsername(ctx, subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return shield.UserRecord{}, shield.ErrUserNotFound
			}
			return shield.UserRecord{}, err
		}
		return shield.UserRecord{Identifier: u.Username, Roles: u.Roles}, nil
	})

	gate, err := shield.New(shield.Config{
		Mode:      shield.Enabled,
		Routes:    routes,
		Tokens:    app.tokens,
		Directory: directory,
		CORS:      app.corsConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize authentication gate: %w", err)
	}
	app.gate = gate
	return nil
}

// bootstrapAdmin seeds the first admin account on an empty database. The
// generated password is logged once; it is never stored in plain text.
func (app *Application) bootstrapAdmin(ctx context.Context) error {
	users := app.db.Users()

	empty, err := users.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if !empty {
		return nil
	}

	password := app.cfg.AdminPassword
	generated := false
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		generated = true
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.New().String(),
		Username:     app.cfg.AdminUsername,
		Name:         "Administrator",
		PasswordHash: hash,
		Roles:        []string{"ADMIN", "USER"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if generated {
		app.logger.Info("bootstrap admin created",
			"username", admin.Username,
			"password", password,
		)
	} else {
		app.logger.Info("bootstrap admin created", "username", admin.Username)
	}
	return nil
}

func (app *Application) corsConfig() httpx.CORSConfig {
	if len(app.cfg.CORSOrigins) == 0 {
		return httpx.CORSConfig{}
	}
	return httpx.CORSConfig{
		AllowedOrigins: app.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.gate, app.corsConfig(), app.cfg.Issuer, BuildVersion, app.logger)

	router.Users = app.db.Users()
	router.Tokens = app.tokens
	router.Store = app.db
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
