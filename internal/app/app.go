// Package app wires the application together: configuration, logging,
// database, services, and the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vozlab/asistente-backend/internal/adapter/mailer"
	"github.com/vozlab/asistente-backend/internal/adapter/postgres"
	"github.com/vozlab/asistente-backend/internal/adapter/postgres/interaction"
	"github.com/vozlab/asistente-backend/internal/adapter/postgres/recovery"
	"github.com/vozlab/asistente-backend/internal/adapter/postgres/snapshot"
	"github.com/vozlab/asistente-backend/internal/adapter/postgres/token"
	"github.com/vozlab/asistente-backend/internal/adapter/postgres/user"
	"github.com/vozlab/asistente-backend/internal/adapter/provider/speech"
	"github.com/vozlab/asistente-backend/internal/adapter/provider/wikipedia"
	"github.com/vozlab/asistente-backend/internal/assistant"
	"github.com/vozlab/asistente-backend/internal/auth"
	"github.com/vozlab/asistente-backend/internal/config"
	"github.com/vozlab/asistente-backend/internal/journal"
	assistantsvc "github.com/vozlab/asistente-backend/internal/service/assistant"
	authsvc "github.com/vozlab/asistente-backend/internal/service/auth"
	"github.com/vozlab/asistente-backend/internal/service/history"
	"github.com/vozlab/asistente-backend/internal/service/stats"
	"github.com/vozlab/asistente-backend/internal/transport/middleware"
	"github.com/vozlab/asistente-backend/internal/transport/rest"
	"github.com/vozlab/asistente-backend/internal/voicesession"
)

// Voice sessions are ephemeral client state; abandoned ones are swept
// periodically instead of expiring on access.
const (
	sessionMaxAge        = 30 * time.Minute
	sessionSweepInterval = 5 * time.Minute
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the services and HTTP server, and blocks until ctx
// is canceled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.InfoContext(ctx, "starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.Migrate {
		if err := runMigrations(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	interactions := interaction.New(pool)
	snapshots := snapshot.New(pool)
	users := user.New(pool)
	tokens := token.New(pool)
	recoveries := recovery.New(pool)

	jrnl := journal.New(interactions, cfg.Assistant.JournalBuffer, cfg.Assistant.JournalWorkers, logger)
	defer jrnl.Stop()

	wiki := wikipedia.NewClient(cfg.Assistant.WikipediaBaseURL, cfg.Assistant.LookupTimeout, logger)
	transcriber := speech.NewClient(
		cfg.Assistant.SpeechEndpoint,
		cfg.Assistant.SpeechAPIKey,
		cfg.Assistant.SpeechLanguage,
		logger,
	)

	mail, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, users, tokens, recoveries, mail, jwtManager, cfg.Auth)
	assistantService := assistantsvc.NewService(
		logger,
		assistant.NewExecutor(wiki),
		jrnl,
		transcriber,
		cfg.Assistant,
	)
	historyService := history.NewService(logger, interactions, users)
	statsService := stats.NewService(logger, interactions, snapshots)

	sessions := voicesession.NewStore()
	go sweepSessions(ctx, sessions, logger)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handlers := rest.Handlers{
		Auth:      rest.NewAuthHandler(authService, logger),
		Assistant: rest.NewAssistantHandler(assistantService, logger),
		History:   rest.NewHistoryHandler(historyService, logger),
		Dashboard: rest.NewDashboardHandler(statsService, logger),
		Session:   rest.NewSessionHandler(sessions, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
	}

	router := rest.NewRouter(handlers,
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RatePerMinute),
		middleware.Auth(authService),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func sweepSessions(ctx context.Context, store *voicesession.Store, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Purge(sessionMaxAge); n > 0 {
				logger.Debug("purged stale voice sessions", slog.Int("count", n))
			}
		}
	}
}
