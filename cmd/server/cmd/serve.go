package cmd

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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/csquare-club/server/internal/api"
	"github.com/csquare-club/server/internal/auth"
	"github.com/csquare-club/server/internal/config"
	"github.com/csquare-club/server/internal/domain/contact"
	"github.com/csquare-club/server/internal/domain/events"
	"github.com/csquare-club/server/internal/domain/gallery"
	"github.com/csquare-club/server/internal/domain/team"
	"github.com/csquare-club/server/internal/email"
	"github.com/csquare-club/server/internal/jobs"
	"github.com/csquare-club/server/internal/metrics"
	"github.com/csquare-club/server/internal/storage/postgres"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the club API server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Connect to Postgres and start the background job workers
- Serve the public and admin API
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 5000)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("environment", cfg.Environment).Msg("starting club API server")

	if cfg.Auth.UsingFallbackSecret {
		logger.Warn().Msg("JWT_SECRET not set, using the development fallback secret; do not deploy like this")
	}

	metrics.Init(Version, GitCommit, BuildDate)

	identity, err := auth.NewIdentity(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("admin identity: %w", err)
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	authService := auth.NewService(identity, tokens, logger)

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.Connect(poolCtx, cfg.Database.URL)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init: %w", err)
	}

	eventsService := events.NewService(repo.Events())
	teamService := team.NewService(repo.Team())
	contactService := contact.NewService(repo.Contact())
	galleryService := gallery.NewService(repo.Gallery())

	emailService, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("email service: %w", err)
	}
	if !emailService.Enabled() {
		logger.Warn().Msg("email disabled, contact notifications will be logged only")
	}

	// River shares the pgx pool and delivers contact notifications plus the
	// daily archived-message cleanup.
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	workers, err := jobs.NewWorkers(emailService, contactService, slogLogger)
	if err != nil {
		return fmt.Errorf("job workers: %w", err)
	}
	jobClient, err := jobs.NewClient(pool, workers, slogLogger, jobs.NewPeriodicJobs())
	if err != nil {
		return fmt.Errorf("job client: %w", err)
	}

	riverCtx, riverCancel := context.WithCancel(context.Background())
	defer riverCancel()
	if err := jobClient.Start(riverCtx); err != nil {
		return fmt.Errorf("job workers failed to start: %w", err)
	}
	logger.Info().Msg("background job workers started")
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := jobClient.Stop(stopCtx); err != nil {
			logger.Error().Err(err).Msg("job workers shutdown error")
		} else {
			logger.Info().Msg("job workers stopped")
		}
	}()

	handler := api.NewRouter(api.Deps{
		Config:    cfg,
		Logger:    logger,
		Version:   Version,
		Auth:      authService,
		Events:    eventsService,
		Team:      teamService,
		Contact:   contactService,
		Gallery:   galleryService,
		Email:     emailService,
		JobClient: jobClient,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
