package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/auth"
	"github.com/Shivanand-hulikatti/eventoz/internal/config"
	"github.com/Shivanand-hulikatti/eventoz/internal/database"
	"github.com/Shivanand-hulikatti/eventoz/internal/handler"
	"github.com/Shivanand-hulikatti/eventoz/internal/metrics"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/memory"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/mongodb"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/postgres"
	"github.com/Shivanand-hulikatti/eventoz/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The server loads configuration from the environment (and --env-file),
connects to the store selected by STORE_DRIVER, and shuts down gracefully
on SIGINT/SIGTERM.

Examples:
  # Start with configuration from .env and the environment
  eventoz serve

  # Start on a specific port with debug logging
  eventoz serve --port 8080 --log-level debug

  # Start against the in-memory store
  STORE_DRIVER=memory JWT_SECRET=dev eventoz serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	// The root command serves by default, so it takes the same flags.
	for _, cmd := range []*cobra.Command{serveCmd, rootCmd} {
		cmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
		cmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 3000)")
	}
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
	logger.Info().
		Str("version", Version).
		Str("store", cfg.Store.Driver).
		Str("environment", cfg.Environment).
		Msg("starting eventoz")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("store close error")
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           newRouter(cfg, store, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return gracefulShutdown(server, errCh, logger)
}

// newRouter wires the services and handlers on top of store.
func newRouter(cfg config.Config, store repository.Store, logger zerolog.Logger) http.Handler {
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	h := handler.New(
		service.NewCredentialStore(store.Users(), hasher, tokens, logger),
		service.NewEventRegistry(store.Events()),
		service.NewAttendanceTracker(store.Registrations(), logger,
			service.WithAttendanceObserver(metrics.RecordAttendance)),
		cfg.ExposeErrorDetail(),
	)

	return handler.NewRouter(h, handler.RouterConfig{
		Tokens: tokens,
		Store:  store,
		CORS:   cfg.CORS,
		Logger: logger,
	})
}

// openStore connects the backend named by cfg.Store.Driver.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := postgres.MigrateUp(cfg.Database.URL); err != nil {
				return nil, err
			}
			logger.Info().Msg("migrations applied")
		}
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		store, err := postgres.NewStore(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Msg("connected to postgres")
		return store, nil

	case config.DriverMongoDB:
		client, err := database.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		store, err := mongodb.NewStore(client, cfg.Mongo.Database)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return store, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func gracefulShutdown(server *http.Server, errCh <-chan error, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server error")
		return err
	case <-stop:
	}
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
