package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adtracksaver/adtrack/internal/auth"
	"github.com/adtracksaver/adtrack/internal/cache"
	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/config"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/db"
	"github.com/adtracksaver/adtrack/internal/logger"
	"github.com/adtracksaver/adtrack/internal/metrics"
	"github.com/adtracksaver/adtrack/internal/repo"
	"github.com/adtracksaver/adtrack/internal/server"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logger.Setup(cfg.LogLevel, os.Stderr, !cfg.Production()); err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("failed to parse log level")
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("store", cfg.Store).
		Bool("metrics", cfg.MetricsEnabled).
		Msg("current configuration")

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Msg("starting application")

	credentials, err := auth.ParseCredentials(cfg.AdminCreds)
	if err != nil {
		return fmt.Errorf("failed to parse admin credentials: %w", err)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var opts []dashboard.Option
	var prom *metrics.Prometheus
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		opts = append(opts, dashboard.WithRecorder(prom))
	}

	e := server.New(server.Deps{
		Dashboard:     dashboard.New(store, cat, opts...),
		Authenticator: auth.NewAuthenticator(credentials, cfg.JWTSecret),
		Cache:         cache.New(cfg.SearchCacheMB),
		Metrics:       prom,
		StaticDir:     staticDir(cfg),
	})
	defer e.Close()

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	log.Info().Str("address", addr).Msg("server starting")

	runServer(ctx, e, addr)

	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info().
		Str("path", path).
		Int("tags", len(cat.Tags)).
		Int("niches", len(cat.Niches)).
		Msg("catalog loaded")
	return cat, nil
}

func openStore(ctx context.Context, cfg config.Config) (dashboard.Store, func(), error) {
	if cfg.Store != config.StoreSQLite {
		log.Info().Msg("keeping links in memory")
		return repo.NewMemoryStore(), func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info().Str("path", cfg.DBPath).Msg("keeping links in sqlite")

	return repo.NewLinksRepo(conn), func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}, nil
}

func staticDir(cfg config.Config) string {
	if cfg.Debug {
		return "web"
	}
	return ""
}

func runServer(ctx context.Context, e *echo.Echo, addr string) {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(addr)
	}()

	// Wait for context cancellation (Ctrl+C or SIGTERM)
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during graceful shutdown")
	}

	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server error")
	}

	log.Info().Msg("server stopped")
}
