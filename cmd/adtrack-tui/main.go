package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/config"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/db"
	"github.com/adtracksaver/adtrack/internal/logger"
	"github.com/adtracksaver/adtrack/internal/repo"
	"github.com/adtracksaver/adtrack/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	storeKind   string
	dbPath      string
	logFile     string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "adtrack-tui",
	Short: "Terminal dashboard for tracking competitor ad-library links",
	Long: `adtrack-tui keeps a list of competitor ad-library links with their
active ads count, tag and niches, and records every change of the count.

Links live in memory unless --store=sqlite is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The terminal belongs to the UI, so logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			out = f
		}
		return logger.Setup(logLevel, out, false)
	},
	RunE: runDashboard,
}

func init() {
	rootCmd.Flags().StringVar(&catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "Tag and niche catalog file (default: built-in)")
	rootCmd.Flags().StringVar(&storeKind, "store", config.StoreMemory, "Where links are kept: memory or sqlite")
	rootCmd.Flags().StringVar(&dbPath, "db-path", ":memory:", "SQLite database path when --store=sqlite")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to read .env file:", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cat := catalog.Default()
	if catalogPath != "" {
		loaded, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		cat = loaded
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	dash := dashboard.New(store, cat)
	log.Info().Str("store", storeKind).Msg("starting terminal dashboard")

	p := tea.NewProgram(tui.New(ctx, dash), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal dashboard failed: %w", err)
	}
	return nil
}

func openStore(ctx context.Context) (dashboard.Store, func(), error) {
	switch storeKind {
	case config.StoreMemory:
		return repo.NewMemoryStore(), func() {}, nil
	case config.StoreSQLite:
		conn, err := db.Open(ctx, dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo.NewLinksRepo(conn), func() { _ = conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", storeKind)
	}
}
