package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leengari/sqlsandbox/internal/config"
	"github.com/leengari/sqlsandbox/internal/engine"
	"github.com/leengari/sqlsandbox/internal/logging"
	"github.com/leengari/sqlsandbox/internal/storage/catalog"
	"github.com/leengari/sqlsandbox/internal/storage/kv"
)

var (
	configPath string
	backend    string
	dataPath   string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sqlsandbox",
	Short:         "In-memory SQL sandbox with persistent databases",
	Long:          `A SQL practice engine: statements run against in-memory databases that are saved to a key-value store after every change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: built-in defaults + SQLSANDBOX_* env)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: memory, file, sqlite, mysql, postgres")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "storage directory for file and sqlite backends")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(replCmd, execCmd, serveCmd, exportCmd, importCmd, historyCmd, viewsCmd)
}

// app is everything a command needs, opened from config and flags
type app struct {
	cfg     *config.Config
	store   kv.Store
	catalog *catalog.Catalog
	engine  *engine.Engine
	closeFn func()
}

func openApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if dataPath != "" {
		cfg.Storage.Path = dataPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, closeLog, err := logging.SetupLogger(logging.Options{
		Level:  cfg.Log.Level,
		SeqURL: cfg.Log.SeqURL,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	store, err := kv.Open(kv.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
		DSN:     cfg.Storage.DSN,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cat := catalog.New(store,
		catalog.WithNamespace(cfg.Storage.Namespace),
		catalog.WithHistoryLimit(cfg.Engine.HistoryLimit),
		catalog.WithDefaultDatabase(cfg.Engine.DefaultDatabase),
	)
	eng := engine.New(cat)
	eng.AddObserver(engine.NewLoggingObserver(logger))

	slog.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	return &app{
		cfg:     cfg,
		store:   store,
		catalog: cat,
		engine:  eng,
		closeFn: func() {
			if err := store.Close(); err != nil {
				slog.Error("failed to close storage", "error", err)
			}
			closeLog()
		},
	}, nil
}

func (a *app) Close() {
	a.closeFn()
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".sqlsandbox_history"
	}
	return filepath.Join(home, ".sqlsandbox_history")
}
