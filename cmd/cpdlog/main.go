// Package main is the entry point for the cpdlog CLI — an offline,
// single-user log of Continuing Professional Development activities.
//
// Usage:
//
//	cpdlog add "Mentored junior nurse" --category "Mentoring & Supervision" --hours 2
//	cpdlog list
//	cpdlog stats
//	cpdlog export -o cpd-export.json
//
// Configuration comes from CPDLOG_* environment variables or an optional
// YAML file named by CPDLOG_CONFIG (fallback ./config.yaml).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpdlog/cpdlog/internal/config"
	"github.com/cpdlog/cpdlog/internal/kvstore"
	"github.com/cpdlog/cpdlog/internal/logstore"
	"github.com/cpdlog/cpdlog/internal/observability"
)

const (
	version = "0.1.0"
	appName = "cpdlog"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Offline CPD activity log with progress tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", appName, version)
		},
	}
}

// app bundles the wired subsystems for one CLI invocation.
type app struct {
	cfg      *config.Config
	log      *observability.Logger
	counters *observability.Counters
	kv       *kvstore.Store
	store    *logstore.Store
}

// bootstrap loads config and constructs the storage stack. The caller
// owns the returned app and must Close it.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(appName, os.Stderr, cfg.Log.Format, cfg.Log.Level)
	counters := observability.NewCounters()

	var backend kvstore.Backend
	switch cfg.Storage.Backend {
	case "memory":
		backend = kvstore.NewMemoryBackend()
	default:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		backend, err = kvstore.NewSQLiteBackend(cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
	}

	kv := kvstore.New(backend, logger.Named("kvstore"), counters)
	store := logstore.New(kv, logger.Named("logstore"), counters, cfg.CPD.TargetHours)
	store.Load(ctx)

	return &app{
		cfg:      cfg,
		log:      logger,
		counters: counters,
		kv:       kv,
		store:    store,
	}, nil
}

// Close releases the storage stack.
func (a *app) Close() error {
	return a.kv.Close()
}

// withApp wraps a command body with bootstrap and teardown.
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, cmd, args)
	}
}
