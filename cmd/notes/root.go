package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notesync/internal/bootstrap"
	"notesync/internal/config"
	"notesync/internal/pkg/logger"
	"notesync/internal/tui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	storeDriver   string
	syncTransport string
)

var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Notes with live sync",
	Long: `notes lists, searches and edits notes kept in a remote table.
Run without a subcommand to open the interactive list; it reloads whenever
the table changes.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
			return tui.Run(ctx, c.NoteService, c.Feed, c.Topic, c.Logger)
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "override STORE_DRIVER (postgres, supabase, memory)")
	rootCmd.PersistentFlags().StringVar(&syncTransport, "sync", "", "override SYNC_TRANSPORT (postgres, supabase, nats, redis, memory, none)")
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if storeDriver != "" {
		cfg.Notes.StoreDriver = storeDriver
	}
	if syncTransport != "" {
		cfg.Notes.SyncTransport = syncTransport
	}
	return cfg
}

// withContainer wires the app for one command and tears it down afterwards.
// Logs go to the log file only so they never mix with command output.
func withContainer(run func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg := loadConfig()
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer sysLogger.Sync()

	c, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, c)
}
