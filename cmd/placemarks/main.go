// Package main provides the placemarks CLI and terminal browser.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/config"
	"github.com/nikbrunner/placemarks/internal/logging"
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
)

// Set by PersistentPreRunE for every subcommand.
var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printErr("%v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "placemarks",
	Short: "placemarks - browse and share map bookmarks",
	Long: `placemarks keeps map bookmarks and tracks in categories.

Without a command it opens the interactive browser.

Browser keys:
  j/k         Move down/up
  h/l         Back to categories / open category
  gg/G        Jump to top/bottom
  o           Cycle sorting (type, distance, time, name)
  v / V       Show/hide category / all categories
  s           Share category or track (path is copied)
  a           Add category
  d           Delete
  /           Fuzzy search
  r           Reload
  ?           Help
  q           Quit

Data lives in ~/.config/placemarks unless data_dir says otherwise.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Args:              cobra.NoArgs,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: ~/.config/placemarks)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(unhideCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(shareCmd)
}

// setup loads the configuration and the logger. Subcommands log to stderr;
// the browser replaces the logger with one writing to a file.
func setup(cmd *cobra.Command, args []string) error {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	configDir := flagConfigDir
	if configDir == "" {
		dir, err := config.DefaultConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = dir
	}

	c, err := config.Load(configDir)
	if err != nil {
		return err
	}
	cfg = c

	logger = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)
	return nil
}
