package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/able2/able2-cli/internal/api"
	cfgpkg "github.com/able2/able2-cli/internal/config"
	"github.com/able2/able2-cli/internal/logging"
	"github.com/able2/able2-cli/internal/notify"
)

var (
	// Global flags (override config if set)
	cfgFile        string
	debug          bool
	flagServerURL  string
	flagTimeoutSec int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "able2",
	Short: "Able2 CLI: upload PDFs and ask questions grounded in them",
	Long:  `Able2 is a command-line client for the Able2 PDF Research Assistant. Upload PDF documents to the backend, then ask natural-language questions whose answers cite the source passages they were drawn from.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	_ = godotenv.Load()
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.able2/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("server") && flagServerURL != "" {
		cfg.ServerURL = flagServerURL
	}
	if f.Changed("http-timeout") && flagTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagTimeoutSec
	}
	if f.Changed("debug") {
		cfg.Debug = debug
	}
	logger = logging.New(cfg.Debug)
}

// newAPIClient builds the transport client from the effective config.
func newAPIClient() *api.Client {
	return api.NewClient(cfg.ServerURL, time.Duration(cfg.HTTPTimeoutSec)*time.Second)
}

// newNotifier builds the advisory channel with a subscriber that prints
// each notification as it fires.
func newNotifier() *notify.Channel {
	ch := notify.New(time.Duration(cfg.NotifyTTLSec) * time.Second)
	ch.Subscribe(printNotification)
	return ch
}

func printNotification(n notify.Notification) {
	switch n.Level {
	case notify.LevelError:
		color.Red("✗ %s", n.Message)
	case notify.LevelSuccess:
		color.Green("✓ %s", n.Message)
	default:
		color.Yellow("⚠ %s", n.Message)
	}
}
