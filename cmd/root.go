package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	cfgpkg "github.com/nsitu/artasia-atlas/internal/config"
	"github.com/nsitu/artasia-atlas/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagLogLevel       string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Artasia Atlas: turn an art-sites spreadsheet into a force-directed graph",
	Long: `Atlas reads a spreadsheet of community art sites, clusters the sites by
partner organization (or artist educator, or EarlyON status), picks one
representative per cluster, links everything by geographic distance, and
writes an interactive vis-network page or a JSON/YAML export.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.atlas/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP timeout in seconds for remote datasets (overrides config)")
}

func loadConfig() {
	// A .env next to the dataset may carry ATLAS_* overrides.
	_ = godotenv.Load()

	logger.Init()
	log := logger.Named("config")

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	log.Debug(rootCmd.Context(), "config loaded",
		logger.String("file", cfgFile),
		logger.String("group_by", cfg.GroupBy),
		logger.String("format", cfg.Format),
		logger.Int("http_timeout_sec", cfg.HTTPTimeoutSec),
	)
}

// httpTimeout is the configured fetch timeout for remote datasets.
func httpTimeout() time.Duration {
	if cfg == nil || cfg.HTTPTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(cfg.HTTPTimeoutSec) * time.Second
}

// currentConfig returns the loaded config, or defaults when loading never ran.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	return cfg
}
