// Package cmd contains all CLI commands for darabctl
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arashgl/darabctl/internal/api"
	"github.com/arashgl/darabctl/internal/config"
	"github.com/arashgl/darabctl/internal/guard"
	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/querycache"
	"github.com/arashgl/darabctl/internal/resources"
	"github.com/arashgl/darabctl/internal/session"
)

var (
	cfgFile   string
	baseURL   string
	verbose   bool
	quiet     bool
	colorFlag string
	cfg       *config.Config
	logger    *slog.Logger
	version   = "dev"

	// wired by ensureServices
	store         *session.Store
	client        *api.Client
	cache         *querycache.Cache
	cacheCounters *querycache.Counters
	services      *resources.Services
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "darabctl",
	Short: "Admin CLI for the Darab content backend",
	Long: `darabctl manages the Darab content backend: posts, categories,
products, personnel, media, support tickets, and landing-page settings.

Reads go through a staleness-aware query cache; writes invalidate the
affected listings so the next read is fresh. Sessions persist across
invocations until logout or token expiry.

Example usage:
  darabctl login                       # Sign in and store the session
  darabctl posts list --page 2         # List posts (cached)
  darabctl tickets list --status open  # Open support tickets
  darabctl upload banner.jpg --target media`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Structured errors get rich formatting and their own
// exit code; anything else bubbles up to main.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		newPrinter().FormatError(cliErr)
		os.Exit(cliErr.ExitCode)
	}
	return err
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .darabctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend origin (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, never")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error

	// Setup logger
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Load configuration
	cfg, err = config.Load(cfgFile, baseURL)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Update logger based on config
	if cfg.Logging.Level == "debug" || verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"session_path", cfg.Session.Path,
		"stale_time", cfg.Cache.StaleTime,
	)

	return nil
}

// ensureServices wires the session store, transport, cache, and resource
// services. Idempotent: commands and their PreRun guards share one stack.
func ensureServices() error {
	if services != nil {
		return nil
	}

	store = session.NewStore(cfg.Session.Path)
	if err := store.Load(); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	printer := newPrinter()

	var err error
	client, err = api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Session:   store,
		Logger:    logger,
		OnUnauthorized: func() {
			// Session is dead: drop local credentials so the next
			// invocation starts clean, then point the user at login.
			if err := store.Clear(); err != nil {
				logger.Debug("clearing session after 401", "error", err)
			}
			printer.Warning("Session expired, signed out")
		},
	})
	if err != nil {
		return err
	}

	cacheCounters = &querycache.Counters{}
	cache = querycache.New(querycache.Options{
		RetryMaxAttempts:     cfg.Retry.MaxAttempts,
		RetryInitialInterval: cfg.Retry.InitialInterval,
		Retryable:            api.IsRetryable,
		IdleTTL:              cfg.Cache.IdleTTL,
		GCInterval:           cfg.Cache.GCInterval,
		Metrics:              cacheCounters,
		Logger:               logger,
	})

	services = resources.New(client, cache, store, cfg, logger)
	return nil
}

// requireAuth is the PersistentPreRunE for protected commands: config,
// services, then a live token check through the route guard.
func requireAuth(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	if err := ensureServices(); err != nil {
		return err
	}

	g := guard.New(services.Auth, store, logger)
	logger.Debug("verifying session token")

	state, err := g.Check(cmd.Context())
	switch state {
	case guard.Authorized:
		return nil
	case guard.Unauthorized:
		return &output.CLIError{
			Summary:    "not signed in",
			Suggestion: "Run 'darabctl login' first",
			ExitCode:   output.ExitAuthError,
		}
	default:
		return fmt.Errorf("verifying session: %w", err)
	}
}

// newPrinter builds a printer honoring the color flag and config
func newPrinter() *output.Printer {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		mode = output.ColorAuto
	}
	configColors := true
	if cfg != nil {
		configColors = cfg.Output.Colors
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Quiet:        quiet,
	})
}

// failure wraps a service error for terminal display
func failure(err error, operation string) error {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return output.FromAPIError(err, operation)
}

// resetWiring clears the package-level service stack (used by tests)
func resetWiring() {
	if cache != nil {
		cache.Close()
	}
	store = nil
	client = nil
	cache = nil
	cacheCounters = nil
	services = nil
}
