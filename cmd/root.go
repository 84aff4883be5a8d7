package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/genderapi/config"
	"github.com/s0up4200/genderapi/genderapi"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  genderapi.API

	// Flag overrides
	apiKey       string
	baseURL      string
	country      string
	askToAI      bool
	outputFormat string
	logLevel     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "genderapi",
	Short: "Infer gender from names, email addresses and usernames",
	Long: `genderapi is a command line client for the GenderAPI.io service.

It looks up the likely gender behind a personal name, an email address or a
social media username, either one at a time or for a whole file of inputs.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.StringVar(&apiKey, "api-key", "", "GenderAPI key (overrides api.key)")
	flags.StringVar(&baseURL, "base-url", "", "service origin (overrides api.base_url)")
	flags.StringVarP(&country, "country", "c", "", "two-letter country code hint")
	flags.BoolVar(&askToAI, "ask-ai", false, "query the AI model directly (costs extra credits)")
	flags.StringVarP(&outputFormat, "output", "o", "", "output format: text or json")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// initializeApp loads the configuration and creates the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = genderapi.NewClient(cfg.API.Key,
		genderapi.WithBaseURL(cfg.API.BaseURL),
		genderapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		genderapi.WithLogger(logger),
		genderapi.WithUserAgent("genderapi-cli/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create GenderAPI client: %w", err)
	}

	logger.Debug().
		Str("base_url", cfg.API.BaseURL).
		Str("country", cfg.Lookup.Country).
		Bool("ask_to_ai", cfg.Lookup.AskToAI).
		Msg("Client initialized")

	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded configuration
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.API.Key = apiKey
	}
	if flags.Changed("base-url") {
		cfg.API.BaseURL = baseURL
	}
	if flags.Changed("country") {
		cfg.Lookup.Country = country
	}
	if flags.Changed("ask-ai") {
		cfg.Lookup.AskToAI = askToAI
	}
	if flags.Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
