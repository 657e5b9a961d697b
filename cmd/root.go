package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/wishmerchant/config"
	"github.com/s0up4200/wishmerchant/filter"
)

var (
	cfgFile string
	envFlag string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wishctl",
	Short: "A command line client for the Wish merchant API",
	Long: `wishctl talks to the Wish merchant API. It can list products, variations,
orders, tickets and notifications, narrow them down with filter expressions,
and exchange OAuth codes for access tokens.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information reported by the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, built)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "override the API environment (prod, sandbox, stage)")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(variationsCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(ticketsCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("env") {
		cfg.Wish.Environment = strings.ToLower(envFlag)
	}

	logger = setupLogger(cfg.Logging)
	logger.Debug().
		Str("environment", cfg.Wish.Environment).
		Str("version", version).
		Msg("Configuration loaded")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// resolveFilter determines the filter to apply. The --filter flag wins over
// --preset; no filter at all keeps every record.
func resolveFilter(expression, presetName string, presets map[string]string) (*filter.Filter, error) {
	if expression == "" && presetName != "" {
		presetExpr, ok := presets[presetName]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", presetName)
		}
		expression = presetExpr
	}

	if expression == "" {
		return nil, nil
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
