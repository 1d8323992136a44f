package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jmurray2011/logid/internal/config"
	"github.com/jmurray2011/logid/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	regionKey    string
	outputFormat string
	filtersFile  string
	cfgFile      string
	verbose      bool
	noColor      bool
	quiet        bool

	// render is the global renderer for all output
	render *ui.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "logid",
	Short: "Look up trace logs by log ID across regions",
	Long: `logid - fetch every log line tagged with a log ID from the regional
trace-log services, with compliance noise stripped from the messages.

Regions:
  us     United States
  i18n   International (Singapore)
  cn     China (recognized, no log endpoint configured yet)

Credentials:
  Each region authenticates with a CAS_SESSION cookie read from
  CAS_SESSION_US, CAS_SESSION_I18n or CAS_SESSION_CN, falling back to
  CAS_SESSION. A .env file next to the executable or in ~/.config/logid/
  is loaded first; variables already set in the environment win.

Configuration:
  Create ~/.logid.yaml (or ~/.config/logid/config.yaml) to set defaults:

    region: us
    output: json            # json, text
    filters_file: ~/.config/logid/message_filters.json

Environment:
  ENABLE_LOGGING         true/on/1/yes to log progress to stderr
  LOGID_TIMEOUT          per-request timeout (default 30s)
  LOGID_TOKEN_LIFETIME   assumed token lifetime (default 1h)
  LOGID_FILTERS          redaction config file
  HTTPS_PROXY/HTTP_PROXY outbound proxy

Examples:
  # Query one region
  logid query 550e8400-e29b-41d4-a716-446655440000 --region us

  # Narrow to services
  logid query 20250601abc --region i18n --psm svc.api --psm svc.web

  # Query every configured region at once
  logid query 20250601abc --all -o text`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp(cmd)
		cmd.SetContext(SetApp(cmd.Context(), app))
		return app.Setup()
	},
}

// Execute runs the root command. Interrupts cancel in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		r := render
		if r == nil {
			r = ui.NewRenderer()
		}
		r.Error("%s", err)
		os.Exit(1)
	}
}

// SetVersion sets the version string for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig, initRenderer)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.logid.yaml)")
	rootCmd.PersistentFlags().StringVarP(&regionKey, "region", "r", "", "Region to query: us, i18n, cn")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: json, text")
	rootCmd.PersistentFlags().StringVar(&filtersFile, "filters", "", "Message filter config (JSON) (default ~/.config/logid/message_filters.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress status messages")

	// Bind flags to viper
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("filters_file", rootCmd.PersistentFlags().Lookup("filters"))

	_ = rootCmd.RegisterFlagCompletionFunc("region", completeRegions)
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// initRenderer initializes the global renderer with current settings.
func initRenderer() {
	render = ui.NewRendererWithOptions(
		ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""),
		ui.WithQuiet(quiet),
	)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigFile(findConfigFile())
	}

	// Environment variables
	viper.SetEnvPrefix("LOGID")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("output", "json")

	if viper.ConfigFileUsed() == "" {
		return
	}
	// Read config file (ignore if not found, warn on other errors)
	if err := viper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}
}

// findConfigFile returns ~/.logid.yaml if it exists, else
// ~/.config/logid/config.yaml, or "" when neither does.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, p := range []string{
		filepath.Join(home, ".logid.yaml"),
		filepath.Join(config.UserConfigDir(), "config.yaml"),
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// getRegion returns the region key from flags or config.
func getRegion() string {
	if regionKey != "" {
		return regionKey
	}
	return viper.GetString("region")
}

// getOutputFormat returns the output format from flags or config.
func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output")
}
