package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmurray2011/logid/internal/config"
	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/metrics"
	"github.com/jmurray2011/logid/internal/redact"
	"github.com/jmurray2011/logid/internal/region"
	"github.com/jmurray2011/logid/internal/ui"
)

// appContextKey is the context key for the App instance.
type appContextKey struct{}

// Config holds the flag and config-file values a command runs with.
type Config struct {
	Region       string
	OutputFormat string
	FiltersFile  string
	Verbose      bool
	NoColor      bool
	Quiet        bool
}

// App holds the application dependencies that can be injected for testing.
type App struct {
	Config Config
	Render *ui.Renderer
	// Out receives command results. Status output goes through Render.
	Out io.Writer

	Env         *config.Env
	Credentials *config.Credentials
	Registry    *region.Registry

	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics

	// DotEnvPaths are searched for a .env file during Setup.
	DotEnvPaths []string
}

// NewApp creates a new App with default configuration from flags and viper.
func NewApp() *App {
	cfg := Config{
		Region:       getRegion(),
		OutputFormat: getOutputFormat(),
		FiltersFile:  viper.GetString("filters_file"),
		Verbose:      IsVerbose(),
		NoColor:      noColor || os.Getenv("NO_COLOR") != "",
		Quiet:        quiet,
	}
	return NewAppWithConfig(cfg, render)
}

// NewAppWithConfig creates a new App with the given configuration.
// Env, Credentials and Registry are resolved lazily by Setup.
func NewAppWithConfig(cfg Config, renderer *ui.Renderer) *App {
	if renderer == nil {
		renderer = ui.NewRendererWithOptions(ui.WithNoColor(cfg.NoColor), ui.WithQuiet(cfg.Quiet))
	}
	reg := prometheus.NewRegistry()
	return &App{
		Config:      cfg,
		Render:      renderer,
		Out:         os.Stdout,
		Gatherer:    reg,
		Metrics:     metrics.New(reg),
		DotEnvPaths: config.DotEnvPaths(),
	}
}

// GetApp retrieves the App from the command context.
// If no App is set, it creates a new default one.
func GetApp(cmd *cobra.Command) *App {
	if ctx := cmd.Context(); ctx != nil {
		if app, ok := ctx.Value(appContextKey{}).(*App); ok {
			return app
		}
	}
	return NewApp()
}

// SetApp stores the App in the context for a command.
func SetApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

// Setup loads the .env file and process environment, then applies the
// logging policy. Dependencies already set on the App are kept.
func (a *App) Setup() error {
	if a.Env == nil {
		loaded, err := config.LoadDotEnv(a.DotEnvPaths)
		switch {
		case err != nil:
			a.Render.Warning("failed to load .env file: %v", err)
		case loaded == "":
			a.warnMissingDotEnv()
		default:
			a.Debugf("Loaded environment from %s", loaded)
		}

		env, err := config.LoadEnv()
		if err != nil {
			return err
		}
		a.Env = env
	}
	if a.Credentials == nil {
		a.Credentials = config.NewCredentials(nil)
	}
	if a.Registry == nil {
		a.Registry = region.Default()
	}

	logging.Default().SetLevel(logging.LevelFor(logging.EnabledFromEnv(a.Env.EnableLogging), a.Config.Verbose))
	return nil
}

func (a *App) warnMissingDotEnv() {
	a.Render.Warning("no .env file found")
	for i, p := range a.DotEnvPaths {
		a.Render.Status("  searched %d. %s", i+1, p)
	}
	a.Render.Status("  create one of them with, for example:")
	a.Render.Status("    CAS_SESSION_US=your_us_session_cookie")
	a.Render.Status("    CAS_SESSION_I18n=your_i18n_session_cookie")
	a.Render.Status("    ENABLE_LOGGING=false")
}

// Debugf prints a debug message if verbose mode is enabled.
func (a *App) Debugf(format string, args ...interface{}) {
	if a.Config.Verbose || viper.GetBool("verbose") {
		a.Render.Debug(format, args...)
	}
}

// GetRegion returns the region key from Config or viper.
func (a *App) GetRegion() string {
	if a.Config.Region != "" {
		return a.Config.Region
	}
	return viper.GetString("region")
}

// GetOutputFormat returns the output format from Config or viper.
func (a *App) GetOutputFormat() string {
	if a.Config.OutputFormat != "" {
		return a.Config.OutputFormat
	}
	return viper.GetString("output")
}

// GetFiltersFile returns the redaction config path: the flag or config
// value, then LOGID_FILTERS, then ~/.config/logid/message_filters.json.
func (a *App) GetFiltersFile() string {
	if a.Config.FiltersFile != "" {
		return a.Config.FiltersFile
	}
	if a.Env != nil && a.Env.FiltersFile != "" {
		return a.Env.FiltersFile
	}
	if dir := config.UserConfigDir(); dir != "" {
		return redact.DefaultConfigPath(dir)
	}
	return filepath.Join(".", redact.DefaultConfigFile)
}
