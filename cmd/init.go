package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmurray2011/logid/internal/config"
	"github.com/jmurray2011/logid/internal/redact"
	"github.com/jmurray2011/logid/internal/ui"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize logid configuration",
	Long: `Create the default configuration files in ~/.config/logid/:

  config.yaml             CLI defaults (region, output format)
  message_filters.json    redaction patterns applied to every message
  .env                    session cookie template

Existing files are left alone unless --force is given.

Examples:
  logid init
  logid init --force`,
	Args: cobra.NoArgs,
	// Setup would warn about the .env file this command is about to create.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.UserConfigDir()
	if dir == "" {
		return fmt.Errorf("failed to get home directory")
	}
	r := ui.NewRendererWithOptions(
		ui.WithOutput(cmd.OutOrStdout()),
		ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""),
	)
	return writeInitFiles(r, dir, initForce)
}

// writeInitFiles creates the starter config files in dir.
func writeInitFiles(r *ui.Renderer, dir string, force bool) error {
	filters, err := defaultFiltersFile()
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		content string
	}{
		{"config.yaml", defaultConfigYAML},
		{redact.DefaultConfigFile, filters},
		{".env", defaultDotEnv},
	}

	r.Info("Initialized logid configuration:")
	for _, f := range files {
		if err := createFileIfNotExists(r, filepath.Join(dir, f.name), f.content, force); err != nil {
			return err
		}
	}
	r.Newline()
	r.Info("Add your session cookies to %s.", filepath.Join(dir, ".env"))
	return nil
}

func defaultFiltersFile() (string, error) {
	b, err := json.MarshalIndent(map[string][]string{
		redact.ConfigKeys[0]: redact.DefaultPatterns(),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

const defaultConfigYAML = `# logid configuration

# Default region when --region is omitted: us, i18n, cn
# region: us

# Default output format: json, text
output: json

# Redaction patterns (defaults to message_filters.json next to this file)
# filters_file: ~/.config/logid/message_filters.json
`

const defaultDotEnv = `# Session cookies per region. CAS_SESSION is used when a region has none.
CAS_SESSION_US=
CAS_SESSION_I18n=
# CAS_SESSION_CN=
# CAS_SESSION=

# Log progress to stderr: true, on, 1, yes
ENABLE_LOGGING=false
`

func createFileIfNotExists(r *ui.Renderer, path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			r.Muted("  %s already exists (use --force to overwrite)", path)
			return nil
		}
	}

	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.Success("  Created %s", path)
	return nil
}
