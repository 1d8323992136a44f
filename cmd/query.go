package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/logquery"
	"github.com/jmurray2011/logid/internal/metrics"
	"github.com/jmurray2011/logid/internal/output"
	"github.com/jmurray2011/logid/internal/redact"
	"github.com/jmurray2011/logid/internal/transport"
	"github.com/jmurray2011/logid/internal/ui"
)

var (
	psmList     []string
	allRegions  bool
	showTags    bool
	noMeta      bool
	noScanRange bool
	metricsFile string
	highlight   string
)

var queryCmd = &cobra.Command{
	Use:   "query <logid>",
	Short: "Fetch the log messages tagged with a log ID",
	Long: `Fetch every log line carrying a log ID from one region, or from all
configured regions at once.

Messages are cleaned with the redaction patterns from the filter config
(--filters, LOGID_FILTERS or ~/.config/logid/message_filters.json); the JSON
output keeps each original value next to the cleaned one.

Examples:
  # One region, JSON output
  logid query 550e8400-e29b-41d4-a716-446655440000 --region us

  # Only some services
  logid query 20250601abc -r i18n --psm svc.api --psm svc.web

  # Every configured region, human-readable
  logid query 20250601abc --all -o text --highlight timeout

  # Record request metrics for node_exporter
  logid query 20250601abc -r us --metrics-file /var/lib/node_exporter/logid.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringArrayVarP(&psmList, "psm", "p", nil, "Restrict to a service (repeatable)")
	queryCmd.Flags().BoolVarP(&allRegions, "all", "a", false, "Query every configured region concurrently")
	queryCmd.Flags().BoolVar(&showTags, "show-tags", false, "Include tag infos in the output")
	queryCmd.Flags().BoolVar(&noMeta, "no-meta", false, "Omit response metadata")
	queryCmd.Flags().BoolVar(&noScanRange, "no-scan-range", false, "Omit the scanned time range")
	queryCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write request metrics in Prometheus text format to this file")
	queryCmd.Flags().StringVar(&highlight, "highlight", "", "Regex to highlight in text output")
}

func runQuery(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)
	ctx := cmd.Context()

	logID := strings.TrimSpace(args[0])
	if logID == "" {
		return fmt.Errorf("log ID must not be empty")
	}

	format, err := output.ParseFormat(app.GetOutputFormat())
	if err != nil {
		return err
	}

	filters := app.GetFiltersFile()
	redactor, err := redact.Load(filters)
	if err != nil {
		return err
	}
	app.Debugf("Loaded %d message filters (config: %s)", redactor.Len(), filters)

	keys, err := resolveRegions(app, allRegions)
	if err != nil {
		return err
	}

	d, err := logquery.NewDispatcher(keys, logquery.DispatcherOptions{
		Registry:    app.Registry,
		Credentials: app.Credentials,
		Transport: transport.Options{
			Timeout:    app.Env.RequestTimeout,
			HTTPSProxy: app.Env.HTTPSProxy,
			HTTPProxy:  app.Env.HTTPProxy,
		},
		TokenLifetime: app.Env.TokenLifetime,
		Redactor:      redactor,
		Metrics:       app.Metrics,
		Logger:        logging.Default(),
	})
	if err != nil {
		return err
	}
	defer d.Close()

	opts := output.DefaultOptions()
	opts.ShowMetadata = !noMeta
	opts.ShowScanTimeRange = !noScanRange
	opts.ShowTagInfos = showTags

	formatter := output.NewFormatter(string(format), app.Out, opts,
		ui.WithNoColor(app.Config.NoColor),
		ui.WithHighlight(highlight),
	)

	start := time.Now()
	if len(keys) == 1 && !allRegions {
		app.Render.Status("Querying %s for %s...", keys[0], logID)
		res, err := d.Query(ctx, keys[0], logID, psmList)
		if err != nil {
			return err
		}
		app.Debugf("Query completed in %s", time.Since(start).Round(time.Millisecond))
		if err := formatter.FormatResult(res); err != nil {
			return err
		}
	} else {
		app.Render.Status("Querying %s for %s...", strings.Join(keys, ", "), logID)
		outcomes := d.QueryAll(ctx, logID, psmList)
		app.Debugf("Queried %d regions in %s", len(outcomes), time.Since(start).Round(time.Millisecond))
		if err := formatter.FormatOutcomes(logID, outcomes); err != nil {
			return err
		}
		if err := summarizeOutcomes(app, outcomes); err != nil {
			return err
		}
	}

	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile, app.Gatherer); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		app.Debugf("Wrote metrics to %s", metricsFile)
	}
	return nil
}

// resolveRegions returns the region keys a query runs against. A single
// region must be known and have a log endpoint; --all picks every
// configured region.
func resolveRegions(app *App, all bool) ([]string, error) {
	if all {
		keys := app.Registry.Configured()
		if len(keys) == 0 {
			return nil, fmt.Errorf("no region has a log endpoint configured")
		}
		return keys, nil
	}

	key := app.GetRegion()
	if key == "" {
		return nil, fmt.Errorf("no region given\n\n  Use --region (%s) or --all", strings.Join(app.Registry.Keys(), ", "))
	}
	r, ok := app.Registry.Lookup(key)
	if !ok {
		return nil, clerrors.UnsupportedRegion(key, app.Registry.Keys())
	}
	if !r.IsConfigured() {
		return nil, clerrors.RegionNotConfigured(r.Key)
	}
	return []string{r.Key}, nil
}

// summarizeOutcomes warns about failed regions and fails only when every
// region failed.
func summarizeOutcomes(app *App, outcomes map[string]logquery.Outcome) error {
	var failed []string
	var errs []error
	for key, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, key)
			errs = append(errs, o.Err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	if len(failed) == len(outcomes) {
		return fmt.Errorf("all regions failed: %w", errors.Join(errs...))
	}
	sort.Strings(failed)
	app.Render.Warning("%d of %d regions failed: %s", len(failed), len(outcomes), strings.Join(failed, ", "))
	return nil
}
