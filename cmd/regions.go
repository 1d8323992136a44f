package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmurray2011/logid/internal/output"
	"github.com/jmurray2011/logid/internal/region"
	"github.com/jmurray2011/logid/internal/ui"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List known regions and their configuration",
	Long: `List every region logid knows about, whether it has a log endpoint,
and which environment variable holds its session cookie.

Examples:
  logid regions
  logid regions -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp(cmd)
		format, err := output.ParseFormat(app.GetOutputFormat())
		if err != nil {
			return err
		}
		formatter := output.NewFormatter(string(format), app.Out, output.DefaultOptions(), ui.WithNoColor(app.Config.NoColor))
		return formatter.FormatRegions(app.Registry.All())
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

// completeRegions offers region keys for --region.
func completeRegions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, key := range region.Keys() {
		if strings.HasPrefix(key, strings.ToLower(toComplete)) {
			out = append(out, key)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
