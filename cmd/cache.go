package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the query cache",
	Long: `Show query cache activity and the per-resource staleness
policies, or drop every cached entry for the current invocation.

Examples:
  darabctl cache stats
  darabctl cache stats --json
  darabctl cache clear`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return ensureServices()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache counters and resource policies",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached entry",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)

	cacheStatsCmd.Flags().Bool("json", false, "output as JSON")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	snapshot := cacheCounters.Snapshot()

	if jsonOutput {
		return printJSON(cmd, map[string]any{
			"entries":  cache.Len(),
			"counters": snapshot,
			"policies": services.Registry.All(),
		})
	}

	printer := newPrinter()
	printer.Print("Entries:       %d", cache.Len())
	printer.Print("Hits:          %d", snapshot.Hits)
	printer.Print("Misses:        %d", snapshot.Misses)
	printer.Print("Stale serves:  %d", snapshot.Stale)
	printer.Print("Invalidations: %d", snapshot.Invalidations)
	printer.Print("Evictions:     %d", snapshot.Evictions)
	printer.Print("")

	table := output.NewQuietTable([]string{"RESOURCE", "BASE PATH", "STALE AFTER", "DESCRIPTION"}, quiet)
	for _, p := range services.Registry.All() {
		table.AddRow([]string{p.Name, p.BasePath, p.StaleTime.String(), p.Description})
	}
	table.Render()
	printer.PrintHints("cache stats")
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dropped := cache.Len()
	cache.Clear()

	printer := newPrinter()
	printer.Success("Dropped %d cached entries", dropped)
	printer.PrintHints("cache clear")
	return nil
}
