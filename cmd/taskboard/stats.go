// Analytics commands for the taskboard CLI.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/tracker"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Analytics over live tasks",
}

var (
	trendFrom        string
	trendTo          string
	trendGranularity string
)

var statsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Task counts grouped by status and priority",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		overview, err := svc.Overview()
		if err != nil {
			return fmt.Errorf("overview: %w", err)
		}
		return printEntity(overview, func() {
			fmt.Println("by status:")
			printCounts(overview.ByStatus)
			fmt.Println("by priority:")
			printCounts(overview.ByPriority)
		})
	},
}

var statsUserCmd = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Completed and overdue counts for one assignee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		perf, err := svc.UserPerformance(args[0])
		if err != nil {
			return fmt.Errorf("user performance: %w", err)
		}
		return printEntity(perf, func() {
			fmt.Printf("completed: %d\noverdue:   %d\n", perf.TasksCompleted, perf.Overdue)
		})
	},
}

var statsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Task creation counts over time",
	Long: `Trends buckets live tasks by creation date and counts each bucket.
The window defaults to the trailing 30 days and the granularity to day.

Example:
  taskboard stats trends
  taskboard stats trends --granularity week --from 2026-01-01 --to 2026-06-30`,
	Args: cobra.NoArgs,
	RunE: runStatsTrends,
}

func init() {
	statsTrendsCmd.Flags().StringVar(&trendFrom, "from", "", "window start (YYYY-MM-DD)")
	statsTrendsCmd.Flags().StringVar(&trendTo, "to", "", "window end (YYYY-MM-DD)")
	statsTrendsCmd.Flags().StringVar(&trendGranularity, "granularity", tracker.GranularityDay, "bucket size: day, week, or month")

	statsCmd.AddCommand(statsOverviewCmd)
	statsCmd.AddCommand(statsUserCmd)
	statsCmd.AddCommand(statsTrendsCmd)
}

// printCounts prints a count map with stable key order.
func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-12s %d\n", k, counts[k])
	}
}

// parseBound parses a window bound flag, leaving the zero time for an
// empty value so the service applies its default window.
func parseBound(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func runStatsTrends(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	from, err := parseBound(trendFrom)
	if err != nil {
		return err
	}
	to, err := parseBound(trendTo)
	if err != nil {
		return err
	}

	points, err := svc.Trends(from, to, trendGranularity)
	if err != nil {
		return fmt.Errorf("trends: %w", err)
	}
	return printEntity(points, func() {
		for _, p := range points {
			fmt.Printf("%s  %d\n", p.Bucket, p.Count)
		}
	})
}
