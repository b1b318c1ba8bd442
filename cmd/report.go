package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/steamid"
	"github.com/pable/go-dota-metrics/internal/summary"
	"github.com/pable/go-dota-metrics/internal/window"
)

// report command flags.
var (
	reportRange string
	reportQueue string
	reportDeep  int
	reportParse bool
)

var reportCmd = &cobra.Command{
	Use:   "report <steamid64|account_id|STEAM_0:X:Y|[U:1:N]>",
	Short: "Compute and print a player's match report",
	Long: `Fetch a player's recent matches from OpenDota, aggregate them over the
requested window, enrich the most recent ones with full match details,
and print the report.

Examples:
  # Last year, all queues
  dotametrics report 76561197960287930

  # Ranked only, last month, enrich 50 matches and request parses
  dotametrics report 76561197960287930 --range last_month --queue ranked --deep 50 --parse`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRange, "range", string(window.RangeLastYear),
		"time window: last_month | last_6_months | last_year")
	reportCmd.Flags().StringVar(&reportQueue, "queue", string(window.QueueAll),
		"queue filter: all | turbo | ranked | normal")
	reportCmd.Flags().IntVar(&reportDeep, "deep", summary.DefaultDeepLimit,
		fmt.Sprintf("matches to enrich with full details (0-%d, 0 disables)", summary.MaxDeepLimit))
	reportCmd.Flags().BoolVar(&reportParse, "parse", false,
		"request replay parsing for matches that lack details")
}

func runReport(cmd *cobra.Command, args []string) error {
	parsed, err := steamid.Parse(args[0])
	if err != nil {
		return err
	}
	if parsed.Kind == steamid.KindName {
		return fmt.Errorf("%q looks like a name; run 'dotametrics resolve %s' first", args[0], args[0])
	}

	deep := reportDeep
	if deep == 0 {
		deep = -1
	}

	svc := newService(newClient())
	rep, err := svc.Build(cmd.Context(), summary.Params{
		AccountID:    parsed.AccountID,
		Range:        window.RangeKey(reportRange),
		Queue:        window.QueueKey(reportQueue),
		DeepLimit:    deep,
		RequestParse: reportParse,
	})
	if err != nil {
		return err
	}

	report.Print(os.Stdout, rep)
	return nil
}
