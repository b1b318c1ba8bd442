package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/summary"
)

var baseURL string

var rootCmd = &cobra.Command{
	Use:   "dotametrics",
	Short: "Dota 2 player analytics tool",
	Long:  "Fetch a player's match history from OpenDota and compute win/streak/hero/lane/farm analytics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "",
		"override the OpenDota API base URL (default: official API, also $OPENDOTA_BASE_URL)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// newClient builds the process-wide OpenDota client. One client means one
// shared rate budget across everything a command does.
func newClient() *opendota.Client {
	var opts []opendota.Option
	u := baseURL
	if u == "" {
		u = os.Getenv("OPENDOTA_BASE_URL")
	}
	if u != "" {
		opts = append(opts, opendota.WithBaseURL(u))
	}
	return opendota.NewClient(opts...)
}

func newService(client *opendota.Client) *summary.Service {
	return summary.New(client)
}
