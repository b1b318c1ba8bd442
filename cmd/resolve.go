package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/steamid"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <input>",
	Short: "Resolve a Steam identifier or persona name to an account id",
	Long: `Recognize any common Steam identifier format (SteamID64, 32-bit account
id, STEAM_0:X:Y, [U:1:N], profile URL) and print the canonical ids.
Names and vanity URLs list search candidates instead of auto-picking.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	parsed, err := steamid.Parse(args[0])
	if err != nil {
		return err
	}

	if parsed.Kind != steamid.KindName {
		fmt.Printf("SteamID64 : %d\n", steamid.ToSteamID64(parsed.AccountID))
		fmt.Printf("AccountID : %d\n", parsed.AccountID)
		fmt.Printf("Source    : %s\n", parsed.Kind)
		return nil
	}

	results, err := newClient().Search(cmd.Context(), parsed.Query)
	if err != nil {
		return fmt.Errorf("search %q: %w", parsed.Query, err)
	}
	if len(results) == 0 {
		fmt.Printf("No players found matching %q\n", parsed.Query)
		return nil
	}
	if len(results) > 20 {
		results = results[:20]
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("NAME", "ACCOUNT ID", "STEAMID64", "SIMILARITY")
	for _, r := range results {
		table.Append(
			r.PersonaName,
			strconv.FormatInt(r.AccountID, 10),
			strconv.FormatUint(steamid.ToSteamID64(r.AccountID), 10),
			fmt.Sprintf("%.1f", r.Similarity),
		)
	}
	table.Render()
	return nil
}
