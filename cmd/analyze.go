package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/steamid"
	"github.com/pable/go-dota-metrics/internal/summary"
	"github.com/pable/go-dota-metrics/internal/window"
)

const analyzeSystemPrompt = `You are a Dota 2 performance analyst. You are given structured data computed
from a player's match history and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable — focus on what the player can actually improve.
- Avoid generic Dota advice unless it directly explains a pattern in the data.

Metrics glossary:
- GPM/XPM: gold/experience per minute. Core heroes: GPM 450+ is solid.
- KDA: (kills+assists) / max(1, deaths).
- Streaks: longest consecutive win/loss runs in time order.
- Sides: winrate split by Radiant vs Dire.
- Lanes: safe/mid/off/jungle/roam assignment per match.
- Histograms: match counts in 100-wide GPM/XPM buckets.
- Wards: observer/sentry placements and kills, per-game over parsed matches.
- Farm profile: early (0-10 min), mid (10-25), late (25+) gold rates from
  the net-worth curve, averaged over parsed matches.
- Solo vs party: winrate split by queueing alone vs grouped.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeRange  string
	analyzeQueue  string
	analyzeDeep   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <steamid64> <question>",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
	Long: `Compute a player's report and ask an AI analyst a question about it.
The model only sees the computed report, so answers stay grounded in
the player's actual numbers.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringVar(&analyzeRange, "range", string(window.RangeLastYear), "time window: last_month | last_6_months | last_year")
	analyzeCmd.Flags().StringVar(&analyzeQueue, "queue", string(window.QueueAll), "queue filter: all | turbo | ranked | normal")
	analyzeCmd.Flags().IntVar(&analyzeDeep, "deep", summary.DefaultDeepLimit, "matches to enrich with full details")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	parsed, err := steamid.Parse(args[0])
	if err != nil {
		return err
	}
	if parsed.Kind == steamid.KindName {
		return fmt.Errorf("%q looks like a name; run 'dotametrics resolve %s' first", args[0], args[0])
	}
	question := args[1]

	deep := analyzeDeep
	if deep == 0 {
		deep = -1
	}

	svc := newService(newClient())
	rep, err := svc.Build(cmd.Context(), summary.Params{
		AccountID: parsed.AccountID,
		Range:     window.RangeKey(analyzeRange),
		Queue:     window.QueueKey(analyzeQueue),
		DeepLimit: deep,
	})
	if err != nil {
		return err
	}
	if rep.Totals.Matches == 0 {
		return fmt.Errorf("no matches found for account %d in this window", parsed.AccountID)
	}

	contextJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, string(contextJSON), question)
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
