// Package report renders a computed summary as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-dota-metrics/internal/model"
)

var (
	cSection = color.New(color.FgCyan, color.Bold)
	cWarn    = color.New(color.FgYellow)
	cMuted   = color.New(color.Faint)
)

// newTable builds a table with the house style: right-aligned cells,
// centered headers.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	cSection.Fprintf(w, "--- %s ---\n", title)
	fmt.Fprintln(w)
}

// Print renders the full report to w.
func Print(w io.Writer, s *model.Summary) {
	fmt.Fprintf(w, "\nWindow: %s (%d days)  |  Queue: %s  |  Deep: %d matches\n",
		s.Filters.Range, s.Filters.Days, s.Filters.Queue, s.Filters.DeepUsed)

	for _, warning := range s.Warnings {
		cWarn.Fprintf(w, "! %s\n", warning)
	}

	if s.Totals.Matches == 0 {
		cMuted.Fprintln(w, "\nNo matches in this window.")
		return
	}

	printTotals(w, s)
	printSidesAndStreaks(w, s)
	printRecords(w, s)
	printHeroes(w, s)
	printLanes(w, s)
	printHistograms(w, s)
	printDeep(w, s)
}

func printTotals(w io.Writer, s *model.Summary) {
	section(w, "Totals")
	t := s.Totals
	fmt.Fprintf(w, "  Matches        : %d (%d wins, %.2f%%)\n", t.Matches, t.Wins, t.Winrate)
	fmt.Fprintf(w, "  Playtime       : %.2f h\n", t.PlaytimeHours)
	fmt.Fprintf(w, "  Hero damage    : %d total, %.2f avg\n", t.TotalHeroDamage, t.AvgHeroDamage)
	fmt.Fprintf(w, "  Tower damage   : %d total\n", t.TotalTowerDmg)
	fmt.Fprintf(w, "  Avg GPM / XPM  : %.2f / %.2f\n", t.AvgGPM, t.AvgXPM)
	fmt.Fprintf(w, "  Avg LH / DN    : %.2f / %.2f\n", t.AvgLastHits, t.AvgDenies)
}

func printSidesAndStreaks(w io.Writer, s *model.Summary) {
	section(w, "Sides & Streaks")
	tbl := newTable(w)
	tbl.Header("SPLIT", "MATCHES", "WINS", "WIN%")
	appendSplit := func(name string, st model.SideStats) {
		tbl.Append(name,
			strconv.Itoa(st.Matches),
			strconv.Itoa(st.Wins),
			fmt.Sprintf("%.2f%%", st.Winrate))
	}
	appendSplit("radiant", s.Sides.Radiant)
	appendSplit("dire", s.Sides.Dire)
	appendSplit("solo", s.SoloVsParty.Solo)
	appendSplit("party", s.SoloVsParty.Party)
	tbl.Render()
	fmt.Fprintf(w, "\n  Longest win streak : %d\n", s.Streaks.LongestWin)
	fmt.Fprintf(w, "  Longest loss streak: %d\n", s.Streaks.LongestLoss)
}

func printRecords(w io.Writer, s *model.Summary) {
	section(w, "Records")
	tbl := newTable(w)
	tbl.Header("RECORD", "VALUE", "HERO", "MATCH ID")
	appendRecord := func(name string, r *model.RecordMatch) {
		if r == nil {
			tbl.Append(name, "—", "—", "—")
			return
		}
		tbl.Append(name,
			strconv.Itoa(r.Value),
			r.HeroName,
			strconv.FormatInt(r.MatchID, 10))
	}
	appendRecord("most kills", s.Records.MostKills)
	appendRecord("most deaths", s.Records.MostDeaths)
	appendRecord("most assists", s.Records.MostAssists)
	appendRecord("best GPM", s.Records.BestGPM)
	appendRecord("best XPM", s.Records.BestXPM)
	tbl.Render()
}

func printHeroes(w io.Writer, s *model.Summary) {
	section(w, "Top Heroes")
	tbl := newTable(w)
	tbl.Header("HERO", "MATCHES", "WIN%", "AVG K", "AVG D", "AVG A", "KDA")
	for _, h := range s.Heroes.Top3 {
		tbl.Append(h.Name,
			strconv.Itoa(h.Matches),
			fmt.Sprintf("%.2f%%", h.Winrate),
			fmt.Sprintf("%.2f", h.AvgK),
			fmt.Sprintf("%.2f", h.AvgD),
			fmt.Sprintf("%.2f", h.AvgA),
			fmt.Sprintf("%.2f", h.KDA))
	}
	tbl.Render()
	fmt.Fprintf(w, "\n  Hero pool: %d distinct heroes\n", s.Heroes.Diversity)
}

func printLanes(w io.Writer, s *model.Summary) {
	if len(s.Lanes) == 0 {
		return
	}
	section(w, "Lanes")
	tbl := newTable(w)
	tbl.Header("LANE", "MATCHES", "WINS", "WIN%")
	for _, l := range s.Lanes {
		tbl.Append(l.Lane,
			strconv.Itoa(l.Matches),
			strconv.Itoa(l.Wins),
			fmt.Sprintf("%.2f%%", l.Winrate))
	}
	tbl.Render()
}

func printHistograms(w io.Writer, s *model.Summary) {
	section(w, fmt.Sprintf("Histograms (bucket %d)", s.Histograms.Step))
	printHistogram(w, "GPM", s.Histograms.GPM)
	fmt.Fprintln(w)
	printHistogram(w, "XPM", s.Histograms.XPM)
}

// printHistogram draws a bar per bucket, scaled to the largest count.
func printHistogram(w io.Writer, label string, bins []model.HistogramBin) {
	const maxBar = 40
	peak := 0
	for _, b := range bins {
		if b.Count > peak {
			peak = b.Count
		}
	}
	if peak == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, b := range bins {
		bar := b.Count * maxBar / peak
		if bar == 0 {
			bar = 1
		}
		fmt.Fprintf(w, "  %5d | %-*s %d\n", b.Bucket, maxBar, repeat('#', bar), b.Count)
	}
}

func repeat(c byte, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = c
	}
	return string(buf)
}

func printDeep(w io.Writer, s *model.Summary) {
	d := s.Deep
	section(w, "Deep Stats")
	fmt.Fprintf(w, "  Attempted %d matches, %d with details, %d parse requests\n",
		d.Meta.Attempted, d.Meta.WithDetails, d.Meta.ParseRequested)
	if d.Meta.WithDetails == 0 {
		cMuted.Fprintln(w, "  No parsed details available in the enriched set.")
		return
	}

	tbl := newTable(w)
	tbl.Header("WARDS", "TOTAL", "PER GAME")
	tbl.Append("obs placed", strconv.Itoa(d.Wards.ObsPlaced), fmt.Sprintf("%.2f", d.Wards.PerGame.ObsPlaced))
	tbl.Append("sen placed", strconv.Itoa(d.Wards.SenPlaced), fmt.Sprintf("%.2f", d.Wards.PerGame.SenPlaced))
	tbl.Append("obs killed", strconv.Itoa(d.Wards.ObsKilled), fmt.Sprintf("%.2f", d.Wards.PerGame.ObsKilled))
	tbl.Append("sen killed", strconv.Itoa(d.Wards.SenKilled), fmt.Sprintf("%.2f", d.Wards.PerGame.SenKilled))
	tbl.Render()

	fmt.Fprintf(w, "\n  Healing: %.0f  |  Stun seconds: %.0f\n", d.Healing, d.Stuns)
	fmt.Fprintf(w, "  Purchases: smoke %d, dust %d, obs %d, sen %d\n",
		d.Purchases.Smoke, d.Purchases.Dust, d.Purchases.Obs, d.Purchases.Sen)

	fp := d.FarmProfile
	if fp.MatchesUsed > 0 {
		fmt.Fprintf(w, "  Farm profile (%d matches): early %.2f, mid %.2f, late %.2f GPM\n",
			fp.MatchesUsed, fp.EarlyGPM, fp.MidGPM, fp.LateGPM)
	}
}
