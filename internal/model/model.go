// Package model defines the report produced by a summary computation.
// The JSON shape is the contract with the presentation layer.
package model

import "math"

// Round2 rounds v to 2 decimal places. All report ratios and per-match
// averages use this.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Pct returns part/total as a percentage rounded to 2 decimals, or 0 when
// total is 0.
func Pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// Filters echoes the parameters a report was computed with.
type Filters struct {
	Range    string `json:"range"`
	Queue    string `json:"queue"`
	Days     int    `json:"days"`
	DeepUsed int    `json:"deep_used"`
}

// Totals are the whole-window counters and per-match averages.
type Totals struct {
	Matches         int     `json:"matches"`
	Wins            int     `json:"wins"`
	Winrate         float64 `json:"winrate"`
	PlaytimeHours   float64 `json:"playtime_hours"`
	TotalHeroDamage int64   `json:"total_hero_damage"`
	AvgHeroDamage   float64 `json:"avg_hero_damage"`
	TotalTowerDmg   int64   `json:"total_tower_damage"`
	AvgGPM          float64 `json:"avg_gpm"`
	AvgXPM          float64 `json:"avg_xpm"`
	AvgLastHits     float64 `json:"avg_last_hits"`
	AvgDenies       float64 `json:"avg_denies"`
}

// SideStats is a matches/wins/winrate triple used for side, solo and party
// splits.
type SideStats struct {
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`
}

// Sides splits results by the side the player queued onto.
type Sides struct {
	Radiant SideStats `json:"radiant"`
	Dire    SideStats `json:"dire"`
}

// Streaks are the longest consecutive runs in time order.
type Streaks struct {
	LongestWin  int `json:"longest_win"`
	LongestLoss int `json:"longest_loss"`
}

// RecordMatch references the single match holding a per-stat record.
type RecordMatch struct {
	MatchID   int64  `json:"match_id"`
	Value     int    `json:"value"`
	HeroID    int    `json:"hero_id"`
	HeroName  string `json:"hero_name"`
	StartTime int64  `json:"start_time"`
}

// Records holds the best single-match values seen in the window. Each slot
// is nil when the window is empty.
type Records struct {
	MostKills   *RecordMatch `json:"most_kills"`
	MostDeaths  *RecordMatch `json:"most_deaths"`
	MostAssists *RecordMatch `json:"most_assists"`
	BestGPM     *RecordMatch `json:"best_gpm"`
	BestXPM     *RecordMatch `json:"best_xpm"`
}

// HeroStats is the per-hero rollup for a top-heroes entry.
type HeroStats struct {
	HeroID  int     `json:"hero_id"`
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`
	AvgK    float64 `json:"avg_k"`
	AvgD    float64 `json:"avg_d"`
	AvgA    float64 `json:"avg_a"`
	KDA     float64 `json:"kda"`
}

// Heroes is the hero section: the three most played plus pool diversity.
type Heroes struct {
	Top3      []HeroStats `json:"top3"`
	Diversity int         `json:"diversity"`
}

// LaneStats is the per-lane rollup.
type LaneStats struct {
	Lane    string  `json:"lane"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`
}

// HistogramBin is one fixed-width bucket of a stat histogram.
type HistogramBin struct {
	Bucket int `json:"bucket"`
	Count  int `json:"count"`
}

// Histograms carries the GPM and XPM value distributions.
type Histograms struct {
	GPM  []HistogramBin `json:"gpm"`
	XPM  []HistogramBin `json:"xpm"`
	Step int            `json:"step"`
}

// DeepMeta counts what the enrichment pass attempted and achieved.
type DeepMeta struct {
	Attempted      int `json:"attempted"`
	WithDetails    int `json:"with_details"`
	ParseRequested int `json:"parse_requested"`
}

// WardTotals are summed ward placements and kills.
type WardTotals struct {
	ObsPlaced int `json:"obs_placed"`
	SenPlaced int `json:"sen_placed"`
	ObsKilled int `json:"obs_killed"`
	SenKilled int `json:"sen_killed"`
}

// WardAverages are per-game ward rates over matches that had details.
type WardAverages struct {
	ObsPlaced float64 `json:"obs_placed"`
	SenPlaced float64 `json:"sen_placed"`
	ObsKilled float64 `json:"obs_killed"`
	SenKilled float64 `json:"sen_killed"`
}

// Wards is the ward section of the deep stats.
type Wards struct {
	WardTotals
	PerGame WardAverages `json:"per_game"`
}

// Purchases counts vision-related consumable buys across enriched matches.
type Purchases struct {
	Smoke int `json:"smoke"`
	Dust  int `json:"dust"`
	Obs   int `json:"obs"`
	Sen   int `json:"sen"`
}

// FarmProfile is the early/mid/late gold-per-minute breakdown averaged
// over matches that supplied a usable net-worth series.
type FarmProfile struct {
	EarlyGPM    float64 `json:"early_gpm"`
	MidGPM      float64 `json:"mid_gpm"`
	LateGPM     float64 `json:"late_gpm"`
	MatchesUsed int     `json:"matches_used"`
}

// Deep is everything derived from per-match detail enrichment.
type Deep struct {
	Meta        DeepMeta    `json:"meta"`
	Wards       Wards       `json:"wards"`
	Healing     float64     `json:"healing"`
	Stuns       float64     `json:"stuns"`
	Purchases   Purchases   `json:"purchases"`
	FarmProfile FarmProfile `json:"farm_profile"`
}

// SoloVsParty splits results by whether the player queued alone.
type SoloVsParty struct {
	Solo  SideStats `json:"solo"`
	Party SideStats `json:"party"`
}

// Summary is the full report for one player over one window.
type Summary struct {
	Filters     Filters     `json:"filters"`
	Warnings    []string    `json:"warnings"`
	Totals      Totals      `json:"totals"`
	Sides       Sides       `json:"sides"`
	Streaks     Streaks     `json:"streaks"`
	Records     Records     `json:"records"`
	Heroes      Heroes      `json:"heroes"`
	Lanes       []LaneStats `json:"lanes"`
	Histograms  Histograms  `json:"histograms"`
	Deep        Deep        `json:"deep"`
	SoloVsParty SoloVsParty `json:"solo_vs_party"`
}
