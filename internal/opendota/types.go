package opendota

// Game-mode and lobby-type constants used for queue filtering.
// Values follow OpenDota's dotaconstants tables.
const (
	GameModeTurbo   = 23
	LobbyTypeNormal = 0
	LobbyTypeRanked = 7
)

// laneNames maps OpenDota lane_role codes to display names. Codes outside
// the table render as "unknown".
var laneNames = map[int]string{
	1: "safe",
	2: "mid",
	3: "off",
	4: "jungle",
	5: "roam",
}

// LaneName returns the display name for a lane_role code.
func LaneName(code int) string {
	if n, ok := laneNames[code]; ok {
		return n
	}
	return "unknown"
}

// Hero is one row of the /heroes table.
type Hero struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LocalizedName string `json:"localized_name"`
}

// PlayerMatch is one row of /players/{account_id}/matches with the
// projection requested by MatchesOptions. Missing numeric fields decode
// to zero; aggregation treats zero as absent.
type PlayerMatch struct {
	MatchID     int64 `json:"match_id"`
	StartTime   int64 `json:"start_time"`
	Duration    int   `json:"duration"`
	PlayerSlot  int   `json:"player_slot"`
	RadiantWin  bool  `json:"radiant_win"`
	HeroID      int   `json:"hero_id"`
	Kills       int   `json:"kills"`
	Deaths      int   `json:"deaths"`
	Assists     int   `json:"assists"`
	GoldPerMin  int   `json:"gold_per_min"`
	XPPerMin    int   `json:"xp_per_min"`
	HeroDamage  int   `json:"hero_damage"`
	TowerDamage int   `json:"tower_damage"`
	LastHits    int   `json:"last_hits"`
	Denies      int   `json:"denies"`
	LaneRole    int   `json:"lane_role"`
	PartySize   int   `json:"party_size"`
	GameMode    int   `json:"game_mode"`
	LobbyType   int   `json:"lobby_type"`
}

// MatchDetail is the full per-player breakdown from /matches/{match_id}.
// Only the fields the enrichment pass reads are decoded.
type MatchDetail struct {
	MatchID int64         `json:"match_id"`
	Players []MatchPlayer `json:"players"`
}

// MatchPlayer is one player row inside a MatchDetail. The parsed-data
// fields are pointers: OpenDota omits them entirely for unparsed matches,
// and "absent" must stay distinguishable from zero.
type MatchPlayer struct {
	AccountID   int64           `json:"account_id"`
	PlayerSlot  int             `json:"player_slot"`
	HeroID      int             `json:"hero_id"`
	ObsPlaced   *int            `json:"obs_placed"`
	SenPlaced   *int            `json:"sen_placed"`
	ObsKilled   *int            `json:"observer_kills"`
	SenKilled   *int            `json:"sentry_kills"`
	Healing     *float64        `json:"healing"`
	HeroHealing *float64        `json:"hero_healing"`
	Stuns       *float64        `json:"stuns"`
	GoldT       []int           `json:"gold_t"`
	PurchaseLog []PurchaseEvent `json:"purchase_log"`
}

// PurchaseEvent is one entry of a player's purchase_log.
type PurchaseEvent struct {
	Time int    `json:"time"`
	Key  string `json:"key"`
}

// HasParsedData reports whether the row carries at least one field that
// only exists after OpenDota has parsed the replay.
func (p *MatchPlayer) HasParsedData() bool {
	return p.ObsPlaced != nil || p.SenPlaced != nil ||
		p.ObsKilled != nil || p.SenKilled != nil ||
		p.Healing != nil || p.HeroHealing != nil || p.Stuns != nil ||
		p.GoldT != nil || p.PurchaseLog != nil
}

// SearchResult is one candidate from /search.
type SearchResult struct {
	AccountID     int64   `json:"account_id"`
	PersonaName   string  `json:"personaname"`
	Similarity    float64 `json:"similarity"`
	AvatarFull    string  `json:"avatarfull"`
	LastMatchTime string  `json:"last_match_time"`
}
