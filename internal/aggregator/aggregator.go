// Package aggregator turns a time-sorted match window into the report's
// aggregate sections, and enriches a recent subset with per-match detail.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/steamid"
)

// HistogramStep is the fixed bucket width for the GPM/XPM histograms.
const HistogramStep = 100

// topHeroCount is how many heroes the top list carries.
const topHeroCount = 3

// won reports whether the player won match m.
func won(m *opendota.PlayerMatch) bool {
	return m.RadiantWin == steamid.IsRadiant(m.PlayerSlot)
}

// Aggregate computes every projection-level section of the report in one
// forward pass. rows MUST be sorted ascending by start time — streaks and
// record tie-breaks depend on it. heroNames annotates hero ids with
// display names; unknown ids render as "Hero <id>".
//
// This stage performs no I/O and cannot fail: missing numeric fields have
// already decoded to zero.
func Aggregate(rows []opendota.PlayerMatch, heroNames map[int]string) *model.Summary {
	s := &model.Summary{
		Warnings:   []string{},
		Histograms: model.Histograms{Step: HistogramStep},
	}

	// Running sums divided by match count at the end.
	var sumGPM, sumXPM, sumLastHits, sumDenies int64
	var playtimeSeconds int64

	// Streak counters.
	var curWin, bestWin, curLose, bestLose int

	// Per-record best-seen slots. Strict > keeps the first match in time
	// order on ties.
	type record struct {
		matchID   int64
		value     int
		heroID    int
		startTime int64
	}
	var maxKills, maxDeaths, maxAssists, maxGPM, maxXPM *record
	better := func(cur *record, value int) bool {
		return cur == nil || value > cur.value
	}

	heroAgg := make(map[int]*heroAccum)
	laneAgg := make(map[string]*laneAccum)

	gpmBins := make(map[int]int)
	xpmBins := make(map[int]int)
	addBin := func(bins map[int]int, value int) {
		bucket := value / HistogramStep * HistogramStep
		bins[bucket]++
	}

	var soloG, soloW, partyG, partyW int

	for i := range rows {
		m := &rows[i]
		w := won(m)
		radiant := steamid.IsRadiant(m.PlayerSlot)

		s.Totals.Matches++
		playtimeSeconds += int64(m.Duration)
		s.Totals.TotalHeroDamage += int64(m.HeroDamage)
		s.Totals.TotalTowerDmg += int64(m.TowerDamage)

		if w {
			s.Totals.Wins++
			curWin++
			if curWin > bestWin {
				bestWin = curWin
			}
			curLose = 0
		} else {
			curLose++
			if curLose > bestLose {
				bestLose = curLose
			}
			curWin = 0
		}

		if radiant {
			s.Sides.Radiant.Matches++
			if w {
				s.Sides.Radiant.Wins++
			}
		} else {
			s.Sides.Dire.Matches++
			if w {
				s.Sides.Dire.Wins++
			}
		}

		if better(maxKills, m.Kills) {
			maxKills = &record{m.MatchID, m.Kills, m.HeroID, m.StartTime}
		}
		if better(maxDeaths, m.Deaths) {
			maxDeaths = &record{m.MatchID, m.Deaths, m.HeroID, m.StartTime}
		}
		if better(maxAssists, m.Assists) {
			maxAssists = &record{m.MatchID, m.Assists, m.HeroID, m.StartTime}
		}
		if better(maxGPM, m.GoldPerMin) {
			maxGPM = &record{m.MatchID, m.GoldPerMin, m.HeroID, m.StartTime}
		}
		if better(maxXPM, m.XPPerMin) {
			maxXPM = &record{m.MatchID, m.XPPerMin, m.HeroID, m.StartTime}
		}

		sumGPM += int64(m.GoldPerMin)
		sumXPM += int64(m.XPPerMin)
		sumLastHits += int64(m.LastHits)
		sumDenies += int64(m.Denies)

		addBin(gpmBins, m.GoldPerMin)
		addBin(xpmBins, m.XPPerMin)

		h := heroAgg[m.HeroID]
		if h == nil {
			h = &heroAccum{}
			heroAgg[m.HeroID] = h
		}
		h.games++
		if w {
			h.wins++
		}
		h.kills += m.Kills
		h.deaths += m.Deaths
		h.assists += m.Assists

		lane := opendota.LaneName(m.LaneRole)
		la := laneAgg[lane]
		if la == nil {
			la = &laneAccum{}
			laneAgg[lane] = la
		}
		la.games++
		if w {
			la.wins++
		}

		if m.PartySize > 1 {
			partyG++
			if w {
				partyW++
			}
		} else {
			soloG++
			if w {
				soloW++
			}
		}
	}

	n := s.Totals.Matches
	s.Totals.Winrate = model.Pct(s.Totals.Wins, n)
	s.Totals.PlaytimeHours = model.Round2(float64(playtimeSeconds) / 3600)
	if n > 0 {
		s.Totals.AvgHeroDamage = model.Round2(float64(s.Totals.TotalHeroDamage) / float64(n))
		s.Totals.AvgGPM = model.Round2(float64(sumGPM) / float64(n))
		s.Totals.AvgXPM = model.Round2(float64(sumXPM) / float64(n))
		s.Totals.AvgLastHits = model.Round2(float64(sumLastHits) / float64(n))
		s.Totals.AvgDenies = model.Round2(float64(sumDenies) / float64(n))
	}

	s.Sides.Radiant.Winrate = model.Pct(s.Sides.Radiant.Wins, s.Sides.Radiant.Matches)
	s.Sides.Dire.Winrate = model.Pct(s.Sides.Dire.Wins, s.Sides.Dire.Matches)

	s.Streaks = model.Streaks{LongestWin: bestWin, LongestLoss: bestLose}

	toRecord := func(r *record) *model.RecordMatch {
		if r == nil {
			return nil
		}
		return &model.RecordMatch{
			MatchID:   r.matchID,
			Value:     r.value,
			HeroID:    r.heroID,
			HeroName:  heroName(heroNames, r.heroID),
			StartTime: r.startTime,
		}
	}
	s.Records = model.Records{
		MostKills:   toRecord(maxKills),
		MostDeaths:  toRecord(maxDeaths),
		MostAssists: toRecord(maxAssists),
		BestGPM:     toRecord(maxGPM),
		BestXPM:     toRecord(maxXPM),
	}

	s.Heroes = topHeroes(heroAgg, heroNames)
	s.Lanes = laneTable(laneAgg)
	s.Histograms.GPM = binList(gpmBins)
	s.Histograms.XPM = binList(xpmBins)

	s.SoloVsParty = model.SoloVsParty{
		Solo:  model.SideStats{Matches: soloG, Wins: soloW, Winrate: model.Pct(soloW, soloG)},
		Party: model.SideStats{Matches: partyG, Wins: partyW, Winrate: model.Pct(partyW, partyG)},
	}

	return s
}

func heroName(names map[int]string, id int) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("Hero %d", id)
}

type heroAccum struct {
	games, wins, kills, deaths, assists int
}

type laneAccum struct {
	games, wins int
}

// topHeroes ranks heroes by games played. Ties break on hero id ascending
// so the ranking is deterministic for a fixed input.
func topHeroes(agg map[int]*heroAccum, names map[int]string) model.Heroes {
	ids := make([]int, 0, len(agg))
	for id := range agg {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := agg[ids[i]], agg[ids[j]]
		if a.games != b.games {
			return a.games > b.games
		}
		return ids[i] < ids[j]
	})

	top := make([]model.HeroStats, 0, topHeroCount)
	for _, id := range ids {
		if len(top) == topHeroCount {
			break
		}
		h := agg[id]
		games := h.games
		if games < 1 {
			games = 1
		}
		deaths := h.deaths
		if deaths < 1 {
			deaths = 1
		}
		top = append(top, model.HeroStats{
			HeroID:  id,
			Name:    heroName(names, id),
			Matches: h.games,
			Wins:    h.wins,
			Winrate: model.Pct(h.wins, h.games),
			AvgK:    model.Round2(float64(h.kills) / float64(games)),
			AvgD:    model.Round2(float64(h.deaths) / float64(games)),
			AvgA:    model.Round2(float64(h.assists) / float64(games)),
			KDA:     model.Round2(float64(h.kills+h.assists) / float64(deaths)),
		})
	}
	return model.Heroes{Top3: top, Diversity: len(agg)}
}

// laneOrder fixes the emission order of the lane table.
var laneOrder = []string{"safe", "mid", "off", "jungle", "roam", "unknown"}

func laneTable(agg map[string]*laneAccum) []model.LaneStats {
	out := make([]model.LaneStats, 0, len(agg))
	for _, lane := range laneOrder {
		la, ok := agg[lane]
		if !ok {
			continue
		}
		out = append(out, model.LaneStats{
			Lane:    lane,
			Matches: la.games,
			Wins:    la.wins,
			Winrate: model.Pct(la.wins, la.games),
		})
	}
	return out
}

func binList(bins map[int]int) []model.HistogramBin {
	out := make([]model.HistogramBin, 0, len(bins))
	for bucket, count := range bins {
		out = append(out, model.HistogramBin{Bucket: bucket, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}
