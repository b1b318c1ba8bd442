// Package window narrows a raw match list to an exact time window.
// The upstream day filter is day-granular; this stage cuts to the second.
package window

import (
	"sort"
	"time"

	"github.com/pable/go-dota-metrics/internal/opendota"
)

// RangeKey selects how far back a report reaches.
type RangeKey string

const (
	RangeLastMonth   RangeKey = "last_month"
	RangeLast6Months RangeKey = "last_6_months"
	RangeLastYear    RangeKey = "last_year"
)

// Valid reports whether r is a known range key.
func (r RangeKey) Valid() bool {
	switch r {
	case RangeLastMonth, RangeLast6Months, RangeLastYear:
		return true
	}
	return false
}

// Days returns the window length in days.
func (r RangeKey) Days() int {
	switch r {
	case RangeLastMonth:
		return 30
	case RangeLast6Months:
		return 180
	default:
		return 365
	}
}

// UnixBounds returns the inclusive [start, end] unix-second bounds for a
// window of the given length ending at now.
func UnixBounds(days int, now time.Time) (start, end int64) {
	end = now.Unix()
	start = end - int64(days)*24*3600
	return start, end
}

// QueueKey selects a queue-type filter.
type QueueKey string

const (
	QueueAll    QueueKey = "all"
	QueueTurbo  QueueKey = "turbo"
	QueueRanked QueueKey = "ranked"
	QueueNormal QueueKey = "normal"
)

// Valid reports whether q is a known queue key.
func (q QueueKey) Valid() bool {
	switch q {
	case QueueAll, QueueTurbo, QueueRanked, QueueNormal:
		return true
	}
	return false
}

// Filters returns the upstream game-mode / lobby-type filter values for q.
// A nil pointer means no filter on that axis.
func (q QueueKey) Filters() (gameMode, lobbyType *int) {
	switch q {
	case QueueTurbo:
		return intPtr(opendota.GameModeTurbo), nil
	case QueueRanked:
		return nil, intPtr(opendota.LobbyTypeRanked)
	case QueueNormal:
		return nil, intPtr(opendota.LobbyTypeNormal)
	default:
		return nil, nil
	}
}

func intPtr(v int) *int { return &v }

// Filter keeps rows with start ≤ StartTime ≤ end and returns them sorted
// ascending by start time. Rows with equal timestamps preserve their
// original relative order. The input slice is not modified.
func Filter(rows []opendota.PlayerMatch, start, end int64) []opendota.PlayerMatch {
	out := make([]opendota.PlayerMatch, 0, len(rows))
	for _, m := range rows {
		if m.StartTime >= start && m.StartTime <= end {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}
