// Package summary computes the full analytical report for one player:
// cached fetch, exact time windowing, aggregation, and deep enrichment.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/cache"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/window"
)

// DefaultDeepLimit bounds how many recent matches get detail enrichment
// when the caller does not say otherwise. Tuned for keyless OpenDota use.
const DefaultDeepLimit = 20

// MaxDeepLimit is the hard ceiling on enrichment targets per report.
const MaxDeepLimit = 300

const (
	heroesCacheKey = "heroes:v1"
	heroesCacheTTL = time.Hour
	matchesTTL     = 5 * time.Minute
	matchListLimit = 5000
)

// Source is the upstream surface a report computation needs.
// *opendota.Client satisfies it.
type Source interface {
	aggregator.MatchSource
	Heroes(ctx context.Context) (map[int]string, error)
	PlayerMatches(ctx context.Context, accountID int64, opts opendota.MatchesOptions) ([]opendota.PlayerMatch, error)
}

// Params select what one report covers.
type Params struct {
	AccountID    int64
	Range        window.RangeKey
	Queue        window.QueueKey
	DeepLimit    int // -1 disables enrichment; 0 means DefaultDeepLimit
	RequestParse bool
	Concurrency  int // worker-pool size for enrichment; 0 = default
}

// Service builds reports. Construct one per process and share it: the
// cache and the client's rate budget are meant to span all callers.
type Service struct {
	src   Source
	cache *cache.Cache
	now   func() time.Time
}

// New returns a Service over the given upstream source.
func New(src Source) *Service {
	return &Service{src: src, cache: cache.New(), now: time.Now}
}

// NewWithClock returns a Service that reads time from now (tests).
func NewWithClock(src Source, now func() time.Time) *Service {
	s := New(src)
	s.now = now
	return s
}

// Build computes the report for p. Only the base match-list fetch can fail
// the computation; everything downstream degrades into warnings.
func (s *Service) Build(ctx context.Context, p Params) (*model.Summary, error) {
	if !p.Range.Valid() {
		return nil, fmt.Errorf("unknown range %q", p.Range)
	}
	if !p.Queue.Valid() {
		return nil, fmt.Errorf("unknown queue %q", p.Queue)
	}
	deepLimit := p.DeepLimit
	switch {
	case deepLimit == 0:
		deepLimit = DefaultDeepLimit
	case deepLimit < 0:
		deepLimit = 0
	case deepLimit > MaxDeepLimit:
		deepLimit = MaxDeepLimit
	}

	days := p.Range.Days()
	start, end := window.UnixBounds(days, s.now())
	gameMode, lobbyType := p.Queue.Filters()

	var warnings []string

	heroNames, err := cache.Get(s.cache, heroesCacheKey, heroesCacheTTL, func() (map[int]string, error) {
		return s.src.Heroes(ctx)
	})
	if err != nil {
		// Names only annotate the report; compute it without them.
		heroNames = nil
		warnings = append(warnings, "Hero names are unavailable; showing numeric hero ids.")
	}

	matchesKey := fmt.Sprintf("m:%d:%d:%s:%s",
		p.AccountID, days, filterKey(gameMode), filterKey(lobbyType))
	baseMatches, err := cache.Get(s.cache, matchesKey, matchesTTL, func() ([]opendota.PlayerMatch, error) {
		return s.src.PlayerMatches(ctx, p.AccountID, opendota.MatchesOptions{
			Limit:     matchListLimit,
			DateDays:  days,
			GameMode:  gameMode,
			LobbyType: lobbyType,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("fetch match list: %w", err)
	}

	sorted := window.Filter(baseMatches, start, end)
	sum := aggregator.Aggregate(sorted, heroNames)

	var targets []opendota.PlayerMatch
	if deepLimit > 0 && len(sorted) > 0 {
		from := len(sorted) - deepLimit
		if from < 0 {
			from = 0
		}
		targets = sorted[from:]
	}

	deep, deepWarnings := aggregator.EnrichDeep(ctx, s.src, targets, p.AccountID, aggregator.DeepOptions{
		Concurrency:           p.Concurrency,
		RequestParseIfMissing: p.RequestParse,
	})
	sum.Deep = deep
	sum.Warnings = append(sum.Warnings, warnings...)
	sum.Warnings = append(sum.Warnings, deepWarnings...)

	sum.Filters = model.Filters{
		Range:    string(p.Range),
		Queue:    string(p.Queue),
		Days:     days,
		DeepUsed: len(targets),
	}
	return sum, nil
}

func filterKey(v *int) string {
	if v == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *v)
}
