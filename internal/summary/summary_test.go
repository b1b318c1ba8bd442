package summary

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/window"
)

// fakeSource is a canned upstream. Call counters are atomic so cache
// behavior can be asserted.
type fakeSource struct {
	heroes     map[int]string
	heroesErr  error
	matches    []opendota.PlayerMatch
	matchesErr error
	details    map[int64]*opendota.MatchDetail

	heroCalls   atomic.Int32
	matchCalls  atomic.Int32
	detailCalls atomic.Int32
}

func (f *fakeSource) Heroes(context.Context) (map[int]string, error) {
	f.heroCalls.Add(1)
	return f.heroes, f.heroesErr
}

func (f *fakeSource) PlayerMatches(_ context.Context, _ int64, _ opendota.MatchesOptions) ([]opendota.PlayerMatch, error) {
	f.matchCalls.Add(1)
	return f.matches, f.matchesErr
}

func (f *fakeSource) MatchDetail(_ context.Context, matchID int64) (*opendota.MatchDetail, error) {
	f.detailCalls.Add(1)
	if d, ok := f.details[matchID]; ok {
		return d, nil
	}
	return &opendota.MatchDetail{MatchID: matchID}, nil
}

func (f *fakeSource) RequestParse(context.Context, int64) error { return nil }

func mkMatches(now time.Time, n int) []opendota.PlayerMatch {
	rows := make([]opendota.PlayerMatch, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, opendota.PlayerMatch{
			MatchID:    int64(i + 1),
			StartTime:  now.Unix() - int64((n-i)*3600),
			RadiantWin: true,
			HeroID:     1,
		})
	}
	return rows
}

func TestBuild_EndToEnd(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	src := &fakeSource{
		heroes:  map[int]string{1: "Anti-Mage"},
		matches: mkMatches(now, 10),
	}
	svc := NewWithClock(src, func() time.Time { return now })

	sum, err := svc.Build(context.Background(), Params{
		AccountID: 42,
		Range:     window.RangeLastMonth,
		Queue:     window.QueueAll,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Totals.Matches != 10 || sum.Totals.Wins != 10 {
		t.Fatalf("totals = %+v", sum.Totals)
	}
	if sum.Filters.Range != "last_month" || sum.Filters.Days != 30 {
		t.Fatalf("filters = %+v", sum.Filters)
	}
	if sum.Heroes.Top3[0].Name != "Anti-Mage" {
		t.Fatalf("hero name = %q", sum.Heroes.Top3[0].Name)
	}
	if len(sum.Warnings) != 0 {
		t.Fatalf("warnings = %v", sum.Warnings)
	}
}

func TestBuild_RejectsUnknownKeys(t *testing.T) {
	svc := New(&fakeSource{})
	if _, err := svc.Build(context.Background(), Params{Range: "forever", Queue: window.QueueAll}); err == nil {
		t.Fatal("unknown range accepted")
	}
	if _, err := svc.Build(context.Background(), Params{Range: window.RangeLastYear, Queue: "captains"}); err == nil {
		t.Fatal("unknown queue accepted")
	}
}

func TestBuild_MatchListFailurePropagates(t *testing.T) {
	src := &fakeSource{matchesErr: errors.New("upstream down")}
	svc := New(src)
	_, err := svc.Build(context.Background(), Params{
		AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll,
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuild_HeroFailureDegradesToWarning(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	src := &fakeSource{
		heroesErr: errors.New("503"),
		matches:   mkMatches(now, 3),
	}
	svc := NewWithClock(src, func() time.Time { return now })

	sum, err := svc.Build(context.Background(), Params{
		AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll, DeepLimit: -1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Warnings) != 1 {
		t.Fatalf("warnings = %v", sum.Warnings)
	}
	if sum.Heroes.Top3[0].Name != "Hero 1" {
		t.Fatalf("fallback name = %q", sum.Heroes.Top3[0].Name)
	}
}

func TestBuild_CachedAcrossCalls(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	src := &fakeSource{
		heroes:  map[int]string{1: "Anti-Mage"},
		matches: mkMatches(now, 2),
	}
	svc := NewWithClock(src, func() time.Time { return now })
	p := Params{AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll, DeepLimit: -1}

	for i := 0; i < 3; i++ {
		if _, err := svc.Build(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
	if src.heroCalls.Load() != 1 || src.matchCalls.Load() != 1 {
		t.Fatalf("upstream hit %d/%d times, want 1/1", src.heroCalls.Load(), src.matchCalls.Load())
	}

	// A different queue misses the match cache but not the hero cache.
	p.Queue = window.QueueTurbo
	if _, err := svc.Build(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if src.heroCalls.Load() != 1 || src.matchCalls.Load() != 2 {
		t.Fatalf("after queue change: %d/%d, want 1/2", src.heroCalls.Load(), src.matchCalls.Load())
	}
}

func TestBuild_DeepTargetsAreMostRecent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	src := &fakeSource{matches: mkMatches(now, 30)}
	svc := NewWithClock(src, func() time.Time { return now })

	sum, err := svc.Build(context.Background(), Params{
		AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll,
		DeepLimit: 5, Concurrency: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Filters.DeepUsed != 5 {
		t.Fatalf("deep_used = %d, want 5", sum.Filters.DeepUsed)
	}
	if sum.Deep.Meta.Attempted != 5 {
		t.Fatalf("attempted = %d, want 5", sum.Deep.Meta.Attempted)
	}
	if got := src.detailCalls.Load(); got != 5 {
		t.Fatalf("detail fetches = %d, want 5", got)
	}
}

func TestBuild_DeepLimitDefaultsAndBounds(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	// Zero means the default limit.
	src := &fakeSource{matches: mkMatches(now, 50)}
	svc := NewWithClock(src, func() time.Time { return now })
	sum, err := svc.Build(context.Background(), Params{
		AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll, Concurrency: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Filters.DeepUsed != DefaultDeepLimit {
		t.Fatalf("deep_used = %d, want default %d", sum.Filters.DeepUsed, DefaultDeepLimit)
	}

	// Negative disables enrichment entirely.
	src = &fakeSource{matches: mkMatches(now, 50)}
	svc = NewWithClock(src, func() time.Time { return now })
	sum, err = svc.Build(context.Background(), Params{
		AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll, DeepLimit: -1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Filters.DeepUsed != 0 || src.detailCalls.Load() != 0 {
		t.Fatalf("disabled enrichment still ran: used=%d calls=%d",
			sum.Filters.DeepUsed, src.detailCalls.Load())
	}
}

func TestBuild_WindowCutsStaleRows(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rows := mkMatches(now, 3)
	rows = append(rows, opendota.PlayerMatch{
		MatchID:   999,
		StartTime: now.Unix() - 40*24*3600, // outside last_month
	})
	src := &fakeSource{matches: rows}
	svc := NewWithClock(src, func() time.Time { return now })

	sum, err := svc.Build(context.Background(), Params{
		AccountID: 42, Range: window.RangeLastMonth, Queue: window.QueueAll, DeepLimit: -1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Totals.Matches != 3 {
		t.Fatalf("matches = %d, want 3 after window cut", sum.Totals.Matches)
	}
}
