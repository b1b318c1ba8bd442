package aggregator

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/opendota"
)

// DefaultDeepConcurrency is the worker count for detail fetches. Kept low:
// every fetch competes for the shared upstream rate budget anyway.
const DefaultDeepConcurrency = 2

// rateLimitWarning is the single user-facing caveat emitted when any
// enrichment task was refused by the upstream rate limiter.
const rateLimitWarning = "Some deep stats were skipped due to rate limiting."

// MatchSource is the slice of the upstream client the enrichment pass
// needs. *opendota.Client satisfies it.
type MatchSource interface {
	MatchDetail(ctx context.Context, matchID int64) (*opendota.MatchDetail, error)
	RequestParse(ctx context.Context, matchID int64) error
}

// DeepOptions tunes an enrichment pass.
type DeepOptions struct {
	// Concurrency is the fixed worker-pool size; 0 means
	// DefaultDeepConcurrency.
	Concurrency int
	// RequestParseIfMissing queues a replay-parse job for matches whose
	// detail lacks usable data. Fire and forget: the request's own
	// failure is swallowed.
	RequestParseIfMissing bool
}

// taskStatus classifies one enrichment task's outcome.
type taskStatus int

const (
	taskUseful  taskStatus = iota // detail carried parsed data
	taskSkipped                   // detail fetched but nothing usable
	taskFailed                    // detail fetch errored
)

// taskResult is one task's explicit outcome. Results are reduced after
// every worker finishes, so no counters are shared while workers run.
type taskResult struct {
	matchID        int64
	status         taskStatus
	rateLimited    bool
	parseRequested bool

	wards     model.WardTotals
	healing   float64
	stuns     float64
	purchases model.Purchases
	farm      farmSegments
	hasFarm   bool
}

// EnrichDeep fetches full detail for the given targets through a fixed
// worker pool and reduces the per-task results into the deep section of
// the report. Individual task failures never abort the pass; warnings
// summarize rate-limit-flavored skips.
//
// Targets are whatever recency-limited subset the caller selected; the
// pass treats them as independent work items with no ordering guarantee.
func EnrichDeep(ctx context.Context, src MatchSource, targets []opendota.PlayerMatch, accountID int64, opts DeepOptions) (model.Deep, []string) {
	deep := model.Deep{Meta: model.DeepMeta{Attempted: len(targets)}}
	if len(targets) == 0 {
		return deep, nil
	}

	workers := opts.Concurrency
	if workers <= 0 {
		workers = DefaultDeepConcurrency
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	jobs := make(chan opendota.PlayerMatch)
	results := make(chan taskResult, len(targets))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				results <- enrichOne(ctx, src, m, accountID, opts.RequestParseIfMissing)
			}
		}()
	}

	for _, m := range targets {
		jobs <- m
	}
	close(jobs)
	wg.Wait()
	close(results)

	return reduceDeep(deep, results)
}

// enrichOne processes a single target match.
func enrichOne(ctx context.Context, src MatchSource, m opendota.PlayerMatch, accountID int64, requestParse bool) taskResult {
	res := taskResult{matchID: m.MatchID}

	detail, err := src.MatchDetail(ctx, m.MatchID)
	if err != nil {
		res.status = taskFailed
		var apiErr *opendota.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			res.rateLimited = true
		}
		return res
	}

	var row *opendota.MatchPlayer
	for i := range detail.Players {
		if detail.Players[i].AccountID == accountID {
			row = &detail.Players[i]
			break
		}
	}

	if row == nil || !row.HasParsedData() {
		res.status = taskSkipped
		if requestParse {
			if err := src.RequestParse(ctx, m.MatchID); err == nil {
				res.parseRequested = true
			}
		}
		return res
	}

	res.status = taskUseful
	res.wards = model.WardTotals{
		ObsPlaced: intOrZero(row.ObsPlaced),
		SenPlaced: intOrZero(row.SenPlaced),
		ObsKilled: intOrZero(row.ObsKilled),
		SenKilled: intOrZero(row.SenKilled),
	}
	switch {
	case row.HeroHealing != nil:
		res.healing = *row.HeroHealing
	case row.Healing != nil:
		res.healing = *row.Healing
	}
	if row.Stuns != nil {
		res.stuns = math.Round(*row.Stuns)
	}
	for _, it := range row.PurchaseLog {
		switch it.Key {
		case "smoke_of_deceit":
			res.purchases.Smoke++
		case "dust", "dust_of_appearance":
			res.purchases.Dust++
		case "ward_observer":
			res.purchases.Obs++
		case "ward_sentry":
			res.purchases.Sen++
		}
	}
	if seg, ok := farmProfile(row.GoldT); ok {
		res.farm = seg
		res.hasFarm = true
	}
	return res
}

// reduceDeep folds the drained result channel into the deep section and
// derives warnings. Deterministic: sums are order-independent.
func reduceDeep(deep model.Deep, results <-chan taskResult) (model.Deep, []string) {
	rateLimited := false
	for r := range results {
		switch r.status {
		case taskFailed:
			if r.rateLimited {
				rateLimited = true
			}
			continue
		case taskSkipped:
			if r.parseRequested {
				deep.Meta.ParseRequested++
			}
			continue
		}

		deep.Meta.WithDetails++
		deep.Wards.ObsPlaced += r.wards.ObsPlaced
		deep.Wards.SenPlaced += r.wards.SenPlaced
		deep.Wards.ObsKilled += r.wards.ObsKilled
		deep.Wards.SenKilled += r.wards.SenKilled
		deep.Healing += r.healing
		deep.Stuns += r.stuns
		deep.Purchases.Smoke += r.purchases.Smoke
		deep.Purchases.Dust += r.purchases.Dust
		deep.Purchases.Obs += r.purchases.Obs
		deep.Purchases.Sen += r.purchases.Sen
		if r.hasFarm {
			deep.FarmProfile.EarlyGPM += r.farm.earlyGPM
			deep.FarmProfile.MidGPM += r.farm.midGPM
			deep.FarmProfile.LateGPM += r.farm.lateGPM
			deep.FarmProfile.MatchesUsed++
		}
	}

	// Per-game averages cover only the targets that yielded details, not
	// every attempted target.
	if games := deep.Meta.WithDetails; games > 0 {
		deep.Wards.PerGame = model.WardAverages{
			ObsPlaced: model.Round2(float64(deep.Wards.ObsPlaced) / float64(games)),
			SenPlaced: model.Round2(float64(deep.Wards.SenPlaced) / float64(games)),
			ObsKilled: model.Round2(float64(deep.Wards.ObsKilled) / float64(games)),
			SenKilled: model.Round2(float64(deep.Wards.SenKilled) / float64(games)),
		}
		if used := deep.FarmProfile.MatchesUsed; used > 0 {
			deep.FarmProfile.EarlyGPM = model.Round2(deep.FarmProfile.EarlyGPM / float64(used))
			deep.FarmProfile.MidGPM = model.Round2(deep.FarmProfile.MidGPM / float64(used))
			deep.FarmProfile.LateGPM = model.Round2(deep.FarmProfile.LateGPM / float64(used))
		}
	}

	var warnings []string
	if rateLimited {
		warnings = append(warnings, rateLimitWarning)
	}
	return deep, warnings
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
