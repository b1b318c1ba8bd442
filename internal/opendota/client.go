// Package opendota provides a rate-limited client for the OpenDota API.
//
// OpenDota's keyless tier allows roughly one request per second, so the
// client paces every outbound call behind a shared minimum inter-request
// interval and retries transient failures with exponential backoff.
package opendota

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.opendota.com/api"

const (
	// maxAttempts bounds the total tries per logical request. The 5th
	// failure's error is returned to the caller unmasked.
	maxAttempts = 5

	defaultMinInterval = 1 * time.Second
	defaultBackoffBase = 1 * time.Second
	defaultBackoffCap  = 8 * time.Second
)

// APIError is a non-2xx response from OpenDota.
type APIError struct {
	StatusCode int
	Path       string
	Snippet    string
}

func (e *APIError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("opendota: GET %s: HTTP %d: %s", e.Path, e.StatusCode, e.Snippet)
	}
	return fmt.Sprintf("opendota: GET %s: HTTP %d", e.Path, e.StatusCode)
}

// IsRateLimited reports whether the upstream answered 429.
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// retryable reports whether the status is worth another attempt.
// 429 and all 5xx are transient; every other 4xx is the caller's problem.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Client is a paced, retrying OpenDota API client. All calls made through
// one Client share a single rate budget, no matter how many report
// computations run concurrently. Construct one per process and inject it.
type Client struct {
	baseURL    string
	httpClient *http.Client

	minInterval time.Duration
	backoffBase time.Duration
	backoffCap  time.Duration

	// pacer state: next is the earliest instant the next request may go
	// out. Guarded by mu; each caller reserves a slot and sleeps outside
	// the lock.
	mu   sync.Mutex
	next time.Time

	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests).
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// WithMinInterval overrides the pacing interval.
func WithMinInterval(d time.Duration) Option { return func(c *Client) { c.minInterval = d } }

// WithBackoff overrides the retry backoff base and cap.
func WithBackoff(base, cap time.Duration) Option {
	return func(c *Client) { c.backoffBase = base; c.backoffCap = cap }
}

// NewClient returns a Client paced at one request per second.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		minInterval: defaultMinInterval,
		backoffBase: defaultBackoffBase,
		backoffCap:  defaultBackoffCap,
		sleep:       sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// acquireSlot reserves the next send slot and blocks until it arrives.
// Every HTTP attempt burns one slot, successful or not.
func (c *Client) acquireSlot(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	var wait time.Duration
	if c.next.After(now) {
		wait = c.next.Sub(now)
		c.next = c.next.Add(c.minInterval)
	} else {
		c.next = now.Add(c.minInterval)
	}
	c.mu.Unlock()
	return c.sleep(ctx, wait)
}

// backoffDelay returns the wait before the next attempt. attempt is
// 1-based (the attempt that just failed). A positive Retry-After hint
// from the server wins over the exponential schedule.
func (c *Client) backoffDelay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	d := c.backoffBase << (attempt - 1)
	if d > c.backoffCap {
		d = c.backoffCap
	}
	return d
}

// get performs a paced GET with retries and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.acquireSlot(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// No response at all: transient, retry on the backoff schedule.
			lastErr = fmt.Errorf("%s %s: %w", method, path, err)
			if attempt < maxAttempts {
				if serr := c.sleep(ctx, c.backoffDelay(attempt, 0)); serr != nil {
					return serr
				}
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				return fmt.Errorf("%s %s: read body: %w", method, path, readErr)
			}
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%s %s: decode response: %w", method, path, err)
			}
			return nil
		}

		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path, Snippet: snippet}

		if !retryable(resp.StatusCode) {
			return apiErr
		}
		lastErr = apiErr
		if attempt < maxAttempts {
			if serr := c.sleep(ctx, c.backoffDelay(attempt, parseRetryAfter(resp))); serr != nil {
				return serr
			}
		}
	}
	return lastErr
}

// parseRetryAfter reads a delay-seconds Retry-After header. Malformed or
// absent values return 0, which falls back to the exponential schedule.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Heroes returns the hero id → localized display name table.
func (c *Client) Heroes(ctx context.Context) (map[int]string, error) {
	var heroes []Hero
	if err := c.get(ctx, "/heroes", nil, &heroes); err != nil {
		return nil, err
	}
	names := make(map[int]string, len(heroes))
	for _, h := range heroes {
		names[h.ID] = h.LocalizedName
	}
	return names, nil
}

// MatchesOptions narrows a PlayerMatches request. Nil pointers mean "no
// filter"; lobby_type 0 (normal) is a meaningful filter value, so the
// queue filters cannot use zero as a sentinel. The date filter is
// day-granular on the server side; callers cut to exact timestamps
// afterwards.
type MatchesOptions struct {
	Limit     int
	DateDays  int
	GameMode  *int
	LobbyType *int
}

// projectedFields is the column projection requested for match lists.
// Keep in sync with the PlayerMatch struct.
var projectedFields = []string{
	"match_id", "start_time", "duration", "player_slot", "radiant_win",
	"hero_id", "kills", "deaths", "assists", "gold_per_min", "xp_per_min",
	"hero_damage", "tower_damage", "last_hits", "denies", "lane_role",
	"party_size", "game_mode", "lobby_type",
}

// PlayerMatches lists matches for an account with the standard projection.
func (c *Client) PlayerMatches(ctx context.Context, accountID int64, opts MatchesOptions) ([]PlayerMatch, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	q.Set("significant", "0")
	if opts.DateDays > 0 {
		q.Set("date", strconv.Itoa(opts.DateDays))
	}
	if opts.GameMode != nil {
		q.Set("game_mode", strconv.Itoa(*opts.GameMode))
	}
	if opts.LobbyType != nil {
		q.Set("lobby_type", strconv.Itoa(*opts.LobbyType))
	}
	for _, col := range projectedFields {
		q.Add("project", col)
	}

	var rows []PlayerMatch
	if err := c.get(ctx, fmt.Sprintf("/players/%d/matches", accountID), q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MatchDetail fetches the full per-player breakdown for a match.
func (c *Client) MatchDetail(ctx context.Context, matchID int64) (*MatchDetail, error) {
	var d MatchDetail
	if err := c.get(ctx, fmt.Sprintf("/matches/%d", matchID), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// RequestParse queues offline replay parsing for a match. The job result
// is not awaited; callers treat this as fire-and-forget.
func (c *Client) RequestParse(ctx context.Context, matchID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/request/%d", matchID), nil, nil)
}

// Search returns player candidates whose persona name resembles q.
func (c *Client) Search(ctx context.Context, q string) ([]SearchResult, error) {
	params := url.Values{"q": {q}}
	var results []SearchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}
