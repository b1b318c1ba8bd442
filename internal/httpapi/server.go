// Package httpapi exposes the report service over HTTP. Routing and
// parameter validation live here; all analytics stay in internal/summary.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/steamid"
	"github.com/pable/go-dota-metrics/internal/summary"
	"github.com/pable/go-dota-metrics/internal/window"
)

// Reporter builds player reports. *summary.Service satisfies it.
type Reporter interface {
	Build(ctx context.Context, p summary.Params) (*model.Summary, error)
}

// Searcher finds player candidates by name. *opendota.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, q string) ([]opendota.SearchResult, error)
}

// Server routes report and resolve requests.
type Server struct {
	reports Reporter
	search  Searcher
	router  *mux.Router
}

// New returns a Server with its routes registered.
func New(reports Reporter, search Searcher) *Server {
	s := &Server{reports: reports, search: search}
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/player/{steamid64}/summary-advanced", s.handleSummaryAdvanced).Methods(http.MethodGet)
	r.HandleFunc("/v1/resolve", s.handleResolve).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var b errorBody
	b.Error.Status = status
	b.Error.Message = msg
	writeJSON(w, status, b)
}

// writeUpstreamError forwards the upstream status for API errors so a 429
// or 404 from the match-data service is visible to the caller.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *opendota.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSummaryAdvanced(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["steamid64"]
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || len(raw) != 17 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid steamid64 %q", raw))
		return
	}

	q := r.URL.Query()

	rangeKey := window.RangeKey(q.Get("range"))
	if rangeKey == "" {
		rangeKey = window.RangeLastYear
	}
	if !rangeKey.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid range %q", rangeKey))
		return
	}

	queueKey := window.QueueKey(q.Get("queue"))
	if queueKey == "" {
		queueKey = window.QueueAll
	}
	if !queueKey.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid queue %q", queueKey))
		return
	}

	deepLimit := summary.DefaultDeepLimit
	if v := q.Get("deepLimit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > summary.MaxDeepLimit {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("deepLimit must be 0..%d", summary.MaxDeepLimit))
			return
		}
		deepLimit = n
	}
	if deepLimit == 0 {
		deepLimit = -1 // explicit 0 disables enrichment
	}

	requestParse := q.Get("parse") == "1"

	rep, err := s.reports.Build(r.Context(), summary.Params{
		AccountID:    steamid.ToAccountID(id64),
		Range:        rangeKey,
		Queue:        queueKey,
		DeepLimit:    deepLimit,
		RequestParse: requestParse,
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// resolveResponse is the /v1/resolve payload. Exact identifier inputs
// resolve directly; names and vanity URLs return candidates only.
type resolveResponse struct {
	SteamID64  string             `json:"steamid64,omitempty"`
	AccountID  string             `json:"account_id,omitempty"`
	Source     string             `json:"source"`
	Candidates []resolveCandidate `json:"candidates,omitempty"`
}

type resolveCandidate struct {
	SteamID64     string  `json:"steamid64"`
	AccountID     int64   `json:"account_id"`
	PersonaName   string  `json:"personaname"`
	Similarity    float64 `json:"similarity"`
	AvatarFull    string  `json:"avatarfull"`
	LastMatchTime string  `json:"last_match_time"`
}

const maxResolveCandidates = 20

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("input")
	if input == "" {
		writeError(w, http.StatusBadRequest, "missing ?input")
		return
	}

	parsed, err := steamid.Parse(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if parsed.Kind != steamid.KindName {
		writeJSON(w, http.StatusOK, resolveResponse{
			SteamID64: strconv.FormatUint(steamid.ToSteamID64(parsed.AccountID), 10),
			AccountID: strconv.FormatInt(parsed.AccountID, 10),
			Source:    string(parsed.Kind),
		})
		return
	}

	// Name or vanity: always return candidates, never auto-pick.
	results, err := s.search.Search(r.Context(), parsed.Query)
	if err != nil {
		// Search trouble is not fatal; an empty candidate list lets the
		// caller fall back to manual entry.
		results = nil
	}
	if len(results) > maxResolveCandidates {
		results = results[:maxResolveCandidates]
	}
	candidates := make([]resolveCandidate, 0, len(results))
	for _, res := range results {
		candidates = append(candidates, resolveCandidate{
			SteamID64:     strconv.FormatUint(steamid.ToSteamID64(res.AccountID), 10),
			AccountID:     res.AccountID,
			PersonaName:   res.PersonaName,
			Similarity:    res.Similarity,
			AvatarFull:    res.AvatarFull,
			LastMatchTime: res.LastMatchTime,
		})
	}
	writeJSON(w, http.StatusOK, resolveResponse{Source: "search", Candidates: candidates})
}
