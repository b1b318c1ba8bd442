package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/summary"
)

type fakeReporter struct {
	got     summary.Params
	summary *model.Summary
	err     error
}

func (f *fakeReporter) Build(_ context.Context, p summary.Params) (*model.Summary, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &model.Summary{Warnings: []string{}}, nil
}

type fakeSearcher struct {
	results []opendota.SearchResult
	err     error
	gotQ    string
}

func (f *fakeSearcher) Search(_ context.Context, q string) ([]opendota.SearchResult, error) {
	f.gotQ = q
	return f.results, f.err
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s := New(&fakeReporter{}, &fakeSearcher{})
	rr := doRequest(t, s, "/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestSummary_DefaultsAndParams(t *testing.T) {
	rep := &fakeReporter{}
	s := New(rep, &fakeSearcher{})

	rr := doRequest(t, s, "/v1/player/76561198030654385/summary-advanced")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, int64(70388657), rep.got.AccountID)
	assert.Equal(t, "last_year", string(rep.got.Range))
	assert.Equal(t, "all", string(rep.got.Queue))
	assert.Equal(t, summary.DefaultDeepLimit, rep.got.DeepLimit)
	assert.False(t, rep.got.RequestParse)

	rr = doRequest(t, s, "/v1/player/76561198030654385/summary-advanced?range=last_month&queue=turbo&deepLimit=50&parse=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "last_month", string(rep.got.Range))
	assert.Equal(t, "turbo", string(rep.got.Queue))
	assert.Equal(t, 50, rep.got.DeepLimit)
	assert.True(t, rep.got.RequestParse)
}

func TestSummary_DeepLimitZeroDisables(t *testing.T) {
	rep := &fakeReporter{}
	s := New(rep, &fakeSearcher{})

	rr := doRequest(t, s, "/v1/player/76561198030654385/summary-advanced?deepLimit=0")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, -1, rep.got.DeepLimit, "explicit 0 must disable enrichment")
}

func TestSummary_BadParams(t *testing.T) {
	s := New(&fakeReporter{}, &fakeSearcher{})

	cases := []struct {
		name string
		path string
	}{
		{"short id", "/v1/player/12345/summary-advanced"},
		{"non-numeric id", "/v1/player/notanid0123456789/summary-advanced"},
		{"bad range", "/v1/player/76561198030654385/summary-advanced?range=forever"},
		{"bad queue", "/v1/player/76561198030654385/summary-advanced?queue=captains"},
		{"deepLimit over cap", "/v1/player/76561198030654385/summary-advanced?deepLimit=301"},
		{"deepLimit negative", "/v1/player/76561198030654385/summary-advanced?deepLimit=-1"},
		{"deepLimit garbage", "/v1/player/76561198030654385/summary-advanced?deepLimit=lots"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := doRequest(t, s, c.path)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, http.StatusBadRequest, body.Error.Status)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestSummary_UpstreamStatusForwarded(t *testing.T) {
	rep := &fakeReporter{err: &opendota.APIError{StatusCode: 429, Path: "/players/1/matches"}}
	s := New(rep, &fakeSearcher{})

	rr := doRequest(t, s, "/v1/player/76561198030654385/summary-advanced")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rep.err = errors.New("plain failure")
	rr = doRequest(t, s, "/v1/player/76561198030654385/summary-advanced")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestResolve_ExactIdentifier(t *testing.T) {
	s := New(&fakeReporter{}, &fakeSearcher{})

	rr := doRequest(t, s, "/v1/resolve?input=76561198030654385")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "76561198030654385", resp.SteamID64)
	assert.Equal(t, "70388657", resp.AccountID)
	assert.Equal(t, "steam64", resp.Source)
	assert.Empty(t, resp.Candidates)
}

func TestResolve_NameReturnsCandidates(t *testing.T) {
	search := &fakeSearcher{results: []opendota.SearchResult{
		{AccountID: 70388657, PersonaName: "Dendi", Similarity: 0.99},
		{AccountID: 123, PersonaName: "Dendi fan", Similarity: 0.42},
	}}
	s := New(&fakeReporter{}, search)

	rr := doRequest(t, s, "/v1/resolve?input=Dendi")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Dendi", search.gotQ)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "search", resp.Source)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "76561198030654385", resp.Candidates[0].SteamID64)
	assert.Equal(t, "Dendi", resp.Candidates[0].PersonaName)
}

func TestResolve_SearchFailureYieldsEmptyList(t *testing.T) {
	s := New(&fakeReporter{}, &fakeSearcher{err: errors.New("down")})

	rr := doRequest(t, s, "/v1/resolve?input=Dendi")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "search", resp.Source)
	assert.Empty(t, resp.Candidates)
}

func TestResolve_MissingInput(t *testing.T) {
	s := New(&fakeReporter{}, &fakeSearcher{})
	rr := doRequest(t, s, "/v1/resolve")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := New(&fakeReporter{}, &fakeSearcher{})
	rr := doRequest(t, s, "/v1/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Error.Status)
}
