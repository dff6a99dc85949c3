package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-matcher/internal/cache"
	"github.com/jonathan/talent-matcher/internal/db"
	"github.com/jonathan/talent-matcher/internal/matching"
	"github.com/jonathan/talent-matcher/internal/metrics"
	"github.com/jonathan/talent-matcher/internal/server/ratelimit"
	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	pingErr   error
	projects  map[string]*types.ProjectRequirement
	talent    []types.TalentProfile
	runs      map[uuid.UUID]*db.MatchRun
	listKeys  []string
	listLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[string]*types.ProjectRequirement{},
		runs:     map[uuid.UUID]*db.MatchRun{},
	}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) GetProjectRequirement(_ context.Context, id string) (*types.ProjectRequirement, error) {
	return f.projects[id], nil
}

func (f *fakeStore) ListCandidates(_ context.Context, skillKeys []string, limit int) ([]types.TalentProfile, error) {
	f.listKeys = skillKeys
	f.listLimit = limit
	if limit > 0 && len(f.talent) > limit {
		return f.talent[:limit], nil
	}
	return f.talent, nil
}

func (f *fakeStore) SaveMatchRun(_ context.Context, input *db.MatchRunInput) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.runs[id] = &db.MatchRun{
		ID:          id,
		ProjectID:   input.ProjectID,
		Weights:     input.Weights,
		Options:     input.Options,
		Results:     input.Results,
		ResultCount: len(input.Results),
		CreatedAt:   time.Now().UTC(),
	}
	return id, nil
}

func (f *fakeStore) GetMatchRun(_ context.Context, id uuid.UUID) (*db.MatchRun, error) {
	return f.runs[id], nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]types.MatchResult
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]types.MatchResult{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]types.MatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return results, nil
}

func (c *memCache) Set(_ context.Context, key string, results []types.MatchResult, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = results
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type recordingPublisher struct {
	runIDs []string
	err    error
}

func (p *recordingPublisher) PublishMatches(_ context.Context, _ *types.ProjectRequirement, runID string, results []types.MatchResult) (int, error) {
	p.runIDs = append(p.runIDs, runID)
	if p.err != nil {
		return 0, p.err
	}
	return len(results), nil
}

func (p *recordingPublisher) Close() {}

func loadProject(t *testing.T) *types.ProjectRequirement {
	t.Helper()
	data, err := os.ReadFile("../../testdata/valid/project_requirement.json")
	require.NoError(t, err)
	var project types.ProjectRequirement
	require.NoError(t, json.Unmarshal(data, &project))
	return &project
}

func loadTalent(t *testing.T) []types.TalentProfile {
	t.Helper()
	data, err := os.ReadFile("../../testdata/valid/talent_profiles.json")
	require.NoError(t, err)
	var talent []types.TalentProfile
	require.NoError(t, json.Unmarshal(data, &talent))
	return talent
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	s, err := New(Config{}, deps)
	require.NoError(t, err)
	return s
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_InvalidWeights(t *testing.T) {
	_, err := New(Config{Weights: matching.Weights{Skill: 2}}, Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create matching engine")
}

func TestHandleHealth(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		s := newTestServer(t, Deps{})
		rec := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("store unreachable", func(t *testing.T) {
		store := newFakeStore()
		store.pingErr = errors.New("connection refused")
		s := newTestServer(t, Deps{Store: store})
		rec := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "degraded")
	})
}

func TestHandleMatch_RanksCandidates(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(t, s.Handler(), http.MethodPost, "/matches", MatchRequest{
		Project:    loadProject(t),
		Candidates: loadTalent(t),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out types.MatchResults
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "proj_001", out.ProjectID)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "talent_a", out.Results[0].TalentID)
	assert.Equal(t, "talent_b", out.Results[1].TalentID)
	assert.Greater(t, out.Results[0].TotalScore, out.Results[1].TotalScore)
}

func TestHandleMatch_OptionsApplied(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(t, s.Handler(), http.MethodPost, "/matches", MatchRequest{
		Project:    loadProject(t),
		Candidates: loadTalent(t),
		Options:    &types.MatchOptions{Limit: 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out types.MatchResults
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Results, 1)
	assert.Equal(t, "talent_a", out.Results[0].TalentID)
}

func TestHandleMatch_EmptyPool(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(t, s.Handler(), http.MethodPost, "/matches", MatchRequest{Project: loadProject(t)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestHandleMatch_BadRequests(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"malformed JSON", `{"project":`, "invalid JSON"},
		{"missing project", `{"candidates":[]}`, "project"},
		{"invalid weight", func() MatchRequest {
			p := loadProject(t)
			p.RequiredSkills[0].Weight = -1
			return MatchRequest{Project: p}
		}(), "project.required_skills[0].weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s.Handler(), http.MethodPost, "/matches", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErr)
		})
	}
}

func TestHandleMatch_CacheHit(t *testing.T) {
	c := newMemCache()
	m := metrics.New()
	s := newTestServer(t, Deps{Cache: c, Metrics: m})
	req := MatchRequest{Project: loadProject(t), Candidates: loadTalent(t)}

	first := doRequest(t, s.Handler(), http.MethodPost, "/matches", req)
	require.Equal(t, http.StatusOK, first.Code)
	second := doRequest(t, s.Handler(), http.MethodPost, "/matches", req)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, c.sets)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	expected := `
# HELP match_cache_lookups_total Result cache lookups by result
# TYPE match_cache_lookups_total counter
match_cache_lookups_total{result="hit"} 1
match_cache_lookups_total{result="miss"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "match_cache_lookups_total"))
}

func TestHandleProjectMatch(t *testing.T) {
	store := newFakeStore()
	store.projects["proj_001"] = loadProject(t)
	store.talent = loadTalent(t)
	pub := &recordingPublisher{}
	s := newTestServer(t, Deps{Store: store, Publisher: pub})

	rec := doRequest(t, s.Handler(), http.MethodPost, "/projects/proj_001/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out ProjectMatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "proj_001", out.ProjectID)
	require.Len(t, out.Results, 2)
	assert.Equal(t, 2, out.Notifications)
	assert.Equal(t, []string{"node.js", "react", "typescript"}, store.listKeys)
	assert.Equal(t, db.DefaultCandidateLimit, store.listLimit)
	assert.False(t, out.Truncated)

	id, err := uuid.Parse(out.RunID)
	require.NoError(t, err)
	require.Contains(t, store.runs, id)
	assert.Equal(t, 2, store.runs[id].ResultCount)
	assert.Equal(t, []string{out.RunID}, pub.runIDs)

	runRec := doRequest(t, s.Handler(), http.MethodGet, "/runs/"+out.RunID, nil)
	require.Equal(t, http.StatusOK, runRec.Code)
	var run db.MatchRun
	require.NoError(t, json.Unmarshal(runRec.Body.Bytes(), &run))
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "talent_a", run.Results[0].TalentID)
}

func TestHandleProjectMatch_WithOptions(t *testing.T) {
	store := newFakeStore()
	store.projects["proj_001"] = loadProject(t)
	store.talent = loadTalent(t)
	s := newTestServer(t, Deps{Store: store})

	rec := doRequest(t, s.Handler(), http.MethodPost, "/projects/proj_001/matches", `{"limit":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out ProjectMatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Results, 1)
}

func TestHandleProjectMatch_TruncatedAtCandidateLimit(t *testing.T) {
	store := newFakeStore()
	store.projects["proj_001"] = loadProject(t)
	store.talent = loadTalent(t)
	require.Len(t, store.talent, 3)

	s, err := New(Config{CandidateLimit: 2}, Deps{Store: store})
	require.NoError(t, err)

	rec := doRequest(t, s.Handler(), http.MethodPost, "/projects/proj_001/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out ProjectMatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Truncated)
	assert.Equal(t, 2, store.listLimit)
	for _, r := range out.Results {
		assert.NotEqual(t, "talent_c", r.TalentID)
	}
}

func TestHandleProjectMatch_PublishFailureNotFatal(t *testing.T) {
	store := newFakeStore()
	store.projects["proj_001"] = loadProject(t)
	store.talent = loadTalent(t)
	s := newTestServer(t, Deps{Store: store, Publisher: &recordingPublisher{err: errors.New("nats down")}})

	rec := doRequest(t, s.Handler(), http.MethodPost, "/projects/proj_001/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notifications":0`)
}

func TestHandleProjectMatch_Errors(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		s := newTestServer(t, Deps{})
		rec := doRequest(t, s.Handler(), http.MethodPost, "/projects/proj_001/matches", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "database unavailable")
	})

	t.Run("unknown project", func(t *testing.T) {
		s := newTestServer(t, Deps{Store: newFakeStore()})
		rec := doRequest(t, s.Handler(), http.MethodPost, "/projects/missing/matches", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "project not found: missing")
	})
}

func TestHandleGetRun_Errors(t *testing.T) {
	s := newTestServer(t, Deps{Store: newFakeStore()})

	rec := doRequest(t, s.Handler(), http.MethodGet, "/runs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s.Handler(), http.MethodGet, "/runs/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Deps{})
	doRequest(t, s.Handler(), http.MethodGet, "/health", nil)

	rec := doRequest(t, s.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="GET /health",status_code="200"} 1`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Deps{})
	rec := doRequest(t, s.Handler(), http.MethodOptions, "/matches", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled: true,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/matches", Method: http.MethodPost, Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	defer limiter.Stop()
	s := newTestServer(t, Deps{Limiter: limiter})
	req := MatchRequest{Project: loadProject(t)}

	first := doRequest(t, s.Handler(), http.MethodPost, "/matches", req)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := doRequest(t, s.Handler(), http.MethodPost, "/matches", req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate_limit_exceeded")

	health := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", s.extractClientID(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", s.extractClientID(req))
}
