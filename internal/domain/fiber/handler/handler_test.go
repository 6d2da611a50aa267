package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
	"github.com/fadilmartias/talent-shortlist/internal/middleware"
	"github.com/fadilmartias/talent-shortlist/internal/model"
	"github.com/fadilmartias/talent-shortlist/internal/repository"
	"github.com/fadilmartias/talent-shortlist/internal/service"
	"github.com/fadilmartias/talent-shortlist/internal/share"
	"github.com/fadilmartias/talent-shortlist/internal/shortlist"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/validation"
)

type stubMatcher struct {
	raws []candidate.Raw
	err  error
}

func (s *stubMatcher) Submit(context.Context, service.SearchQuery) ([]candidate.Raw, error) {
	return s.raws, s.err
}

type memMatches struct {
	mu      sync.Mutex
	records []model.MatchRecord
}

func (m *memMatches) CreateMatches(_ context.Context, records []model.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *memMatches) FindMatchByID(_ context.Context, userID, id string) (*model.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID.String() == id && r.UserID == userID {
			rec := r
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memMatches) ListMatchesByUser(ctx context.Context, userID string, page, size int) ([]model.MatchRecord, int64, error) {
	all, _ := m.RecentMatchesByUser(ctx, userID, 1<<30)
	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (m *memMatches) RecentMatchesByUser(_ context.Context, userID string, limit int) ([]model.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.MatchRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memJobs struct {
	mu   sync.Mutex
	jobs []model.JobDescription
}

func (m *memJobs) CreateJob(_ context.Context, job *model.JobDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, *job)
	return nil
}

func (m *memJobs) FindJobByID(_ context.Context, userID, id string) (*model.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID.String() == id && j.UserID == userID {
			job := j
			return &job, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memJobs) ListJobsByUser(_ context.Context, userID string, limit int) ([]model.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.JobDescription
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memJobs) SearchSimilarJobs(context.Context, string, pgvector.Vector, int) ([]model.SimilarJob, error) {
	return nil, nil
}

type stubOutbox struct {
	sent int
}

func (s *stubOutbox) Dispatch(context.Context, *share.ShareExport, service.DispatchMeta) (string, error) {
	s.sent++
	return "msg-42", nil
}

type testEnv struct {
	app     *fiber.App
	matcher *stubMatcher
	matches *memMatches
	jobs    *memJobs
	outbox  *stubOutbox
}

func newTestEnv(t *testing.T, withOutbox bool) *testEnv {
	t.Helper()
	env := &testEnv{
		matcher: &stubMatcher{raws: []candidate.Raw{
			{"id": "c1", "name": "Ana Lima", "match_score": 91, "contact": map[string]any{"email": "ana@x.com", "phone": "123"}},
			{"id": "c2", "name": "Bo Chen", "match_score": 64},
			{"name": "missing id"},
		}},
		matches: &memMatches{},
		jobs:    &memJobs{},
		outbox:  &stubOutbox{},
	}

	var outbox service.OutboxServiceInterface
	if withOutbox {
		outbox = env.outbox
	}

	store := shortlist.NewStore()
	v := validation.New()
	env.app = fiber.New()
	RegisterRoutes(env.app, Handlers{
		Search:   NewSearchHandler(usecase.NewSearchUsecase(env.matcher, env.matches, env.jobs, store, nil), v, nil),
		Cart:     NewCartHandler(usecase.NewShortlistUsecase(store, env.matches, outbox, nil), v),
		Jobs:     NewJobHandler(usecase.NewJobUsecase(env.jobs, nil, nil), v),
		Activity: NewActivityHandler(usecase.NewActivityUsecase(env.jobs, env.matches, nil)),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

var user1 = map[string]string{middleware.HeaderUserID: "u1", middleware.HeaderSessionID: "s1"}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "no data object in %v", body)
	return d
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, false)
	status, body := env.do(t, http.MethodPost, "/search", map[string]any{"query": "BIM"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "missing_user", body["code"])
}

func TestSearchRanksAndReportsSkipped(t *testing.T) {
	env := newTestEnv(t, false)
	status, body := env.do(t, http.MethodPost, "/search", map[string]any{"query": "BIM Modeler"}, user1)
	require.Equal(t, http.StatusOK, status, body)

	d := data(t, body)
	assert.EqualValues(t, 2, d["count"])
	assert.EqualValues(t, 1, d["skipped"])
	cands := d["candidates"].([]any)
	assert.Equal(t, "c1", cands[0].(map[string]any)["id"])
	assert.Equal(t, "c2", cands[1].(map[string]any)["id"])
}

func TestSearchValidation(t *testing.T) {
	env := newTestEnv(t, false)
	status, body := env.do(t, http.MethodPost, "/search", map[string]any{"job_id": "nope"}, user1)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", body["code"])
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "job_id")
}

func TestSearchEngineErrors(t *testing.T) {
	tests := []struct {
		kind      service.MatchErrorKind
		status    int
		retryable bool
	}{
		{service.MatchTimeout, http.StatusGatewayTimeout, true},
		{service.MatchUnreachable, http.StatusBadGateway, true},
		{service.MatchBadResponse, http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			env := newTestEnv(t, false)
			env.matcher.err = &service.MatchError{Kind: tt.kind, Err: io.EOF}

			status, body := env.do(t, http.MethodPost, "/search", map[string]any{"query": "q"}, user1)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "engine_"+tt.kind.String(), body["code"])
			assert.Equal(t, tt.retryable, body["retryable"])
		})
	}
}

func TestCartFlowAndExport(t *testing.T) {
	env := newTestEnv(t, true)
	status, _ := env.do(t, http.MethodPost, "/search", map[string]any{"query": "BIM"}, user1)
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodPost, "/cart/items", map[string]any{"candidate_id": "c1"}, user1)
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 1, data(t, body)["count"])

	status, _ = env.do(t, http.MethodPost, "/cart/items", map[string]any{"candidate_id": "c1"}, user1)
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodPost, "/cart/items", map[string]any{"candidate_id": "ghost"}, user1)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])

	status, body = env.do(t, http.MethodPost, "/cart/export", map[string]any{
		"recipient_email":    "hr@client.com",
		"blind_contact_info": true,
	}, user1)
	require.Equal(t, http.StatusOK, status, body)
	snaps := data(t, body)["candidate_snapshots"].([]any)
	require.Len(t, snaps, 1)
	contact := snaps[0].(map[string]any)["contact"].(map[string]any)
	assert.Equal(t, "[hidden]", contact["email"])
	assert.Equal(t, "[hidden]", contact["phone"])
	assert.Equal(t, "Ana Lima", snaps[0].(map[string]any)["name"])

	status, body = env.do(t, http.MethodGet, "/cart", nil, user1)
	require.Equal(t, http.StatusOK, status)
	items := data(t, body)["items"].([]any)
	assert.Equal(t, "ana@x.com", items[0].(map[string]any)["contact"].(map[string]any)["email"])

	status, body = env.do(t, http.MethodPost, "/cart/share", map[string]any{"recipient_email": "hr@client.com"}, user1)
	require.Equal(t, http.StatusAccepted, status, body)
	assert.Equal(t, "msg-42", data(t, body)["message_id"])
	assert.Equal(t, 1, env.outbox.sent)

	status, body = env.do(t, http.MethodDelete, "/cart/items/c1", nil, user1)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, data(t, body)["count"])
}

func TestExportValidationErrors(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, http.MethodPost, "/cart/export", map[string]any{"recipient_email": ""}, user1)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalid_recipient", body["code"])

	status, body = env.do(t, http.MethodPost, "/cart/export", map[string]any{"recipient_email": "hr@client.com"}, user1)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "empty_cart", body["code"])

	status, body = env.do(t, http.MethodPost, "/cart/export", map[string]any{
		"recipient_email": "hr@client.com",
		"blind_fields":    []string{"name"},
	}, user1)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", body["code"])
}

func TestShareWithoutOutboxIsUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodPost, "/search", map[string]any{"query": "BIM"}, user1)
	env.do(t, http.MethodPost, "/cart/items", map[string]any{"candidate_id": "c2"}, user1)

	status, body := env.do(t, http.MethodPost, "/cart/share", map[string]any{"recipient_email": "hr@client.com"}, user1)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unavailable", body["code"])
}

func TestCartRequiresSessionAndOwner(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, http.MethodGet, "/cart", nil, map[string]string{middleware.HeaderUserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing_session", body["code"])

	env.do(t, http.MethodGet, "/cart", nil, user1)
	status, body = env.do(t, http.MethodGet, "/cart", nil, map[string]string{middleware.HeaderUserID: "u2", middleware.HeaderSessionID: "s1"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "session_forbidden", body["code"])
}

func TestEndSessionDiscardsCart(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodPost, "/search", map[string]any{"query": "BIM"}, user1)
	env.do(t, http.MethodPost, "/cart/items", map[string]any{"candidate_id": "c1"}, user1)

	status, body := env.do(t, http.MethodDelete, "/session", nil, user1)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data(t, body)["ended"])

	_, body = env.do(t, http.MethodGet, "/cart", nil, user1)
	assert.EqualValues(t, 0, data(t, body)["count"])
}

func TestMatchesHistory(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodPost, "/search", map[string]any{"query": "BIM"}, user1)

	status, body := env.do(t, http.MethodGet, "/matches?page=1&page_size=1", nil, user1)
	require.Equal(t, http.StatusOK, status, body)
	list := body["data"].([]any)
	assert.Len(t, list, 1)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, pagination["total_items"])
	assert.Equal(t, true, pagination["has_more"])

	id := list[0].(map[string]any)["id"].(string)
	status, body = env.do(t, http.MethodGet, "/matches/"+id, nil, user1)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "BIM", data(t, body)["query_text"])

	status, _ = env.do(t, http.MethodGet, "/matches/"+uuid.NewString(), nil, user1)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestJobsAndActivity(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "BIM Modeler", "content": "Revit, IFC"}, user1)
	require.Equal(t, http.StatusCreated, status, body)
	job := data(t, body)
	assert.Equal(t, false, job["has_embedding"])

	status, body = env.do(t, http.MethodGet, "/jobs/"+job["id"].(string), nil, user1)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "BIM Modeler", data(t, body)["title"])

	status, body = env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "x"}, user1)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["details"].(map[string]any), "content")

	status, _ = env.do(t, http.MethodGet, "/jobs/similar?q=revit", nil, user1)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, body = env.do(t, http.MethodGet, "/activity/recent", nil, user1)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
}
