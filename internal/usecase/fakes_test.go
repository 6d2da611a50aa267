package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/pgvector/pgvector-go"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
	"github.com/fadilmartias/talent-shortlist/internal/model"
	"github.com/fadilmartias/talent-shortlist/internal/repository"
	"github.com/fadilmartias/talent-shortlist/internal/service"
	"github.com/fadilmartias/talent-shortlist/internal/share"
)

type fakeMatcher struct {
	raws    []candidate.Raw
	err     error
	queries []service.SearchQuery
}

func (f *fakeMatcher) Submit(_ context.Context, q service.SearchQuery) ([]candidate.Raw, error) {
	f.queries = append(f.queries, q)
	return f.raws, f.err
}

type fakeMatchStore struct {
	mu        sync.Mutex
	records   []model.MatchRecord
	createErr error
	listErr   error
}

func (f *fakeMatchStore) CreateMatches(_ context.Context, records []model.MatchRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeMatchStore) FindMatchByID(_ context.Context, userID, id string) (*model.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID.String() == id && f.records[i].UserID == userID {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMatchStore) byUser(userID string) []model.MatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.MatchRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeMatchStore) ListMatchesByUser(_ context.Context, userID string, page, size int) ([]model.MatchRecord, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	all := f.byUser(userID)
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeMatchStore) RecentMatchesByUser(_ context.Context, userID string, limit int) ([]model.MatchRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := f.byUser(userID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeJobStore struct {
	jobs       []model.JobDescription
	similar    []model.SimilarJob
	lastVector pgvector.Vector
	err        error
}

func (f *fakeJobStore) CreateJob(_ context.Context, job *model.JobDescription) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeJobStore) FindJobByID(_ context.Context, userID, id string) (*model.JobDescription, error) {
	for i := range f.jobs {
		if f.jobs[i].ID.String() == id && f.jobs[i].UserID == userID {
			j := f.jobs[i]
			return &j, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeJobStore) ListJobsByUser(_ context.Context, userID string, limit int) ([]model.JobDescription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.JobDescription
	for _, j := range f.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobStore) SearchSimilarJobs(_ context.Context, _ string, embedding pgvector.Vector, topK int) ([]model.SimilarJob, error) {
	f.lastVector = embedding
	if len(f.similar) > topK {
		return f.similar[:topK], nil
	}
	return f.similar, nil
}

type fakeEmbedder struct {
	values []float32
	err    error
}

func (f *fakeEmbedder) GenerateEmbedding(context.Context, string) ([]float32, error) {
	return f.values, f.err
}

type fakeOutbox struct {
	sent []*share.ShareExport
	meta []service.DispatchMeta
	err  error
}

func (f *fakeOutbox) Dispatch(_ context.Context, exp *share.ShareExport, meta service.DispatchMeta) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, exp)
	f.meta = append(f.meta, meta)
	return "msg-1", nil
}
