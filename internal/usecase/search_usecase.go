package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
	"github.com/fadilmartias/talent-shortlist/internal/logger"
	"github.com/fadilmartias/talent-shortlist/internal/model"
	"github.com/fadilmartias/talent-shortlist/internal/service"
	"github.com/fadilmartias/talent-shortlist/internal/shortlist"
)

type SearchRequest struct {
	UserID    string
	SessionID string
	TenantID  string
	Query     string
	JobID     string
}

type SearchResult struct {
	Candidates []candidate.Candidate `json:"candidates"`
	Skipped    int                   `json:"skipped"`
	JobTitle   string                `json:"job_title,omitempty"`
	ScoredAt   time.Time             `json:"scored_at"`
}

// MatchView is a stored match re-read through the normalizer.
type MatchView struct {
	ID        uuid.UUID           `json:"id"`
	QueryText string              `json:"query_text"`
	JobID     *uuid.UUID          `json:"job_id,omitempty"`
	JobTitle  string              `json:"job_title,omitempty"`
	Candidate candidate.Candidate `json:"candidate"`
	CreatedAt time.Time           `json:"created_at"`
}

type SearchUsecase struct {
	matcher  service.MatchServiceInterface
	matches  MatchStore
	jobs     JobStore
	sessions *shortlist.Store
	logger   *zap.Logger
	now      func() time.Time
}

func NewSearchUsecase(matcher service.MatchServiceInterface, matches MatchStore, jobs JobStore, sessions *shortlist.Store, log *zap.Logger) *SearchUsecase {
	return &SearchUsecase{
		matcher:  matcher,
		matches:  matches,
		jobs:     jobs,
		sessions: sessions,
		logger:   logger.OrNop(log).Named("search"),
		now:      time.Now,
	}
}

// Search scores the query against the engine, then normalizes and ranks the
// result. Engine failures are returned unchanged as *service.MatchError.
func (uc *SearchUsecase) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	log := uc.logger.With(logger.RequestFields(req.UserID, req.SessionID, req.TenantID)...)

	var (
		job   *model.JobDescription
		jobID *uuid.UUID
	)
	if req.JobID != "" {
		id, err := uuid.Parse(req.JobID)
		if err != nil {
			return nil, fmt.Errorf("%w: job_id is not a valid id", ErrInvalidInput)
		}
		job, err = uc.jobs.FindJobByID(ctx, req.UserID, id.String())
		if err != nil {
			return nil, fmt.Errorf("find job %s: %w", id, err)
		}
		jobID = &id
	}

	query := strings.TrimSpace(req.Query)
	if query == "" && job != nil {
		query = job.Content
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	var sess *shortlist.Session
	if req.SessionID != "" {
		var err error
		sess, err = uc.sessions.Session(req.SessionID, req.UserID)
		if err != nil {
			return nil, err
		}
	}

	raws, err := uc.matcher.Submit(ctx, service.SearchQuery{
		QueryText: query,
		Context:   correlationContext(req),
	})
	if err != nil {
		var merr *service.MatchError
		if errors.As(err, &merr) {
			log.Warn("match engine failed", zap.Stringer("kind", merr.Kind), zap.Bool("retryable", merr.Retryable()), zap.Error(err))
		}
		return nil, err
	}

	scoredAt := uc.now().UTC()
	cands, errs := candidate.NormalizeAll(raws, scoredAt)
	for _, nerr := range errs {
		log.Warn("skipping candidate record", zap.Error(nerr))
	}
	ranked := candidate.Rank(cands)

	if sess != nil {
		sess.SetResults(ranked)
	}

	uc.persist(ctx, log, req.UserID, jobID, query, ranked, scoredAt)

	result := &SearchResult{
		Candidates: ranked,
		Skipped:    len(errs),
		ScoredAt:   scoredAt,
	}
	if job != nil {
		result.JobTitle = job.Title
	}
	log.Info("search completed",
		zap.String("query", logger.TruncateForLog(query, 80)),
		zap.Int("candidates", len(ranked)),
		zap.Int("skipped", len(errs)),
	)
	return result, nil
}

func correlationContext(req SearchRequest) map[string]string {
	out := map[string]string{}
	if req.SessionID != "" {
		out[service.ContextSessionID] = req.SessionID
	}
	if req.TenantID != "" {
		out[service.ContextTenantID] = req.TenantID
	}
	return out
}

// persist stores ranked candidates as match history. Failure is logged and
// does not fail the search.
func (uc *SearchUsecase) persist(ctx context.Context, log *zap.Logger, userID string, jobID *uuid.UUID, query string, ranked []candidate.Candidate, scoredAt time.Time) {
	if uc.matches == nil || len(ranked) == 0 {
		return
	}

	records := make([]model.MatchRecord, 0, len(ranked))
	for _, c := range ranked {
		payload, err := json.Marshal(c)
		if err != nil {
			log.Warn("encode match payload", zap.String("candidate_id", c.ID), zap.Error(err))
			continue
		}
		records = append(records, model.MatchRecord{
			ID:          uuid.New(),
			UserID:      userID,
			JobID:       jobID,
			QueryText:   query,
			CandidateID: c.ID,
			MatchScore:  c.MatchScore,
			Payload:     string(payload),
			CreatedAt:   scoredAt,
		})
	}
	if err := uc.matches.CreateMatches(ctx, records); err != nil {
		log.Error("failed to store match history", zap.Error(err))
	}
}

// GetMatch returns one stored match owned by userID, enriched with its job
// title when the job still exists.
func (uc *SearchUsecase) GetMatch(ctx context.Context, userID, id string) (*MatchView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: match id is not a valid id", ErrInvalidInput)
	}
	rec, err := uc.matches.FindMatchByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("find match %s: %w", id, err)
	}

	view, err := matchView(rec)
	if err != nil {
		return nil, err
	}

	if rec.JobID != nil {
		job, err := uc.jobs.FindJobByID(ctx, userID, rec.JobID.String())
		if err != nil {
			uc.logger.Debug("job title unavailable", zap.String("job_id", rec.JobID.String()), zap.Error(err))
		} else {
			view.JobTitle = job.Title
		}
	}
	return view, nil
}

// ListMatches pages through the user's match history. Records that no longer
// normalize are skipped.
func (uc *SearchUsecase) ListMatches(ctx context.Context, userID string, page, size int) ([]MatchView, int64, error) {
	records, total, err := uc.matches.ListMatchesByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, err
	}

	views := make([]MatchView, 0, len(records))
	for i := range records {
		view, err := matchView(&records[i])
		if err != nil {
			uc.logger.Warn("skipping stored match", zap.String("match_id", records[i].ID.String()), zap.Error(err))
			continue
		}
		views = append(views, *view)
	}
	return views, total, nil
}

func matchView(rec *model.MatchRecord) (*MatchView, error) {
	c, err := candidateFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &MatchView{
		ID:        rec.ID,
		QueryText: rec.QueryText,
		JobID:     rec.JobID,
		Candidate: c,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func candidateFromRecord(rec *model.MatchRecord) (candidate.Candidate, error) {
	var raw candidate.Raw
	if err := json.Unmarshal([]byte(rec.Payload), &raw); err != nil {
		return candidate.Candidate{}, fmt.Errorf("decode match %s payload: %w", rec.ID, err)
	}
	if raw == nil {
		raw = candidate.Raw{}
	}
	if _, ok := raw["id"]; !ok && rec.CandidateID != "" {
		raw["id"] = rec.CandidateID
	}
	c, err := candidate.Normalize(raw, rec.CreatedAt)
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("match %s: %w", rec.ID, err)
	}
	return c, nil
}
