package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/fadilmartias/talent-shortlist/internal/logger"
	"github.com/fadilmartias/talent-shortlist/internal/model"
	"github.com/fadilmartias/talent-shortlist/internal/service"
)

const (
	defaultJobListLimit = 20
	maxJobListLimit     = 100
	defaultSimilarTopK  = 5
)

type JobUsecase struct {
	jobs     JobStore
	embedder service.EmbeddingServiceInterface
	logger   *zap.Logger
	now      func() time.Time
}

// NewJobUsecase wires job description storage. embedder may be nil; jobs are
// then stored without an embedding and similarity search is unavailable.
func NewJobUsecase(jobs JobStore, embedder service.EmbeddingServiceInterface, log *zap.Logger) *JobUsecase {
	return &JobUsecase{
		jobs:     jobs,
		embedder: embedder,
		logger:   logger.OrNop(log).Named("jobs"),
		now:      time.Now,
	}
}

func (uc *JobUsecase) CreateJob(ctx context.Context, userID, title, content string) (*model.JobDescription, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if title == "" {
		title = firstLine(content, 80)
	}

	now := uc.now().UTC()
	job := &model.JobDescription{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if uc.embedder != nil {
		values, err := uc.embedder.GenerateEmbedding(ctx, content)
		if err != nil {
			uc.logger.Warn("storing job without embedding", zap.String("job_id", job.ID.String()), zap.Error(err))
		} else {
			vec := pgvector.NewVector(values)
			job.Embedding = &vec
		}
	}

	if err := uc.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *JobUsecase) GetJob(ctx context.Context, userID, id string) (*model.JobDescription, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: job id is not a valid id", ErrInvalidInput)
	}
	job, err := uc.jobs.FindJobByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("find job %s: %w", id, err)
	}
	return job, nil
}

func (uc *JobUsecase) ListJobs(ctx context.Context, userID string, limit int) ([]model.JobDescription, error) {
	if limit <= 0 {
		limit = defaultJobListLimit
	}
	if limit > maxJobListLimit {
		limit = maxJobListLimit
	}
	return uc.jobs.ListJobsByUser(ctx, userID, limit)
}

func (uc *JobUsecase) SimilarJobs(ctx context.Context, userID, query string, topK int) ([]model.SimilarJob, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrInvalidInput)
	}
	if uc.embedder == nil {
		return nil, ErrEmbeddingsDisabled
	}
	if topK <= 0 {
		topK = defaultSimilarTopK
	}

	values, err := uc.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return uc.jobs.SearchSimilarJobs(ctx, userID, pgvector.NewVector(values), topK)
}

func firstLine(s string, limit int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return logger.TruncateForLog(s, limit)
}
