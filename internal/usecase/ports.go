package usecase

import (
	"context"
	"errors"

	"github.com/fadilmartias/talent-shortlist/internal/model"
	"github.com/pgvector/pgvector-go"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotInResults       = errors.New("candidate is not in the current search results")
	ErrEmbeddingsDisabled = errors.New("embeddings are not configured")
)

// MatchStore is satisfied by repository.MatchRepository.
type MatchStore interface {
	CreateMatches(ctx context.Context, records []model.MatchRecord) error
	FindMatchByID(ctx context.Context, userID, id string) (*model.MatchRecord, error)
	ListMatchesByUser(ctx context.Context, userID string, page, size int) ([]model.MatchRecord, int64, error)
	RecentMatchesByUser(ctx context.Context, userID string, limit int) ([]model.MatchRecord, error)
}

// JobStore is satisfied by repository.JobRepository.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.JobDescription) error
	FindJobByID(ctx context.Context, userID, id string) (*model.JobDescription, error)
	ListJobsByUser(ctx context.Context, userID string, limit int) ([]model.JobDescription, error)
	SearchSimilarJobs(ctx context.Context, userID string, embedding pgvector.Vector, topK int) ([]model.SimilarJob, error)
}
