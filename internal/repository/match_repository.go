package repository

import (
	"context"
	"fmt"

	"github.com/fadilmartias/talent-shortlist/internal/model"
	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db}
}

func (r *MatchRepository) CreateMatches(ctx context.Context, records []model.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&records, 100).Error; err != nil {
		return fmt.Errorf("create matches: %w", err)
	}
	return nil
}

// FindMatchByID returns the record only when it belongs to userID.
func (r *MatchRepository) FindMatchByID(ctx context.Context, userID, id string) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// ListMatchesByUser pages through a user's matches, newest first. page is 1-based.
func (r *MatchRepository) ListMatchesByUser(ctx context.Context, userID string, page, size int) ([]model.MatchRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MatchRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}

	var records []model.MatchRecord
	err := q.Order("created_at DESC").Order("id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}
	return records, total, nil
}

func (r *MatchRepository) RecentMatchesByUser(ctx context.Context, userID string, limit int) ([]model.MatchRecord, error) {
	var records []model.MatchRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	return records, nil
}
