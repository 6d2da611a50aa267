package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fadilmartias/talent-shortlist/internal/logger"
)

const recentActivityLimit = 3

type ActivityKind string

const (
	ActivityJobDescription ActivityKind = "job_description"
	ActivityMatch          ActivityKind = "match"
)

type ActivityItem struct {
	Kind      ActivityKind `json:"kind"`
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Detail    string       `json:"detail,omitempty"`
	Score     *float64     `json:"score,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type ActivityUsecase struct {
	jobs    JobStore
	matches MatchStore
	logger  *zap.Logger
}

func NewActivityUsecase(jobs JobStore, matches MatchStore, log *zap.Logger) *ActivityUsecase {
	return &ActivityUsecase{jobs: jobs, matches: matches, logger: logger.OrNop(log).Named("activity")}
}

// Recent returns the user's latest items across job descriptions and matches,
// newest first with ties ordered by id.
func (uc *ActivityUsecase) Recent(ctx context.Context, userID string) ([]ActivityItem, error) {
	var jobItems, matchItems []ActivityItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, err := uc.jobs.ListJobsByUser(gctx, userID, recentActivityLimit)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			jobItems = append(jobItems, ActivityItem{
				Kind:      ActivityJobDescription,
				ID:        j.ID.String(),
				Title:     j.Title,
				CreatedAt: j.CreatedAt,
			})
		}
		return nil
	})
	g.Go(func() error {
		records, err := uc.matches.RecentMatchesByUser(gctx, userID, recentActivityLimit)
		if err != nil {
			return err
		}
		for i := range records {
			rec := &records[i]
			item := ActivityItem{
				Kind:      ActivityMatch,
				ID:        rec.ID.String(),
				Title:     rec.CandidateID,
				Detail:    logger.TruncateForLog(rec.QueryText, 80),
				CreatedAt: rec.CreatedAt,
			}
			if c, err := candidateFromRecord(rec); err == nil {
				if c.Name != "" {
					item.Title = c.Name
				}
				score := c.MatchScore
				item.Score = &score
			}
			matchItems = append(matchItems, item)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeRecent(jobItems, matchItems, recentActivityLimit), nil
}

func mergeRecent(a, b []ActivityItem, limit int) []ActivityItem {
	all := make([]ActivityItem, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
