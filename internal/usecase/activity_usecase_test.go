package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/talent-shortlist/internal/model"
)

func TestRecentActivityMergesNewestThree(t *testing.T) {
	jobs := &fakeJobStore{jobs: []model.JobDescription{
		{ID: uuid.New(), UserID: "u1", Title: "Old job", CreatedAt: testNow.Add(-3 * time.Hour)},
		{ID: uuid.New(), UserID: "u1", Title: "New job", CreatedAt: testNow},
		{ID: uuid.New(), UserID: "u2", Title: "Other user", CreatedAt: testNow.Add(time.Hour)},
	}}
	matches := &fakeMatchStore{records: []model.MatchRecord{
		{ID: uuid.New(), UserID: "u1", CandidateID: "c1", QueryText: "BIM", Payload: `{"id":"c1","name":"Ana","match_score":80}`, CreatedAt: testNow.Add(-time.Hour)},
		{ID: uuid.New(), UserID: "u1", CandidateID: "c2", Payload: `{"id":"c2"}`, CreatedAt: testNow.Add(-2 * time.Hour)},
	}}

	items, err := NewActivityUsecase(jobs, matches, nil).Recent(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "New job", items[0].Title)
	assert.Equal(t, ActivityJobDescription, items[0].Kind)
	assert.Equal(t, "Ana", items[1].Title)
	assert.Equal(t, ActivityMatch, items[1].Kind)
	require.NotNil(t, items[1].Score)
	assert.Equal(t, 80.0, *items[1].Score)
	assert.Equal(t, "c2", items[2].Title)
}

func TestMergeRecentBreaksTiesByID(t *testing.T) {
	a := []ActivityItem{{ID: "b", CreatedAt: testNow}, {ID: "d", CreatedAt: testNow}}
	b := []ActivityItem{{ID: "c", CreatedAt: testNow}, {ID: "a", CreatedAt: testNow}}

	got := mergeRecent(a, b, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestRecentActivityPropagatesErrors(t *testing.T) {
	_, err := NewActivityUsecase(&fakeJobStore{err: errors.New("db")}, &fakeMatchStore{}, nil).Recent(context.Background(), "u1")
	assert.Error(t, err)
}

func TestRecentActivityEmpty(t *testing.T) {
	items, err := NewActivityUsecase(&fakeJobStore{}, &fakeMatchStore{}, nil).Recent(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
