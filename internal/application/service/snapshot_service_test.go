package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/repository"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCapture(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	t.Run("Stores fetched records", func(t *testing.T) {
		provider := new(mocks.MockRecordProvider)
		repo := new(mocks.MockSnapshotRepository)
		records := manyRecords(3)

		provider.On("Fetch", ctx).Return(records).Once()
		repo.On("Store", ctx, mock.MatchedBy(func(s *entity.Snapshot) bool {
			return s.ID != "" && s.FetchedAt.Equal(fixed) && s.Source == "http://cbr" && len(s.Records) == 3
		})).Return(nil).Once()

		svc := NewSnapshotService(provider, repo, "http://cbr", logger.NewNullLogger())
		svc.now = func() time.Time { return fixed }

		snapshot, err := svc.Capture(ctx)

		require.NoError(t, err)
		assert.Equal(t, records, snapshot.Records)
		assert.Len(t, snapshot.ID, 36)
		provider.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Empty fetch is not stored", func(t *testing.T) {
		provider := new(mocks.MockRecordProvider)
		repo := new(mocks.MockSnapshotRepository)
		provider.On("Fetch", ctx).Return(entity.RecordSet{}).Once()

		svc := NewSnapshotService(provider, repo, "http://cbr", logger.NewNullLogger())
		snapshot, err := svc.Capture(ctx)

		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, ErrEmptySnapshot)
		repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		provider := new(mocks.MockRecordProvider)
		repo := new(mocks.MockSnapshotRepository)
		provider.On("Fetch", ctx).Return(manyRecords(1)).Once()
		repo.On("Store", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		svc := NewSnapshotService(provider, repo, "http://cbr", logger.NewNullLogger())
		snapshot, err := svc.Capture(ctx)

		assert.Nil(t, snapshot)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestSnapshotGetAndList(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSnapshotRepository)
	svc := NewSnapshotService(new(mocks.MockRecordProvider), repo, "", logger.NewNullLogger())

	stored := &entity.Snapshot{ID: "abc"}
	repo.On("FindByID", ctx, "abc").Return(stored, nil).Once()
	repo.On("FindByID", ctx, "nope").Return(nil, repository.ErrSnapshotNotFound).Once()
	repo.On("List", ctx).Return([]entity.SnapshotSummary{{ID: "abc", RecordCount: 2}}, nil).Once()

	got, err := svc.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	repo.AssertExpectations(t)
}
