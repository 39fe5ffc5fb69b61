package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/repository"
	domainservice "github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/middleware"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ErrEmptySnapshot is returned when a capture fetched no records
var ErrEmptySnapshot = errors.New("fetch returned no records")

// SnapshotService archives fetched record sets
type SnapshotService struct {
	provider domainservice.RecordProvider
	repo     repository.SnapshotRepository
	source   string
	logger   logger.Logger
	now      func() time.Time
}

// NewSnapshotService creates a new snapshot service. source is recorded on
// every snapshot as its origin.
func NewSnapshotService(provider domainservice.RecordProvider, repo repository.SnapshotRepository, source string, log logger.Logger) *SnapshotService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SnapshotService{
		provider: provider,
		repo:     repo,
		source:   source,
		logger:   log,
		now:      time.Now,
	}
}

// Capture fetches the current records and stores them as a new snapshot
func (s *SnapshotService) Capture(ctx context.Context) (*entity.Snapshot, error) {
	requestID := middleware.GetRequestID(ctx)

	records := s.provider.Fetch(ctx)
	if len(records) == 0 {
		s.logger.Warn("Not storing an empty snapshot", map[string]interface{}{
			"request_id": requestID,
			"source":     s.source,
		})
		return nil, ErrEmptySnapshot
	}

	snapshot := &entity.Snapshot{
		ID:        uuid.New().String(),
		FetchedAt: s.now().UTC(),
		Source:    s.source,
		Records:   records,
	}

	if err := s.repo.Store(ctx, snapshot); err != nil {
		s.logger.Error("Failed to store snapshot", map[string]interface{}{
			"request_id": requestID,
			"id":         snapshot.ID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	telemetry.IncrSnapshotsStored()
	s.logger.Info("Snapshot stored", map[string]interface{}{
		"request_id": requestID,
		"id":         snapshot.ID,
		"records":    len(records),
	})

	return snapshot, nil
}

// Get retrieves a stored snapshot
func (s *SnapshotService) Get(ctx context.Context, id string) (*entity.Snapshot, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns the stored snapshots, newest first
func (s *SnapshotService) List(ctx context.Context) ([]entity.SnapshotSummary, error) {
	return s.repo.List(ctx)
}
