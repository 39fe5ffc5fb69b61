// Package repository internal/domain/repository/snapshot_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
)

// ErrSnapshotNotFound is returned when no snapshot exists for an ID
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository defines the interface for snapshot storage
type SnapshotRepository interface {
	// Store saves a snapshot
	Store(ctx context.Context, snapshot *entity.Snapshot) error

	// FindByID retrieves a snapshot by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Snapshot, error)

	// List returns summaries of all stored snapshots
	List(ctx context.Context) ([]entity.SnapshotSummary, error)
}
