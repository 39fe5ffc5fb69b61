package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const snapshotKeyPrefix = "snapshot:"

// BadgerSnapshotRepository implements the snapshot repository interface using BadgerDB
type BadgerSnapshotRepository struct {
	db *badger.DB
}

var _ repository.SnapshotRepository = (*BadgerSnapshotRepository)(nil)

// NewBadgerSnapshotRepository creates a new BadgerDB snapshot repository
func NewBadgerSnapshotRepository(db *badger.DB) *BadgerSnapshotRepository {
	return &BadgerSnapshotRepository{db: db}
}

// OpenBadger opens (creating if needed) a BadgerDB at dir with badger's own logging disabled
func OpenBadger(dir string) (*badger.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	badgerOpts := badger.DefaultOptions(dir)
	badgerOpts.Logger = nil

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Store saves a snapshot under its ID
func (r *BadgerSnapshotRepository) Store(ctx context.Context, snapshot *entity.Snapshot) error {
	if snapshot.ID == "" {
		return errors.New("snapshot has no id")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKeyPrefix+snapshot.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}

// FindByID retrieves a snapshot by its unique identifier
func (r *BadgerSnapshotRepository) FindByID(ctx context.Context, id string) (*entity.Snapshot, error) {
	var snapshot entity.Snapshot

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snapshot)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", repository.ErrSnapshotNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve snapshot: %w", err)
	}

	return &snapshot, nil
}

// List returns summaries of all snapshots, newest first
func (r *BadgerSnapshotRepository) List(ctx context.Context) ([]entity.SnapshotSummary, error) {
	summaries := make([]entity.SnapshotSummary, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(snapshotKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var snapshot entity.Snapshot
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snapshot)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			summaries = append(summaries, snapshot.Summary())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].FetchedAt.After(summaries[j].FetchedAt)
	})

	return summaries, nil
}
