package entity

import (
	"context"
	"time"
)

// Snapshot is an archived RecordSet together with where and when it was fetched
type Snapshot struct {
	ID        string    `json:"id"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"`
	Records   RecordSet `json:"records"`
}

// Fetch returns the archived records, so a stored snapshot can be rendered
// by the same format adapters as a live source.
func (s *Snapshot) Fetch(_ context.Context) RecordSet {
	out := make(RecordSet, len(s.Records))
	copy(out, s.Records)
	return out
}

// SnapshotSummary describes a snapshot without its records
type SnapshotSummary struct {
	ID          string    `json:"id"`
	FetchedAt   time.Time `json:"fetched_at"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
}

// Summary returns the summary of the snapshot
func (s *Snapshot) Summary() SnapshotSummary {
	return SnapshotSummary{
		ID:          s.ID,
		FetchedAt:   s.FetchedAt,
		Source:      s.Source,
		RecordCount: len(s.Records),
	}
}
