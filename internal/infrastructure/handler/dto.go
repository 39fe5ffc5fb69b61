package handler

import (
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// SnapshotSummaryResponse describes a stored snapshot without its records
type SnapshotSummaryResponse struct {
	ID          string    `json:"id"`
	FetchedAt   time.Time `json:"fetched_at"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
}

// SnapshotResponse is a stored snapshot with its records
type SnapshotResponse struct {
	SnapshotSummaryResponse
	Records entity.RecordSet `json:"records"`
}

func newSummaryResponse(s entity.SnapshotSummary) SnapshotSummaryResponse {
	return SnapshotSummaryResponse{
		ID:          s.ID,
		FetchedAt:   s.FetchedAt,
		Source:      s.Source,
		RecordCount: s.RecordCount,
	}
}
