package service

import (
	"context"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
)

// RecordProvider is anything that can produce a RecordSet on demand
type RecordProvider interface {
	// Fetch returns a fresh RecordSet. Implementations never fail: problems
	// degrade to an empty set.
	Fetch(ctx context.Context) entity.RecordSet
}
