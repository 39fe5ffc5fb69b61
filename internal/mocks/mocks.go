// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockRecordProvider mocks the RecordProvider interface
type MockRecordProvider struct {
	mock.Mock
}

func (m *MockRecordProvider) Fetch(ctx context.Context) entity.RecordSet {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return entity.RecordSet{}
	}
	return args.Get(0).(entity.RecordSet)
}

// MockSnapshotRepository mocks the SnapshotRepository interface
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Store(ctx context.Context, snapshot *entity.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) FindByID(ctx context.Context, id string) (*entity.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) List(ctx context.Context) ([]entity.SnapshotSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SnapshotSummary), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}

// Records builds a record set from field/value pairs, one slice per record.
// It keeps test tables short.
func Records(rows ...[]interface{}) entity.RecordSet {
	out := make(entity.RecordSet, 0, len(rows))
	for _, row := range rows {
		rec := entity.NewRecord()
		for i := 0; i+1 < len(row); i += 2 {
			rec.Set(row[i].(string), row[i+1])
		}
		out = append(out, rec)
	}
	return out
}
