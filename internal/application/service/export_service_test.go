package service

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdapters(t *testing.T, provider *mocks.MockRecordProvider) []format.Adapter {
	t.Helper()

	log := logger.NewNullLogger()
	adapters := make([]format.Adapter, 0, 3)
	for _, name := range format.Names() {
		a, err := format.New(name, provider, log)
		require.NoError(t, err)
		adapters = append(adapters, a)
	}
	return adapters
}

func manyRecords(n int) entity.RecordSet {
	rows := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []interface{}{"CharCode", "C" + strings.Repeat("X", i%3), "Nominal", json.Number("1"), "Name", "Валюта", "Value", json.Number("10.5")})
	}
	return mocks.Records(rows...)
}

func TestExportRunWritesAllFormats(t *testing.T) {
	provider := new(mocks.MockRecordProvider)
	provider.On("Fetch", mock.Anything).Return(manyRecords(10))

	dir := t.TempDir()
	var out bytes.Buffer
	opts := DefaultExportOptions()
	opts.OutDir = dir

	svc := NewExportService(newAdapters(t, provider), opts, &out, logger.NewNullLogger())
	require.NoError(t, svc.Run(context.Background()))

	for _, ext := range []string{"yaml", "json", "csv"} {
		_, err := os.Stat(filepath.Join(dir, "currencies."+ext))
		assert.NoError(t, err, ext)
	}

	// one fetch for the sample, one per persist
	provider.AssertNumberOfCalls(t, "Fetch", 4)

	yamlDoc, err := os.ReadFile(filepath.Join(dir, "currencies.yaml"))
	require.NoError(t, err)

	sample := out.String()
	require.True(t, strings.HasPrefix(sample, "--- YAML DATA SAMPLE ---\n"))
	body := strings.TrimSuffix(strings.TrimPrefix(sample, "--- YAML DATA SAMPLE ---\n"), "...\n")
	assert.Equal(t, 200, len([]rune(body)))
	assert.True(t, strings.HasPrefix(string(yamlDoc), body))
}

func TestExportRunEmptyFetch(t *testing.T) {
	provider := new(mocks.MockRecordProvider)
	provider.On("Fetch", mock.Anything).Return(entity.RecordSet{})

	dir := t.TempDir()
	var out bytes.Buffer
	opts := DefaultExportOptions()
	opts.OutDir = dir

	svc := NewExportService(newAdapters(t, provider), opts, &out, logger.NewNullLogger())
	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, "--- YAML DATA SAMPLE ---\n[]\n...\n", out.String())

	yamlDoc, err := os.ReadFile(filepath.Join(dir, "currencies.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(yamlDoc))

	jsonDoc, err := os.ReadFile(filepath.Join(dir, "currencies.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(jsonDoc))

	_, err = os.Stat(filepath.Join(dir, "currencies.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportRunStopsAtFirstWriteError(t *testing.T) {
	provider := new(mocks.MockRecordProvider)
	provider.On("Fetch", mock.Anything).Return(manyRecords(2))

	opts := DefaultExportOptions()
	opts.OutDir = filepath.Join(t.TempDir(), "missing")

	log := new(mocks.MockLogger)
	log.On("Debug", mock.Anything, mock.Anything).Return()
	log.On("Error", "Failed to persist currency data", mock.Anything).Return().Once()

	svc := NewExportService(newAdapters(t, provider), opts, &bytes.Buffer{}, log)
	err := svc.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to persist yaml")
	// sample + the failed yaml persist; json and csv are never attempted
	provider.AssertNumberOfCalls(t, "Fetch", 2)
	log.AssertExpectations(t)
}

func TestExportRunWithoutSample(t *testing.T) {
	provider := new(mocks.MockRecordProvider)
	provider.On("Fetch", mock.Anything).Return(manyRecords(1))

	opts := ExportOptions{OutDir: t.TempDir(), BaseName: "rates"}
	var out bytes.Buffer

	svc := NewExportService(newAdapters(t, provider), opts, &out, logger.NewNullLogger())
	require.NoError(t, svc.Run(context.Background()))

	assert.Empty(t, out.String())
	_, err := os.Stat(filepath.Join(opts.OutDir, "rates.csv"))
	assert.NoError(t, err)
	provider.AssertNumberOfCalls(t, "Fetch", 3)
}

func TestTruncateCountsCharacters(t *testing.T) {
	assert.Equal(t, "Дол", truncate("Доллар", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
}
