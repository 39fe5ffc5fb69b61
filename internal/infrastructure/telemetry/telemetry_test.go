package telemetry

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupExposesCounters(t *testing.T) {
	tel, err := Setup()
	require.NoError(t, err)

	IncrFetchSucceeded(3)
	IncrFetchFailed("decode")
	IncrPersisted("csv")
	MeasureFetch(time.Now().Add(-time.Millisecond))

	rec := httptest.NewRecorder()
	tel.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "currency_exporter_fetch_succeeded")
	assert.Contains(t, string(body), "currency_exporter_persist_files")

	intervals := tel.Inmem().Data()
	require.NotEmpty(t, intervals)
	assert.Contains(t, intervals[len(intervals)-1].Counters, "currency_exporter.fetch.records")
}
