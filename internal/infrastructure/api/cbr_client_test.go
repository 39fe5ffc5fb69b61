// internal/infrastructure/api/cbr_client_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const dailyPayload = `{
	"Date": "2026-10-17T11:30:00+03:00",
	"Timestamp": "2026-10-17T17:00:00+03:00",
	"Valute": {
		"AUD": {"ID": "R01010", "NumCode": "036", "CharCode": "AUD", "Nominal": 1, "Name": "Австралийский доллар", "Value": 52.4171, "Previous": 52.5538},
		"USD": {"ID": "R01235", "NumCode": "840", "CharCode": "USD", "Nominal": 1, "Name": "Доллар США", "Value": 81.1746, "Previous": 80.9843},
		"JPY": {"ID": "R01820", "NumCode": "392", "CharCode": "JPY", "Nominal": 100, "Name": "Японских иен", "Value": 53.7713, "Previous": 53.6282}
	}
}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/javascript")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestFetchReturnsOneRecordPerEntry(t *testing.T) {
	server := newTestServer(t, http.StatusOK, dailyPayload)
	client := NewCBRClient(server.URL, nil, logger.NewNullLogger())

	records := client.Fetch(context.Background())

	require.Len(t, records, 3)
	for i, code := range []string{"AUD", "USD", "JPY"} {
		got, ok := records[i].Get("CharCode")
		require.True(t, ok)
		assert.Equal(t, code, got)
	}

	// field order follows the payload; CharCode already present keeps its place
	assert.Equal(t, []string{"ID", "NumCode", "CharCode", "Nominal", "Name", "Value", "Previous"}, records[0].Keys())

	value, _ := records[1].Get("Value")
	assert.Equal(t, json.Number("81.1746"), value)
	name, _ := records[1].Get("Name")
	assert.Equal(t, "Доллар США", name)
}

func TestFetchInjectsCharCode(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"Valute": {"USD": {"Value": 90.0, "Nominal": 1, "Name": "US Dollar"}}}`)
	client := NewCBRClient(server.URL, nil, logger.NewNullLogger())

	records := client.Fetch(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, []string{"Value", "Nominal", "Name", "CharCode"}, records[0].Keys())

	out, err := json.Marshal(records)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Value": 90.0, "Nominal": 1, "Name": "US Dollar", "CharCode": "USD"}]`, string(out))
}

func TestFetchFailSoft(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		stage  string
	}{
		{"server error", http.StatusInternalServerError, `{"Valute": {}}`, "status"},
		{"not found", http.StatusNotFound, "not found", "status"},
		{"malformed body", http.StatusOK, `{"Valute": {`, "decode"},
		{"not json", http.StatusOK, `<html></html>`, "decode"},
		{"missing Valute", http.StatusOK, `{"Date": "2026-10-17"}`, "decode"},
		{"null Valute", http.StatusOK, `{"Valute": null}`, "decode"},
		{"Valute is a list", http.StatusOK, `{"Valute": []}`, "decode"},
		{"entry is not an object", http.StatusOK, `{"Valute": {"USD": 90.0}}`, "decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, tc.status, tc.body)

			var buf bytes.Buffer
			client := NewCBRClient(server.URL, nil, logger.NewJSONLogger(&buf, logger.InfoLevel))

			var records = client.Fetch(context.Background())

			assert.NotNil(t, records)
			assert.Empty(t, records)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "error", entry["@level"])
			assert.Equal(t, "Failed to fetch currency data", entry["@message"])
			assert.Equal(t, tc.stage, entry["stage"])
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewCBRClient(url, nil, logger.NewNullLogger())

	assert.NotPanics(t, func() {
		records := client.Fetch(context.Background())
		assert.Empty(t, records)
	})
}

func TestFetchCancelledContext(t *testing.T) {
	server := newTestServer(t, http.StatusOK, dailyPayload)
	client := NewCBRClient(server.URL, nil, logger.NewNullLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, client.Fetch(ctx))
}

func TestFetchClassifiesErrors(t *testing.T) {
	server := newTestServer(t, http.StatusBadGateway, "")
	client := NewCBRClient(server.URL, nil, logger.NewNullLogger())

	_, stage, err := client.fetch(context.Background())
	assert.Equal(t, "status", stage)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))

	_, err = parseDaily([]byte(`{}`))
	assert.ErrorIs(t, err, ErrMissingValute)

	_, err = parseDaily([]byte(`{"Valute": {"EUR": "x"}}`))
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestFetchEachCallIsFresh(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(dailyPayload))
	}))
	defer server.Close()

	client := NewCBRClient(server.URL, nil, logger.NewNullLogger())
	client.Fetch(context.Background())
	client.Fetch(context.Background())

	assert.Equal(t, 2, calls)
}

func TestFetchDefaultURL(t *testing.T) {
	defer gock.Off()

	gock.New("https://www.cbr-xml-daily.ru").
		Get("/daily_json.js").
		Reply(http.StatusOK).
		BodyString(dailyPayload)

	client := NewCBRClient("", nil, logger.NewNullLogger())
	assert.Equal(t, DefaultURL, client.URL())

	records := client.Fetch(context.Background())

	assert.Len(t, records, 3)
	assert.True(t, gock.IsDone(), "Not all gock requests were fulfilled")
}
