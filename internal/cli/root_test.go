package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyPayload = `{"Date": "2026-10-17T11:30:00+03:00", "Valute": {
	"USD": {"ID": "R01235", "NumCode": "840", "Nominal": 1, "Name": "Доллар США", "Value": 81.1746, "Previous": 80.9843},
	"EUR": {"ID": "R01239", "NumCode": "978", "Nominal": 1, "Name": "Евро", "Value": 94.2519, "Previous": 94.0117}
}}`

func newUpstream(t *testing.T, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(dailyPayload))
	}))
	t.Cleanup(server.Close)

	return server
}

// run executes a fresh root command and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	original := logger.GetDefaultLogger()
	t.Cleanup(func() { logger.SetDefaultLogger(original) })

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand().Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExportWritesAllFormats(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK)
	dir := t.TempDir()

	stdout, stderr, err := run(t, "--url", upstream.URL, "--out-dir", dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "--- YAML DATA SAMPLE ---\n- CharCode: USD\n  ID: R01235\n"), stdout)
	assert.True(t, strings.HasSuffix(stdout, "...\n"))
	assert.Equal(t, 3, strings.Count(stderr, "Data successfully saved"))

	csvDoc, err := os.ReadFile(filepath.Join(dir, "currencies.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"ID,NumCode,Nominal,Name,Value,Previous,CharCode\r\n"+
			"R01235,840,1,Доллар США,81.1746,80.9843,USD\r\n"+
			"R01239,978,1,Евро,94.2519,94.0117,EUR\r\n",
		string(csvDoc))

	for _, ext := range []string{"yaml", "json"} {
		_, err := os.Stat(filepath.Join(dir, "currencies."+ext))
		assert.NoError(t, err)
	}
}

func TestExportSubcommandWithFlags(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK)
	dir := t.TempDir()

	stdout, _, err := run(t, "export", "--url", upstream.URL, "--out-dir", dir, "--formats", "json", "--sample-chars", "0")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, err = os.Stat(filepath.Join(dir, "currencies.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "currencies.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportUpstreamFailureWritesEmptyDocuments(t *testing.T) {
	upstream := newUpstream(t, http.StatusInternalServerError)
	dir := t.TempDir()

	stdout, stderr, err := run(t, "--url", upstream.URL, "--out-dir", dir)
	require.NoError(t, err)

	assert.Equal(t, "--- YAML DATA SAMPLE ---\n[]\n...\n", stdout)
	assert.Contains(t, stderr, "Failed to fetch currency data")

	yamlDoc, err := os.ReadFile(filepath.Join(dir, "currencies.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(yamlDoc))

	jsonDoc, err := os.ReadFile(filepath.Join(dir, "currencies.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(jsonDoc))

	_, err = os.Stat(filepath.Join(dir, "currencies.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportErrors(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK)

	_, _, err := run(t, "--url", upstream.URL, "--out-dir", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist yaml")

	_, _, err = run(t, "--formats", "xml")
	assert.Error(t, err)

	_, _, err = run(t, "--sample-chars", "-1")
	assert.Error(t, err)
}

func TestSnapshotsCaptureListShow(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK)
	archive := t.TempDir()

	stdout, _, err := run(t, "snapshots", "capture", "--archive", archive, "--url", upstream.URL)
	require.NoError(t, err)
	id := strings.TrimSpace(stdout)
	require.Len(t, id, 36)

	stdout, _, err = run(t, "snapshots", "list", "--archive", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "RECORDS")
	assert.Contains(t, stdout, id)
	assert.Contains(t, stdout, upstream.URL)

	stdout, _, err = run(t, "snapshots", "show", id, "--archive", archive, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "ID,NumCode,Nominal,Name,Value,Previous,CharCode\r\n"))

	stdout, _, err = run(t, "snapshots", "show", id, "--archive", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Name: Доллар США")

	_, _, err = run(t, "snapshots", "show", "missing-id", "--archive", archive)
	assert.Error(t, err)
}

func TestSnapshotsCaptureRefusesEmptyFetch(t *testing.T) {
	upstream := newUpstream(t, http.StatusBadGateway)

	_, _, err := run(t, "snapshots", "capture", "--archive", t.TempDir(), "--url", upstream.URL)
	assert.Error(t, err)
}

func TestExportArchive(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK)
	archive := t.TempDir()
	t.Setenv("ARCHIVE_PATH", archive)

	_, _, err := run(t, "--url", upstream.URL, "--out-dir", t.TempDir(), "--archive")
	require.NoError(t, err)

	stdout, _, err := run(t, "snapshots", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 2)
}
