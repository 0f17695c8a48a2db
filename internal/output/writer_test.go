package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

func sampleSnapshot() map[model.ProxyType][]model.ProbeResult {
	return map[model.ProxyType][]model.ProbeResult{
		model.TypeHTTP: {
			{
				Endpoint:   model.Endpoint{Host: "1.2.3.4", Port: 8080, Type: model.TypeHTTP},
				Outcome:    model.OutcomeSuccess,
				StatusCode: 200,
				Latency:    120 * time.Millisecond,
				Anonymity:  model.AnonymityAnonymous,
				Location:   &model.GeoInfo{Country: "Germany", Region: "Hesse", City: "Frankfurt"},
			},
			{
				Endpoint: model.Endpoint{Host: "5.6.7.8", Port: 3128, Type: model.TypeHTTP},
				Outcome:  model.OutcomeFailure,
				Error:    "timeout",
			},
		},
		model.TypeSOCKS5: {
			{
				Endpoint: model.Endpoint{Host: "9.9.9.9", Port: 1080, Type: model.TypeSOCKS5},
				Outcome:  model.OutcomeSuccess,
			},
		},
	}
}

func TestWriteResults_TextKeepsOnlyWorking(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteResults(dir, "txt", sampleSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "http.txt"))
	require.NoError(t, err)
	require.Equal(t, "1.2.3.4:8080\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "socks5.txt"))
	require.NoError(t, err)
	require.Equal(t, "9.9.9.9:1080\n", string(data))

	// No socks4 results were recorded, so no file is written.
	_, err = os.Stat(filepath.Join(dir, "socks4.txt"))
	require.True(t, os.IsNotExist(err))
}

func TestWriteResults_CSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteResults(dir, "csv", sampleSnapshot()))

	f, err := os.Open(filepath.Join(dir, "http.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 results
	require.Equal(t, "host", rows[0][0])
	require.Equal(t, []string{"1.2.3.4", "8080", "http", "y", "120", "200", "", "anonymous", "Germany", "Hesse", "Frankfurt", ""}, rows[1])
	require.Equal(t, "timeout", rows[2][len(rows[2])-1])
}

func TestWriteResults_JSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteResults(dir, "json", sampleSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "socks5.json"))
	require.NoError(t, err)

	var parsed []model.ProbeResult
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 1)
	require.Equal(t, "9.9.9.9", parsed[0].Endpoint.Host)
}

func TestWriteResults_UnsupportedFormat(t *testing.T) {
	require.Error(t, WriteResults(t.TempDir(), "xml", sampleSnapshot()))
}

func TestAppendHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	sum := model.Summary{
		TotalChecked: 10,
		TotalWorking: 4,
		Elapsed:      90 * time.Second,
		Status:       model.StatusCompleted,
	}

	require.NoError(t, AppendHistory(path, sum))
	require.NoError(t, AppendHistory(path, sum))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "checked=10")
	require.Contains(t, lines[0], "working=4")
	require.Contains(t, lines[0], "status=completed")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, model.Summary{
		TotalChecked: 5,
		TotalWorking: 3,
		PerType: map[model.ProxyType]model.TypeStats{
			model.TypeHTTP: {Checked: 5, Working: 3},
		},
		Elapsed: 2 * time.Second,
		Status:  model.StatusCompleted,
	})

	out := buf.String()
	require.Contains(t, out, "Total checked:  5")
	require.Contains(t, out, "Total working:  3")
	require.Contains(t, out, "completed")
}

func TestPrintResultsTable(t *testing.T) {
	var buf bytes.Buffer
	PrintResultsTable(&buf, sampleSnapshot())

	out := buf.String()
	require.Contains(t, out, "1.2.3.4:8080")
	require.Contains(t, out, "9.9.9.9:1080")
	require.Contains(t, out, "timeout")
}
