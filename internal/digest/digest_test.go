package digest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/auditlog"
)

func writeJournal(t *testing.T, p string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func readCSV(t *testing.T, p string) [][]string {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSummarizeDay(t *testing.T) {
	j := auditlog.New(t.TempDir())
	day := time.Date(2024, 5, 6, 10, 0, 0, 0, auditlog.IST)

	writeJournal(t, j.AnalysesPath(day),
		`{"symbol":"TCS","label":"positive","confidence":0.8}`,
		`{"symbol":"TCS","label":"negative","confidence":0.6}`,
		`{"symbol":"INFY","label":"neutral","confidence":0.5}`,
		`not json`,
		`{"label":"positive"}`,
	)
	writeJournal(t, j.PredictionsPath(day),
		`{"symbol":"TCS","change_pct":1.5}`,
		`{"symbol":"AAPL","change_pct":-0.5}`,
		`{"symbol":"AAPL","change_pct":-1.5}`,
	)

	p, err := New(j).SummarizeDay(day)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(j.Dir(), "digest", "2024-05-06.csv"), p)

	rows := readCSV(t, p)
	require.Len(t, rows, 5)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{"AAPL", "0", "0", "0", "0", "0.0000", "2", "-1.00"}, rows[1])
	assert.Equal(t, []string{"INFY", "1", "0", "0", "1", "0.5000", "0", "0.00"}, rows[2])
	assert.Equal(t, []string{"TCS", "2", "1", "1", "0", "0.7000", "1", "1.50"}, rows[3])
	assert.Equal(t, []string{"TOTAL", "3", "1", "1", "1", "0.6333", "3", "-0.17"}, rows[4])
}

func TestSummarizeDayWithoutEntries(t *testing.T) {
	j := auditlog.New(t.TempDir())
	p, err := New(j).SummarizeDay(time.Now())
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestSummarizeTodayReadsAppendedEntries(t *testing.T) {
	j := auditlog.New(t.TempDir())
	require.NoError(t, j.AppendAnalysis(auditlog.AnalysisEntry{Symbol: "BTC-USD", Label: "positive", Confidence: 0.9}))
	require.NoError(t, j.AppendPrediction(auditlog.PredictionEntry{Symbol: "BTC-USD", ChangePct: 3}))

	p, err := New(j).SummarizeToday()
	require.NoError(t, err)
	require.NotEmpty(t, p)

	rows := readCSV(t, p)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"BTC-USD", "1", "1", "0", "0", "0.9000", "1", "3.00"}, rows[1])
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	j := auditlog.New(t.TempDir())
	_, err := Schedule("every day", New(j), j, 7)
	assert.Error(t, err)

	c, err := Schedule("40 15 * * *", New(j), j, 7)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
