// Package digest turns a day of the audit journal into a per-asset CSV
// summary.
package digest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"market-sentiment/internal/auditlog"
	"market-sentiment/internal/interfaces"
)

var header = []string{"symbol", "analyses", "positive", "negative", "neutral", "avg_confidence", "predictions", "avg_change_pct"}

type aggRow struct {
	Symbol        string
	Analyses      int
	Positive      int
	Negative      int
	Neutral       int
	ConfidenceSum float64
	Predictions   int
	ChangeSum     float64
}

type summarizer struct {
	journal *auditlog.Journal
	now     func() time.Time
}

var _ interfaces.DigestBuilder = (*summarizer)(nil)

// New returns a DigestBuilder reading from journal. CSVs are written to
// <journal dir>/digest/YYYY-MM-DD.csv.
func New(journal *auditlog.Journal) interfaces.DigestBuilder {
	return &summarizer{journal: journal, now: time.Now}
}

// CSVPath is where the digest of the IST day containing t is written.
func CSVPath(journal *auditlog.Journal, t time.Time) string {
	d := t.In(auditlog.IST).Format("2006-01-02")
	return filepath.Join(journal.Dir(), "digest", d+".csv")
}

func (s *summarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(s.now())
}

// SummarizeDay writes the digest for the IST day containing t. It returns
// an empty path and no error when the day has no journal entries.
func (s *summarizer) SummarizeDay(t time.Time) (string, error) {
	aggs := map[string]*aggRow{}
	row := func(symbol string) *aggRow {
		r := aggs[symbol]
		if r == nil {
			r = &aggRow{Symbol: symbol}
			aggs[symbol] = r
		}
		return r
	}

	err := scanLines(s.journal.AnalysesPath(t), func(b []byte) {
		var e auditlog.AnalysisEntry
		if json.Unmarshal(b, &e) != nil || e.Symbol == "" {
			return
		}
		r := row(e.Symbol)
		r.Analyses++
		r.ConfidenceSum += e.Confidence
		switch e.Label {
		case "positive":
			r.Positive++
		case "negative":
			r.Negative++
		default:
			r.Neutral++
		}
	})
	if err != nil {
		return "", err
	}

	err = scanLines(s.journal.PredictionsPath(t), func(b []byte) {
		var e auditlog.PredictionEntry
		if json.Unmarshal(b, &e) != nil || e.Symbol == "" {
			return
		}
		r := row(e.Symbol)
		r.Predictions++
		r.ChangeSum += e.ChangePct
	})
	if err != nil {
		return "", err
	}

	if len(aggs) == 0 {
		return "", nil
	}
	return writeCSV(CSVPath(s.journal, t), aggs)
}

// scanLines calls fn for each line of p. A missing file has no lines.
func scanLines(p string, fn func([]byte)) error {
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fn(sc.Bytes())
	}
	return sc.Err()
}

func writeCSV(outPath string, aggs map[string]*aggRow) (string, error) {
	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return "", err
	}

	var total aggRow
	for _, k := range keys {
		r := aggs[k]
		if err := w.Write(r.record()); err != nil {
			return "", err
		}
		total.Analyses += r.Analyses
		total.Positive += r.Positive
		total.Negative += r.Negative
		total.Neutral += r.Neutral
		total.ConfidenceSum += r.ConfidenceSum
		total.Predictions += r.Predictions
		total.ChangeSum += r.ChangeSum
	}
	total.Symbol = "TOTAL"
	if err := w.Write(total.record()); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write digest: %w", err)
	}
	return outPath, nil
}

func (r *aggRow) record() []string {
	var avgConf, avgChange float64
	if r.Analyses > 0 {
		avgConf = r.ConfidenceSum / float64(r.Analyses)
	}
	if r.Predictions > 0 {
		avgChange = r.ChangeSum / float64(r.Predictions)
	}
	return []string{
		r.Symbol,
		strconv.Itoa(r.Analyses),
		strconv.Itoa(r.Positive),
		strconv.Itoa(r.Negative),
		strconv.Itoa(r.Neutral),
		fmt.Sprintf("%.4f", avgConf),
		strconv.Itoa(r.Predictions),
		fmt.Sprintf("%.2f", avgChange),
	}
}
