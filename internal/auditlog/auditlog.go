// Package auditlog keeps an append-only JSON-lines journal of analyses and
// predictions, one file per IST day.
package auditlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// IST is the zone journal days are cut in.
var IST = time.FixedZone("IST", 19800)

const (
	analysesDir    = "analyses"
	predictionsDir = "predictions"
	ext            = ".jsonl"
	timeLayout     = "2006-01-02 15:04:05"
)

type AnalysisEntry struct {
	Time       string  `json:"time"`
	AnalysisID uint    `json:"analysis_id"`
	Source     string  `json:"source"` // image or url
	Symbol     string  `json:"symbol"`
	Label      string  `json:"label"`
	Scalar     float64 `json:"scalar"`
	Confidence float64 `json:"confidence"`
	SourceURL  string  `json:"source_url,omitempty"`
	Impact     string  `json:"impact,omitempty"`
}

type PredictionEntry struct {
	Time           string  `json:"time"`
	PredictionID   uint    `json:"prediction_id"`
	Symbol         string  `json:"symbol"`
	CurrentPrice   float64 `json:"current_price"`
	PredictedPrice float64 `json:"predicted_price"`
	ChangePct      float64 `json:"change_pct"`
	SentimentScore float64 `json:"sentiment_score"`
	HorizonHours   int     `json:"horizon_hours"`
	Confidence     float64 `json:"confidence"`
}

// Journal writes entries under dir. It is safe for concurrent use.
type Journal struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs"
	}
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) Dir() string { return j.dir }

// AnalysesPath is the analyses journal of the IST day containing t.
func (j *Journal) AnalysesPath(t time.Time) string {
	return j.dayPath(analysesDir, t)
}

// PredictionsPath is the predictions journal of the IST day containing t.
func (j *Journal) PredictionsPath(t time.Time) string {
	return j.dayPath(predictionsDir, t)
}

func (j *Journal) dayPath(kind string, t time.Time) string {
	d := t.In(IST).Format("2006-01-02")
	return filepath.Join(j.dir, kind, d+ext)
}

// AppendAnalysis stamps e with the current IST time and appends it.
func (j *Journal) AppendAnalysis(e AnalysisEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().In(IST)
	e.Time = now.Format(timeLayout)
	return appendLine(j.AnalysesPath(now), e)
}

// AppendPrediction stamps e with the current IST time and appends it.
func (j *Journal) AppendPrediction(e PredictionEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().In(IST)
	e.Time = now.Format(timeLayout)
	return appendLine(j.PredictionsPath(now), e)
}

func appendLine(p string, v any) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago and removes the originals. A non-positive retention keeps everything.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ext {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	_, copyErr := io.Copy(gw, in)
	closeErr := gw.Close()
	if err := out.Close(); err != nil && copyErr == nil && closeErr == nil {
		copyErr = err
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(dst)
	}
	return copyErr
}
