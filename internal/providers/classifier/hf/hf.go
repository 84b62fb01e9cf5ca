// Package hf classifies text sentiment with the Hugging Face Inference API.
package hf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"market-sentiment/internal/api"
	"market-sentiment/internal/types"
)

// maxResponseBytes caps a classification response.
const maxResponseBytes = 256 << 10

type Params struct {
	Endpoint string // e.g. https://api-inference.huggingface.co/models
	Model    string
	Token    string
	Timeout  time.Duration
	Retry    *api.RetryConfig
}

type Classifier struct {
	client *api.Client
	url    string
	token  string
	retry  *api.RetryConfig
}

func New(p Params) *Classifier {
	if p.Timeout == 0 {
		p.Timeout = 15 * time.Second
	}
	if p.Retry == nil {
		p.Retry = &api.RetryConfig{MaxAttempts: 2, InitialWait: time.Second, MaxWait: 2 * time.Second}
	}
	return &Classifier{
		client: api.NewClient(
			api.WithTimeout(p.Timeout),
			api.WithLogging(true),
			api.WithMaxBodyBytes(maxResponseBytes),
		),
		url:    strings.TrimRight(p.Endpoint, "/") + "/" + strings.TrimLeft(p.Model, "/"),
		token:  p.Token,
		retry:  p.Retry,
	}
}

// Available reports whether an API token is configured.
func (c *Classifier) Available() bool {
	return c.token != ""
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Classifier) Classify(ctx context.Context, text string) (types.ClassResult, error) {
	if !c.Available() {
		return types.ClassResult{}, fmt.Errorf("hf token missing: %w", types.ErrProviderUnavailable)
	}

	req := api.NewRequest(http.MethodPost, c.url).
		WithContext(ctx).
		WithHeader("Authorization", "Bearer "+c.token).
		WithBody(map[string]any{
			"inputs":  text,
			"options": map[string]bool{"wait_for_model": true},
		})

	resp, err := c.client.DoWithRetry(req, c.retry)
	if err != nil {
		return types.ClassResult{}, fmt.Errorf("hf inference: %v: %w", err, types.ErrProviderUnavailable)
	}

	cands, err := parseCandidates(resp)
	if err != nil {
		return types.ClassResult{}, fmt.Errorf("hf response: %v: %w", err, types.ErrProviderUnavailable)
	}

	best := cands[0]
	for _, cd := range cands[1:] {
		if cd.Score > best.Score {
			best = cd
		}
	}
	idx, ok := classIndex(best.Label)
	if !ok {
		return types.ClassResult{}, fmt.Errorf("hf label %q unknown: %w", best.Label, types.ErrProviderUnavailable)
	}
	return types.ClassResult{ClassIndex: idx, Score: best.Score}, nil
}

// parseCandidates accepts both the nested [[...]] and flat [...] shapes the
// API returns for text classification.
func parseCandidates(resp *api.Response) ([]candidate, error) {
	var nested [][]candidate
	if err := resp.ParseJSON(&nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	var flat []candidate
	if err := resp.ParseJSON(&flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	return nil, errors.New("no classification candidates")
}

func classIndex(label string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "label_0", "negative":
		return 0, true
	case "label_1", "neutral":
		return 1, true
	case "label_2", "positive":
		return 2, true
	}
	return 0, false
}
