// Package llm classifies text sentiment by prompting a chat model (OpenAI
// chat completions or the Anthropic messages API) for a JSON verdict.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"market-sentiment/internal/api"
	"market-sentiment/internal/types"
)

// Flavor selects the wire format of the chat API.
type Flavor string

const (
	OpenAI Flavor = "OPENAI"
	Claude Flavor = "CLAUDE"
)

const anthropicVersion = "2023-06-01"

// maxResponseBytes caps a chat completion response.
const maxResponseBytes = 256 << 10

const systemPrompt = "You classify the market sentiment of financial news. " +
	`Respond ONLY with compact JSON: {"label":"positive|neutral|negative","score":<0..1>}`

type Params struct {
	Flavor    Flavor
	Endpoint  string
	Model     string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
	Retry     *api.RetryConfig
}

type Classifier struct {
	client *api.Client
	p      Params
}

func New(p Params) *Classifier {
	if p.Timeout == 0 {
		p.Timeout = 15 * time.Second
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 60
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
		p:      p,
	}
}

// Available reports whether an API key is configured.
func (c *Classifier) Available() bool {
	return c.p.APIKey != ""
}

func (c *Classifier) Classify(ctx context.Context, text string) (types.ClassResult, error) {
	if !c.Available() {
		return types.ClassResult{}, fmt.Errorf("%s api key missing: %w", strings.ToLower(string(c.p.Flavor)), types.ErrProviderUnavailable)
	}

	req := api.NewRequest(http.MethodPost, c.p.Endpoint).WithContext(ctx)
	switch c.p.Flavor {
	case Claude:
		req.WithHeader("x-api-key", c.p.APIKey).
			WithHeader("anthropic-version", anthropicVersion).
			WithBody(map[string]any{
				"model":       c.p.Model,
				"system":      systemPrompt,
				"messages":    []map[string]string{{"role": "user", "content": text}},
				"max_tokens":  c.p.MaxTokens,
				"temperature": 0,
			})
	default:
		req.WithHeader("Authorization", "Bearer "+c.p.APIKey).
			WithBody(map[string]any{
				"model": c.p.Model,
				"messages": []map[string]string{
					{"role": "system", "content": systemPrompt},
					{"role": "user", "content": text},
				},
				"max_tokens":  c.p.MaxTokens,
				"temperature": 0,
			})
	}

	resp, err := c.client.DoWithRetry(req, c.p.Retry)
	if err != nil {
		return types.ClassResult{}, fmt.Errorf("%s call: %v: %w", strings.ToLower(string(c.p.Flavor)), err, types.ErrProviderUnavailable)
	}

	content, err := c.content(resp)
	if err != nil {
		return types.ClassResult{}, fmt.Errorf("%s response: %v: %w", strings.ToLower(string(c.p.Flavor)), err, types.ErrProviderUnavailable)
	}
	res, err := parseVerdict(content)
	if err != nil {
		return types.ClassResult{}, fmt.Errorf("%s verdict: %v: %w", strings.ToLower(string(c.p.Flavor)), err, types.ErrProviderUnavailable)
	}
	return res, nil
}

// content extracts the assistant text from either response shape.
func (c *Classifier) content(resp *api.Response) (string, error) {
	if c.p.Flavor == Claude {
		var r struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := resp.ParseJSON(&r); err != nil {
			return "", err
		}
		for _, part := range r.Content {
			if part.Type == "text" && strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
		return "", errors.New("no text content")
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return r.Choices[0].Message.Content, nil
}

type verdict struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// parseVerdict reads the first JSON object in text. Models sometimes wrap
// it in prose or code fences.
func parseVerdict(text string) (types.ClassResult, error) {
	t := strings.TrimSpace(text)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return types.ClassResult{}, fmt.Errorf("no JSON object in %q", truncate(t, 80))
	}

	var v verdict
	if err := json.Unmarshal([]byte(t[start:end+1]), &v); err != nil {
		return types.ClassResult{}, err
	}

	var idx int
	switch strings.ToLower(strings.TrimSpace(v.Label)) {
	case "negative":
		idx = 0
	case "neutral":
		idx = 1
	case "positive":
		idx = 2
	default:
		return types.ClassResult{}, fmt.Errorf("unknown label %q", v.Label)
	}
	if v.Score < 0 || v.Score > 1 {
		return types.ClassResult{}, fmt.Errorf("score %.3f out of range", v.Score)
	}
	return types.ClassResult{ClassIndex: idx, Score: v.Score}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
