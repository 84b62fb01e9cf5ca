package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/api"
	"market-sentiment/internal/types"
)

func newTestClassifier(t *testing.T, flavor Flavor, h http.HandlerFunc) *Classifier {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Params{
		Flavor:   flavor,
		Endpoint: srv.URL + "/v1/chat",
		Model:    "test-model",
		APIKey:   "secret",
		Timeout:  time.Second,
		Retry:    &api.RetryConfig{MaxAttempts: 1},
	})
}

func TestClassifyOpenAI(t *testing.T) {
	c := newTestClassifier(t, OpenAI, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0]["role"])
		assert.Equal(t, "profits soar", body.Messages[1]["content"])

		w.Write([]byte(`{"choices":[{"message":{"content":"{\"label\":\"positive\",\"score\":0.82}"}}]}`))
	})

	res, err := c.Classify(context.Background(), "profits soar")
	require.NoError(t, err)
	assert.Equal(t, types.ClassResult{ClassIndex: 2, Score: 0.82}, res)
}

func TestClassifyClaude(t *testing.T) {
	c := newTestClassifier(t, Claude, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, systemPrompt, body["system"])

		w.Write([]byte(`{"content":[{"type":"text","text":"Sure: {\"label\":\"Negative\",\"score\":0.7}"}]}`))
	})

	res, err := c.Classify(context.Background(), "losses widen")
	require.NoError(t, err)
	assert.Equal(t, types.ClassResult{ClassIndex: 0, Score: 0.7}, res)
}

func TestClassifyFailuresAreUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"no choices":   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"choices":[]}`)) },
		"prose only": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":"It looks positive."}}]}`))
		},
		"bad label": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":"{\"label\":\"bullish\",\"score\":0.9}"}}]}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newTestClassifier(t, OpenAI, h).Classify(context.Background(), "x")
			assert.ErrorIs(t, err, types.ErrProviderUnavailable)
		})
	}
}

func TestClassifyWithoutKey(t *testing.T) {
	c := New(Params{Flavor: Claude, Endpoint: "http://127.0.0.1:1"})
	assert.False(t, c.Available())
	_, err := c.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, types.ErrProviderUnavailable)
}

func TestParseVerdict(t *testing.T) {
	res, err := parseVerdict("```json\n{\"label\": \"neutral\", \"score\": 0.55}\n```")
	require.NoError(t, err)
	assert.Equal(t, types.ClassResult{ClassIndex: 1, Score: 0.55}, res)

	_, err = parseVerdict(`{"label":"positive","score":1.5}`)
	assert.Error(t, err)
}
