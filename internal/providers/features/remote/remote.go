// Package remote calls an HTTP image feature service.
//
// The service accepts {"image": "<base64>"} and answers {"features": [...]}.
package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"market-sentiment/internal/api"
)

// maxResponseBytes fits a few thousand floats as JSON.
const maxResponseBytes = 2 << 20

type Extractor struct {
	client   *api.Client
	endpoint string
}

func New(endpoint string, timeout time.Duration) *Extractor {
	return &Extractor{
		client:   api.NewClient(
			api.WithTimeout(timeout),
			api.WithLogging(true),
			api.WithMaxBodyBytes(maxResponseBytes),
		),
		endpoint: endpoint,
	}
}

func (e *Extractor) Extract(ctx context.Context, image []byte) ([]float64, error) {
	resp, err := e.client.POST(ctx, e.endpoint, map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("feature service: %w", err)
	}

	var out struct {
		Features []float64 `json:"features"`
	}
	if err := resp.ParseJSON(&out); err != nil {
		return nil, err
	}
	if len(out.Features) == 0 {
		return nil, fmt.Errorf("feature service returned no features")
	}
	return out.Features, nil
}
