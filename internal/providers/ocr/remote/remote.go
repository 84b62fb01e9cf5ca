// Package remote calls an HTTP OCR service.
//
// The service accepts {"image": "<base64>"} and answers {"text": "..."}.
package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"market-sentiment/internal/api"
	"market-sentiment/internal/types"
)

const maxResponseBytes = 1 << 20

type OCR struct {
	client   *api.Client
	endpoint string
}

func New(endpoint string, timeout time.Duration) *OCR {
	return &OCR{
		client:   api.NewClient(
			api.WithTimeout(timeout),
			api.WithLogging(true),
			api.WithMaxBodyBytes(maxResponseBytes),
		),
		endpoint: endpoint,
	}
}

func (o *OCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	resp, err := o.client.POST(ctx, o.endpoint, map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", fmt.Errorf("ocr service: %v: %w", err, types.ErrProviderUnavailable)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := resp.ParseJSON(&out); err != nil {
		return "", fmt.Errorf("ocr service: %v: %w", err, types.ErrProviderUnavailable)
	}
	return strings.Join(strings.Fields(out.Text), " "), nil
}
