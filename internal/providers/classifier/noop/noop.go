package noop

import (
	"context"
	"fmt"

	"market-sentiment/internal/types"
)

// Classifier is used when no text model is configured. It is never
// available, so the keyword scorer always runs.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Available() bool { return false }

func (c *Classifier) Classify(ctx context.Context, text string) (types.ClassResult, error) {
	return types.ClassResult{}, fmt.Errorf("no text classifier configured: %w", types.ErrProviderUnavailable)
}
