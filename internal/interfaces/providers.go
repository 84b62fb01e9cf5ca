package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

// TextClassifier is a three-class sentiment model.
type TextClassifier interface {
	Available() bool
	Classify(ctx context.Context, text string) (types.ClassResult, error)
}

type FeatureExtractor interface {
	Extract(ctx context.Context, image []byte) ([]float64, error)
}

type OCR interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
