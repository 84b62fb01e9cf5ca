package providerobs

import (
	"context"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

// observableClassifier wraps a TextClassifier with logging & tracing
type observableClassifier struct {
	classifier interfaces.TextClassifier
}

var _ interfaces.TextClassifier = (*observableClassifier)(nil)

// WrapClassifier wraps a text classifier with observability middleware
func WrapClassifier(c interfaces.TextClassifier) interfaces.TextClassifier {
	return &observableClassifier{classifier: c}
}

func (o *observableClassifier) Available() bool {
	return o.classifier.Available()
}

func (o *observableClassifier) Classify(ctx context.Context, text string) (types.ClassResult, error) {
	ctx, span := trace.StartSpan(ctx, "providers.Classify")
	defer span.End()

	res, err := o.classifier.Classify(ctx, text)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Text classification failed", err, "chars", len(text))
		return res, err
	}

	logger.DebugSkip(ctx, 1, "Text classified",
		"class_index", res.ClassIndex,
		"score", res.Score,
	)
	return res, nil
}

type observableExtractor struct {
	extractor interfaces.FeatureExtractor
}

var _ interfaces.FeatureExtractor = (*observableExtractor)(nil)

// WrapFeatures wraps a feature extractor with observability middleware
func WrapFeatures(e interfaces.FeatureExtractor) interfaces.FeatureExtractor {
	return &observableExtractor{extractor: e}
}

func (o *observableExtractor) Extract(ctx context.Context, image []byte) ([]float64, error) {
	ctx, span := trace.StartSpan(ctx, "providers.ExtractFeatures")
	defer span.End()

	feats, err := o.extractor.Extract(ctx, image)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Image feature extraction failed", err, "bytes", len(image))
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Image features extracted", "bytes", len(image), "dimensions", len(feats))
	return feats, nil
}

type observableOCR struct {
	ocr interfaces.OCR
}

var _ interfaces.OCR = (*observableOCR)(nil)

// WrapOCR wraps an OCR provider with observability middleware
func WrapOCR(o interfaces.OCR) interfaces.OCR {
	return &observableOCR{ocr: o}
}

func (o *observableOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	ctx, span := trace.StartSpan(ctx, "providers.ExtractText")
	defer span.End()

	text, err := o.ocr.ExtractText(ctx, image)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "OCR failed", err, "bytes", len(image))
		return "", err
	}

	logger.DebugSkip(ctx, 1, "OCR completed", "bytes", len(image), "chars", len(text))
	return text, nil
}
