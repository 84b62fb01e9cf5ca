package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/types"
)

// ModelInputLimit is the number of characters sent to the text classifier.
const ModelInputLimit = 512

var classLabels = [3]types.SentimentLabel{types.Negative, types.Neutral, types.Positive}

// ModelScorer adapts a TextClassifier to a sentiment judgment.
type ModelScorer struct {
	classifier interfaces.TextClassifier
}

func NewModelScorer(classifier interfaces.TextClassifier) *ModelScorer {
	return &ModelScorer{classifier: classifier}
}

func (m *ModelScorer) Available() bool {
	return m != nil && m.classifier != nil && m.classifier.Available()
}

// Score classifies the first ModelInputLimit characters of text. Malformed
// classifier output is reported as ErrProviderUnavailable.
func (m *ModelScorer) Score(ctx context.Context, text string) (types.SentimentJudgment, error) {
	res, err := m.classifier.Classify(ctx, truncateRunes(text, ModelInputLimit))
	if err != nil {
		return types.SentimentJudgment{}, err
	}
	if res.ClassIndex < 0 || res.ClassIndex >= len(classLabels) {
		return types.SentimentJudgment{}, fmt.Errorf("class index %d out of range: %w", res.ClassIndex, types.ErrProviderUnavailable)
	}
	if res.Score < 0 || res.Score > 1 {
		return types.SentimentJudgment{}, fmt.Errorf("class score %.4f out of range: %w", res.Score, types.ErrProviderUnavailable)
	}
	return types.SentimentJudgment{
		Label:  classLabels[res.ClassIndex],
		Score:  res.Score,
		Extras: types.JudgmentExtras{Method: types.MethodModel},
	}, nil
}

// HybridScorer tries the model first and falls back to keywords when the
// model is unavailable. Other model errors are returned to the caller.
type HybridScorer struct {
	model   *ModelScorer
	keyword *KeywordScorer
}

func NewHybridScorer(classifier interfaces.TextClassifier) *HybridScorer {
	return &HybridScorer{
		model:   NewModelScorer(classifier),
		keyword: NewKeywordScorer(),
	}
}

func (h *HybridScorer) Score(ctx context.Context, text string) (types.SentimentJudgment, error) {
	if strings.TrimSpace(text) == "" {
		return neutralJudgment(""), nil
	}

	if h.model.Available() {
		j, err := h.model.Score(ctx, text)
		if err == nil {
			return j, nil
		}
		if !errors.Is(err, types.ErrProviderUnavailable) {
			return types.SentimentJudgment{}, fmt.Errorf("text classification failed: %w", err)
		}
		logger.Warn(ctx, "Text classifier unavailable, using keyword scorer", "error", err)
	}

	return h.keyword.Score(text), nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
