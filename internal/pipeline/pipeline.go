// Package pipeline wires providers, the sentiment core and persistence into
// the per-request analysis and projection flows.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"market-sentiment/internal/analysis"
	"market-sentiment/internal/assets"
	"market-sentiment/internal/auditlog"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/models"
	"market-sentiment/internal/predict"
	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/types"
)

const (
	defaultMaxInsights = 5
	defaultTextCap     = 5000
	previewRunes       = 500
)

// Deps are the collaborators of an Analyzer. Journal is optional.
type Deps struct {
	Classifier interfaces.TextClassifier
	Features   interfaces.FeatureExtractor
	OCR        interfaces.OCR
	Fetcher    interfaces.ArticleFetcher
	Store      interfaces.Store
	Journal    *auditlog.Journal

	MaxInsights int
	TextCap     int
}

// Analyzer runs every stage of one request sequentially.
type Analyzer struct {
	features    interfaces.FeatureExtractor
	ocr         interfaces.OCR
	fetcher     interfaces.ArticleFetcher
	store       interfaces.Store
	journal     *auditlog.Journal
	text        *sentiment.HybridScorer
	maxInsights int
	textCap     int
}

var _ interfaces.Pipeline = (*Analyzer)(nil)

func New(d Deps) *Analyzer {
	a := &Analyzer{
		features:    d.Features,
		ocr:         d.OCR,
		fetcher:     d.Fetcher,
		store:       d.Store,
		journal:     d.Journal,
		text:        sentiment.NewHybridScorer(d.Classifier),
		maxInsights: d.MaxInsights,
		textCap:     d.TextCap,
	}
	if a.maxInsights == 0 {
		a.maxInsights = defaultMaxInsights
	}
	if a.textCap == 0 {
		a.textCap = defaultTextCap
	}
	return a
}

// AnalyzeImage scores an uploaded image and the text read from it.
func (a *Analyzer) AnalyzeImage(ctx context.Context, req types.ImageRequest) (*types.ImageAnalysis, error) {
	if len(req.Image) == 0 {
		return nil, fmt.Errorf("%w: no image file provided", types.ErrValidation)
	}
	if mt := mimetype.Detect(req.Image); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: uploaded file is not an image (%s)", types.ErrValidation, mt.String())
	}

	text := a.readImageText(ctx, req.Image)
	identity, _ := resolveAsset(req.Symbol, text)

	textJ, err := a.scoreText(ctx, text)
	if err != nil {
		return nil, err
	}
	imageJ := a.scoreImage(ctx, req.Image, text, textJ)
	fused := sentiment.Fuse(imageJ, textJ)

	rec := &models.SentimentAnalysis{
		SourceURL:         strings.TrimSpace(req.SourceURL),
		ExtractedText:     capRunes(text, a.textCap),
		ImageSentiment:    imageJ.Label.Lower(),
		TextSentiment:     textJ.Label.Lower(),
		CombinedSentiment: fused.Label.Lower(),
		Confidence:        fused.Score,
	}
	asset, err := a.store.SaveAnalysis(ctx, identity, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	a.recordAnalysis(ctx, "image", asset.Symbol, rec, fused.Scalar, "")

	return &types.ImageAnalysis{
		AnalysisID:     rec.ID,
		DetectedAsset:  asset.Symbol,
		AssetName:      asset.Name,
		ExtractedText:  text,
		ImageSentiment: string(imageJ.Label),
		TextSentiment:  string(textJ.Label),
		Combined:       string(fused.Label),
		Confidence:     fused.Score,
		ImageJudgment:  imageJ,
		TextJudgment:   textJ,
		Fused:          fused,
	}, nil
}

// AnalyzeURL fetches an article and runs the full analysis on it.
func (a *Analyzer) AnalyzeURL(ctx context.Context, req types.URLRequest) (*types.ArticleAnalysis, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: URL is required", types.ErrValidation)
	}

	article, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	text := article.Text
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no readable article content at %s", types.ErrUpstreamFetch, url)
	}

	identity, detected := resolveAsset(req.Symbol, text)

	textJ, err := a.scoreText(ctx, text)
	if err != nil {
		return nil, err
	}

	var imageJ types.SentimentJudgment
	if len(article.ImageBytes) > 0 {
		imageJ = a.scoreImage(ctx, article.ImageBytes, text, textJ)
	} else {
		imageJ = synthesize(text, textJ, sentiment.ImageAbsent)
	}
	fused := sentiment.Fuse(imageJ, textJ)

	confidence := analysis.Confidence(text, fused.Scalar, detected)
	impact := analysis.AnalyzeImpact(text, fused.Scalar)
	insights := analysis.ExtractInsights(text, a.maxInsights)
	summary := analysis.Summarize(textJ.Label, imageJ.Label, fused.Label, confidence)

	rec := &models.SentimentAnalysis{
		SourceURL:         url,
		ExtractedText:     capRunes(text, a.textCap),
		ImageSentiment:    imageJ.Label.Lower(),
		TextSentiment:     textJ.Label.Lower(),
		CombinedSentiment: fused.Label.Lower(),
		Confidence:        confidence,
	}
	asset, err := a.store.SaveAnalysis(ctx, identity, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	a.recordAnalysis(ctx, "url", asset.Symbol, rec, fused.Scalar, string(impact.Level))

	return &types.ArticleAnalysis{
		AnalysisID:     rec.ID,
		ArticleTitle:   article.Title,
		DetectedAsset:  asset.Symbol,
		AssetName:      asset.Name,
		AssetType:      identity.Type,
		SourceURL:      url,
		TextPreview:    capRunes(text, previewRunes),
		FullTextLength: len([]rune(text)),
		Sentiment: types.SentimentBreakdown{
			Image:      types.LabelScore{Label: imageJ.Label, Score: imageJ.Score},
			Text:       types.LabelScore{Label: textJ.Label, Score: textJ.Score},
			Combined:   types.LabelScore{Label: fused.Label, Score: fused.Scalar},
			Confidence: confidence,
			Summary:    summary,
		},
		MarketImpact: impact,
		KeyInsights:  insights,
		Timestamp:    rec.CreatedAt,
	}, nil
}

// Predict projects a price for a stored asset and records the projection.
func (a *Analyzer) Predict(ctx context.Context, req types.PredictRequest) (*models.MarketPrediction, error) {
	asset, err := a.store.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	proj, err := predict.Project(req.SentimentScore, req.CurrentPrice, req.HorizonHours)
	if err != nil {
		return nil, err
	}

	rec := &models.MarketPrediction{
		AssetID:            asset.ID,
		CurrentPrice:       req.CurrentPrice,
		PredictedPrice:     proj.PredictedPrice,
		PriceChangePercent: proj.PercentChange,
		SentimentScore:     req.SentimentScore,
		HorizonHours:       req.HorizonHours,
		Confidence:         proj.Confidence,
	}
	if err := a.store.SavePrediction(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}
	rec.Asset = *asset

	logger.Prediction(ctx, asset.Symbol, rec.CurrentPrice, rec.PredictedPrice, rec.PriceChangePercent, rec.HorizonHours,
		"prediction_id", rec.ID)
	if a.journal != nil {
		err := a.journal.AppendPrediction(auditlog.PredictionEntry{
			PredictionID:   rec.ID,
			Symbol:         asset.Symbol,
			CurrentPrice:   rec.CurrentPrice,
			PredictedPrice: rec.PredictedPrice,
			ChangePct:      rec.PriceChangePercent,
			SentimentScore: rec.SentimentScore,
			HorizonHours:   rec.HorizonHours,
			Confidence:     rec.Confidence,
		})
		if err != nil {
			logger.Warn(ctx, "Failed to journal prediction", "error", err, "prediction_id", rec.ID)
		}
	}
	return rec, nil
}

// readImageText runs OCR. Provider failures yield no text.
func (a *Analyzer) readImageText(ctx context.Context, img []byte) string {
	if a.ocr == nil {
		return ""
	}
	text, err := a.ocr.ExtractText(ctx, img)
	if err != nil {
		logger.Warn(ctx, "OCR unavailable, continuing without text", "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// scoreText runs the hybrid scorer and context enhancer. Blank text is a
// plain neutral judgment.
func (a *Analyzer) scoreText(ctx context.Context, text string) (types.SentimentJudgment, error) {
	if strings.TrimSpace(text) == "" {
		return types.SentimentJudgment{Label: types.Neutral, Score: 0.5}, nil
	}
	j, err := a.text.Score(ctx, text)
	if err != nil {
		return types.SentimentJudgment{}, err
	}
	return sentiment.Enhance(text, j), nil
}

// scoreImage judges image features, deriving the judgment from text when
// the features cannot be extracted.
func (a *Analyzer) scoreImage(ctx context.Context, img []byte, text string, textJ types.SentimentJudgment) types.SentimentJudgment {
	if a.features == nil {
		return synthesize(text, textJ, sentiment.ImageFailed)
	}
	features, err := a.features.Extract(ctx, img)
	if err != nil {
		logger.Warn(ctx, "Image features unavailable, deriving image sentiment from text", "error", err)
		return synthesize(text, textJ, sentiment.ImageFailed)
	}
	return sentiment.ScoreImage(features)
}

func (a *Analyzer) recordAnalysis(ctx context.Context, source, symbol string, rec *models.SentimentAnalysis, scalar float64, impact string) {
	logger.Analysis(ctx, symbol, rec.CombinedSentiment, rec.Confidence, source,
		"analysis_id", rec.ID,
		"scalar", scalar,
	)
	if a.journal == nil {
		return
	}
	err := a.journal.AppendAnalysis(auditlog.AnalysisEntry{
		AnalysisID: rec.ID,
		Source:     source,
		Symbol:     symbol,
		Label:      rec.CombinedSentiment,
		Scalar:     scalar,
		Confidence: rec.Confidence,
		SourceURL:  rec.SourceURL,
		Impact:     impact,
	})
	if err != nil {
		logger.Warn(ctx, "Failed to journal analysis", "error", err, "analysis_id", rec.ID)
	}
}

// synthesize aligns the image judgment to the text. Without any text there
// is nothing to align to and the image is neutral.
func synthesize(text string, textJ types.SentimentJudgment, reason sentiment.SynthesisReason) types.SentimentJudgment {
	if strings.TrimSpace(text) == "" {
		return types.SentimentJudgment{Label: types.Neutral, Score: 0.5, Extras: types.JudgmentExtras{Synthesized: true}}
	}
	return sentiment.SynthesizeImage(textJ, reason)
}

// resolveAsset prefers an explicit symbol, then the text cascade, then the
// general market. detected is false only for the general fallback.
func resolveAsset(symbol, text string) (types.AssetIdentity, bool) {
	if s := strings.TrimSpace(symbol); s != "" {
		return assets.FromSymbol(s), true
	}
	return assets.Identify(text)
}

func capRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
