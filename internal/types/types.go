package types

import "time"

// SentimentLabel is the polarity of a sentiment judgment.
type SentimentLabel string

const (
	Positive SentimentLabel = "POSITIVE"
	Negative SentimentLabel = "NEGATIVE"
	Neutral  SentimentLabel = "NEUTRAL"
)

// Sign maps a label to +1, 0 or -1.
func (l SentimentLabel) Sign() float64 {
	switch l {
	case Positive:
		return 1
	case Negative:
		return -1
	default:
		return 0
	}
}

// Lower is the persisted form of the label ("positive", "negative", "neutral").
func (l SentimentLabel) Lower() string {
	switch l {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Method records which strategy produced a text judgment.
type Method string

const (
	MethodModel   Method = "model"
	MethodKeyword Method = "keyword"
)

// JudgmentExtras carries provenance and diagnostics of a judgment.
type JudgmentExtras struct {
	Method        Method  `json:"method,omitempty"`
	PositiveHits  int     `json:"positive_keywords,omitempty"`
	NegativeHits  int     `json:"negative_keywords,omitempty"`
	NeutralHits   int     `json:"neutral_keywords,omitempty"`
	NetSentiment  float64 `json:"net_sentiment,omitempty"`
	OriginalScore float64 `json:"original_score,omitempty"`
	Enhanced      bool    `json:"enhanced,omitempty"`
	Synthesized   bool    `json:"synthesized,omitempty"`
}

// SentimentJudgment is one source's (label, score) opinion. Score is in [0,1].
type SentimentJudgment struct {
	Label  SentimentLabel `json:"label"`
	Score  float64        `json:"score"`
	Extras JudgmentExtras `json:"extras"`
}

// FusedSentiment is the weighted combination of a text and an image judgment.
// Scalar is the signed quantity in [-1,1] every downstream consumer uses.
type FusedSentiment struct {
	Label  SentimentLabel `json:"label"`
	Score  float64        `json:"score"`
	Scalar float64        `json:"scalar"`
}

// AssetType classifies an asset identity.
type AssetType string

const (
	Stock  AssetType = "stock"
	Crypto AssetType = "crypto"
	Index  AssetType = "index"
)

// AssetIdentity is a canonical asset resolved from free text or a symbol.
type AssetIdentity struct {
	Symbol string    `json:"symbol"`
	Name   string    `json:"name"`
	Type   AssetType `json:"asset_type"`
}

// ImpactLevel is the market-reaction class.
type ImpactLevel string

const (
	HighPositive     ImpactLevel = "HIGH_POSITIVE"
	ModeratePositive ImpactLevel = "MODERATE_POSITIVE"
	HighNegative     ImpactLevel = "HIGH_NEGATIVE"
	ModerateNegative ImpactLevel = "MODERATE_NEGATIVE"
	SlightlyPositive ImpactLevel = "SLIGHTLY_POSITIVE"
	SlightlyNegative ImpactLevel = "SLIGHTLY_NEGATIVE"
	NeutralImpact    ImpactLevel = "NEUTRAL"
)

// TimeHorizon is the expected reaction window.
type TimeHorizon string

const (
	Immediate TimeHorizon = "IMMEDIATE"
	ShortTerm TimeHorizon = "SHORT_TERM"
	LongTerm  TimeHorizon = "LONG_TERM"
)

// MarketImpact is the output of the impact analyzer.
type MarketImpact struct {
	Level          ImpactLevel `json:"impact_level"`
	Description    string      `json:"impact_description"`
	TimeHorizon    TimeHorizon `json:"time_horizon"`
	PositiveCount  int         `json:"positive_indicators_count"`
	NegativeCount  int         `json:"negative_indicators_count"`
	SentimentScore float64     `json:"sentiment_score"`
}

// Projection is a naive price projection.
type Projection struct {
	PredictedPrice float64 `json:"predicted_price"`
	PercentChange  float64 `json:"price_change_percent"`
	Confidence     float64 `json:"confidence"`
}

// ClassResult is the raw output of a text classification provider.
// ClassIndex is 0 (negative), 1 (neutral) or 2 (positive).
type ClassResult struct {
	ClassIndex int     `json:"class_index"`
	Score      float64 `json:"score"`
}

// Article is the result of fetching a URL.
type Article struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	ImageBytes []byte `json:"-"`
}

// ImageRequest is an inbound image analysis.
type ImageRequest struct {
	Image     []byte
	Symbol    string
	SourceURL string
}

// URLRequest is an inbound article analysis.
type URLRequest struct {
	URL    string `json:"url"`
	Symbol string `json:"symbol"`
}

// PredictRequest is an inbound price projection.
type PredictRequest struct {
	AssetID        uint
	CurrentPrice   float64
	SentimentScore float64
	HorizonHours   int
}

// ImageAnalysis is the result of AnalyzeImage.
type ImageAnalysis struct {
	AnalysisID     uint              `json:"analysis_id"`
	DetectedAsset  string            `json:"detected_asset"`
	AssetName      string            `json:"asset_name"`
	ExtractedText  string            `json:"extracted_text"`
	ImageSentiment string            `json:"image_sentiment"`
	TextSentiment  string            `json:"text_sentiment"`
	Combined       string            `json:"combined_sentiment"`
	Confidence     float64           `json:"confidence"`
	ImageJudgment  SentimentJudgment `json:"-"`
	TextJudgment   SentimentJudgment `json:"-"`
	Fused          FusedSentiment    `json:"-"`
}

// LabelScore is a label with its score as rendered to clients.
type LabelScore struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// SentimentBreakdown is the sentiment block of an article analysis.
type SentimentBreakdown struct {
	Image      LabelScore `json:"image_sentiment"`
	Text       LabelScore `json:"text_sentiment"`
	Combined   LabelScore `json:"combined_sentiment"`
	Confidence float64    `json:"confidence"`
	Summary    string     `json:"summary"`
}

// ArticleAnalysis is the result of AnalyzeURL.
type ArticleAnalysis struct {
	AnalysisID     uint               `json:"analysis_id"`
	ArticleTitle   string             `json:"article_title"`
	DetectedAsset  string             `json:"detected_asset"`
	AssetName      string             `json:"asset_name"`
	AssetType      AssetType          `json:"asset_type"`
	SourceURL      string             `json:"source_url"`
	TextPreview    string             `json:"text_preview"`
	FullTextLength int                `json:"full_text_length"`
	Sentiment      SentimentBreakdown `json:"sentiment_analysis"`
	MarketImpact   MarketImpact       `json:"market_impact"`
	KeyInsights    []string           `json:"key_insights"`
	Timestamp      time.Time          `json:"analysis_timestamp"`
}
