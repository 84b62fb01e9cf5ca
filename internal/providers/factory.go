// Package providers builds the ML provider set once at start-up.
package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/providers/classifier/hf"
	"market-sentiment/internal/providers/classifier/llm"
	classifiernoop "market-sentiment/internal/providers/classifier/noop"
	"market-sentiment/internal/providers/features/local"
	featuresremote "market-sentiment/internal/providers/features/remote"
	ocrnoop "market-sentiment/internal/providers/ocr/noop"
	ocrremote "market-sentiment/internal/providers/ocr/remote"
	"market-sentiment/internal/providers/providerobs"
	"market-sentiment/internal/store"
)

// Set holds the providers the pipeline depends on.
type Set struct {
	Classifier interfaces.TextClassifier
	Features   interfaces.FeatureExtractor
	OCR        interfaces.OCR
}

// Build constructs every provider named in cfg, wrapped with observability.
func Build(ctx context.Context, cfg *store.Config) (*Set, error) {
	p := cfg.Providers

	var classifier interfaces.TextClassifier
	switch p.Classifier.Provider {
	case "HUGGINGFACE":
		token := os.Getenv(p.Classifier.TokenEnv)
		if token == "" {
			logger.Warn(ctx, "Hugging Face token not set - keyword scorer will be used", "env", p.Classifier.TokenEnv)
		}
		classifier = hf.New(hf.Params{
			Endpoint: p.Classifier.Endpoint,
			Model:    p.Classifier.Model,
			Token:    token,
			Timeout:  seconds(p.Classifier.TimeoutSeconds),
		})
	case "OPENAI", "CLAUDE":
		key := os.Getenv(p.Classifier.TokenEnv)
		if key == "" {
			logger.Warn(ctx, "LLM api key not set - keyword scorer will be used", "env", p.Classifier.TokenEnv)
		}
		classifier = llm.New(llm.Params{
			Flavor:    llm.Flavor(p.Classifier.Provider),
			Endpoint:  p.Classifier.Endpoint,
			Model:     p.Classifier.Model,
			APIKey:    key,
			MaxTokens: p.Classifier.MaxTokens,
			Timeout:   seconds(p.Classifier.TimeoutSeconds),
		})
	case "NONE", "":
		classifier = classifiernoop.NewClassifier()
		logger.Warn(ctx, "No text classifier configured - using keyword scorer")
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", p.Classifier.Provider)
	}

	var features interfaces.FeatureExtractor
	switch p.Features.Provider {
	case "LOCAL", "":
		features = local.New()
	case "REMOTE":
		features = featuresremote.New(p.Features.Endpoint, seconds(p.Features.TimeoutSeconds))
	default:
		return nil, fmt.Errorf("unknown features provider %q", p.Features.Provider)
	}

	var ocr interfaces.OCR
	switch p.OCR.Provider {
	case "REMOTE":
		ocr = ocrremote.New(p.OCR.Endpoint, seconds(p.OCR.TimeoutSeconds))
	case "NONE", "":
		ocr = ocrnoop.NewOCR()
		logger.Info(ctx, "No OCR provider configured - image uploads yield no text")
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", p.OCR.Provider)
	}

	return &Set{
		Classifier: providerobs.WrapClassifier(classifier),
		Features:   providerobs.WrapFeatures(features),
		OCR:        providerobs.WrapOCR(ocr),
	}, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
