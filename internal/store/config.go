package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Mode               string `yaml:"mode"` // debug, release, test
		ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"`
		MaxUploadMB        int    `yaml:"max_upload_mb"`
	} `yaml:"server"`
	Database struct {
		DSN      string `yaml:"dsn"`
		SeedDemo bool   `yaml:"seed_demo"`
	} `yaml:"database"`
	Providers struct {
		Classifier struct {
			Provider       string `yaml:"provider"` // HUGGINGFACE, OPENAI, CLAUDE or NONE
			Model          string `yaml:"model"`
			Endpoint       string `yaml:"endpoint"`
			TokenEnv       string `yaml:"token_env"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
			MaxTokens      int    `yaml:"max_tokens"` // OPENAI and CLAUDE only
		} `yaml:"classifier"`
		Features struct {
			Provider       string `yaml:"provider"` // LOCAL or REMOTE
			Endpoint       string `yaml:"endpoint"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"features"`
		OCR struct {
			Provider       string `yaml:"provider"` // REMOTE or NONE
			Endpoint       string `yaml:"endpoint"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"ocr"`
	} `yaml:"providers"`
	Fetcher struct {
		TimeoutSeconds      int     `yaml:"timeout_seconds"`
		ImageTimeoutSeconds int     `yaml:"image_timeout_seconds"`
		RequestsPerSecond   float64 `yaml:"requests_per_second"`
		CacheMinutes        int     `yaml:"cache_minutes"`
		UserAgent           string  `yaml:"user_agent"`
	} `yaml:"fetcher"`
	Analysis struct {
		MaxInsights int `yaml:"max_insights"`
		TextCap     int `yaml:"text_cap"`
	} `yaml:"analysis"`
	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
		DigestCron    string `yaml:"digest_cron"`
	} `yaml:"journal"`
	Tracing struct {
		ServiceName string `yaml:"service_name"`
		Exporter    string `yaml:"exporter"` // NONE, STDOUT or FILE
		File        string `yaml:"file"`
		PrettyPrint bool   `yaml:"pretty_print"`
	} `yaml:"tracing"`
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var (
	classifierProviders = []string{"HUGGINGFACE", "OPENAI", "CLAUDE", "NONE"}
	featureProviders    = []string{"LOCAL", "REMOTE"}
	ocrProviders        = []string{"REMOTE", "NONE"}
	serverModes         = []string{"debug", "release", "test"}
	traceExporters      = []string{"NONE", "STDOUT", "FILE"}
)

type classifierDefault struct {
	model, endpoint, tokenEnv string
}

// classifierDefaults are keyed by provider. NONE takes the HUGGINGFACE values.
var classifierDefaults = map[string]classifierDefault{
	"HUGGINGFACE": {"cardiffnlp/twitter-roberta-base-sentiment-latest", "https://api-inference.huggingface.co/models", "HF_API_TOKEN"},
	"OPENAI":      {"gpt-4o-mini", "https://api.openai.com/v1/chat/completions", "OPENAI_API_KEY"},
	"CLAUDE":      {"claude-3-5-haiku-latest", "https://api.anthropic.com/v1/messages", "CLAUDE_API_KEY"},
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 16
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "data/market_sentiment.db"
	}

	cl := &c.Providers.Classifier
	cl.Provider = strings.ToUpper(cl.Provider)
	if cl.Provider == "" {
		cl.Provider = "NONE"
	}
	d, ok := classifierDefaults[cl.Provider]
	if !ok {
		d = classifierDefaults["HUGGINGFACE"]
	}
	if cl.Model == "" {
		cl.Model = d.model
	}
	if cl.Endpoint == "" {
		cl.Endpoint = d.endpoint
	}
	if cl.TokenEnv == "" {
		cl.TokenEnv = d.tokenEnv
	}
	if cl.TimeoutSeconds == 0 {
		cl.TimeoutSeconds = 15
	}
	if cl.MaxTokens == 0 {
		cl.MaxTokens = 60
	}

	f := &c.Providers.Features
	f.Provider = strings.ToUpper(f.Provider)
	if f.Provider == "" {
		f.Provider = "LOCAL"
	}
	if f.TimeoutSeconds == 0 {
		f.TimeoutSeconds = 15
	}

	o := &c.Providers.OCR
	o.Provider = strings.ToUpper(o.Provider)
	if o.Provider == "" {
		o.Provider = "NONE"
	}
	if o.TimeoutSeconds == 0 {
		o.TimeoutSeconds = 20
	}

	if c.Fetcher.TimeoutSeconds == 0 {
		c.Fetcher.TimeoutSeconds = 10
	}
	if c.Fetcher.ImageTimeoutSeconds == 0 {
		c.Fetcher.ImageTimeoutSeconds = 5
	}
	if c.Fetcher.RequestsPerSecond == 0 {
		c.Fetcher.RequestsPerSecond = 2
	}
	if c.Fetcher.CacheMinutes == 0 {
		c.Fetcher.CacheMinutes = 10
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = DefaultUserAgent
	}

	if c.Analysis.MaxInsights == 0 {
		c.Analysis.MaxInsights = 5
	}
	if c.Analysis.TextCap == 0 {
		c.Analysis.TextCap = 5000
	}

	if c.Journal.Dir == "" {
		c.Journal.Dir = "logs"
	}
	if c.Journal.DigestCron == "" {
		c.Journal.DigestCron = "40 15 * * *"
	}

	tr := &c.Tracing
	if tr.ServiceName == "" {
		tr.ServiceName = "market-sentiment"
	}
	tr.Exporter = strings.ToUpper(tr.Exporter)
	if tr.Exporter == "" {
		tr.Exporter = "NONE"
	}
	if tr.File == "" {
		tr.File = filepath.Join(c.Journal.Dir, "spans.jsonl")
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1-65535, got %d", c.Server.Port)
	}
	if !oneOf(c.Server.Mode, serverModes) {
		return fmt.Errorf("invalid server.mode '%s': must be one of %v", c.Server.Mode, serverModes)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn cannot be empty")
	}
	if !oneOf(c.Providers.Classifier.Provider, classifierProviders) {
		return fmt.Errorf("invalid providers.classifier.provider '%s': must be one of %v", c.Providers.Classifier.Provider, classifierProviders)
	}
	if !oneOf(c.Providers.Features.Provider, featureProviders) {
		return fmt.Errorf("invalid providers.features.provider '%s': must be one of %v", c.Providers.Features.Provider, featureProviders)
	}
	if c.Providers.Features.Provider == "REMOTE" && c.Providers.Features.Endpoint == "" {
		return errors.New("providers.features.endpoint is required for REMOTE features")
	}
	if !oneOf(c.Providers.OCR.Provider, ocrProviders) {
		return fmt.Errorf("invalid providers.ocr.provider '%s': must be one of %v", c.Providers.OCR.Provider, ocrProviders)
	}
	if c.Providers.OCR.Provider == "REMOTE" && c.Providers.OCR.Endpoint == "" {
		return errors.New("providers.ocr.endpoint is required for REMOTE ocr")
	}
	if c.Fetcher.RequestsPerSecond < 0 {
		return fmt.Errorf("fetcher.requests_per_second cannot be negative, got %.2f", c.Fetcher.RequestsPerSecond)
	}
	if c.Analysis.MaxInsights < 0 {
		return fmt.Errorf("analysis.max_insights cannot be negative, got %d", c.Analysis.MaxInsights)
	}
	if c.Analysis.TextCap < 0 {
		return fmt.Errorf("analysis.text_cap cannot be negative, got %d", c.Analysis.TextCap)
	}
	if c.Journal.RetentionDays < 0 {
		return fmt.Errorf("journal.retention_days cannot be negative, got %d", c.Journal.RetentionDays)
	}
	if _, err := cron.ParseStandard(c.Journal.DigestCron); err != nil {
		return fmt.Errorf("invalid journal.digest_cron '%s': %w", c.Journal.DigestCron, err)
	}
	if !oneOf(c.Tracing.Exporter, traceExporters) {
		return fmt.Errorf("invalid tracing.exporter '%s': must be one of %v", c.Tracing.Exporter, traceExporters)
	}
	return nil
}

// Addr is the listen address of the REST server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to defaults
// otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfig(path)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
