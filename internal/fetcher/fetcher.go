// Package fetcher downloads news articles and extracts their readable text,
// title and lead image.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/providers/features/local"
	"market-sentiment/internal/store"
	"market-sentiment/internal/types"
)

// boilerplate is removed before any text is read.
const boilerplate = "script, style, nav, footer, header, aside"

// articleSelectors are tried in order; the first match holds the article.
var articleSelectors = []string{
	"article",
	".article-content",
	".article-body",
	".story-content",
	".post-content",
	"#article-body",
	".content",
	"main article",
}

// skipImageMarkers exclude decorative images by their source path.
var skipImageMarkers = []string{"logo", "icon", "avatar", "button"}

// maxImageCandidates bounds how many images are downloaded per article.
const maxImageCandidates = 10

// Options configures a Fetcher
type Options struct {
	Timeout           time.Duration
	ImageTimeout      time.Duration
	RequestsPerSecond float64
	CacheTTL          time.Duration
	UserAgent         string
}

// Fetcher is an interfaces.ArticleFetcher backed by colly.
type Fetcher struct {
	opts    Options
	limiter *hostLimiter
	cache   *articleCache
}

var _ interfaces.ArticleFetcher = (*Fetcher)(nil)

// New creates a fetcher. Zero option values fall back to the defaults
// of store.Default().
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = store.DefaultUserAgent
	}
	return &Fetcher{
		opts:    opts,
		limiter: newHostLimiter(opts.RequestsPerSecond),
		cache:   newArticleCache(opts.CacheTTL),
	}
}

// NewFromConfig builds a fetcher from the fetcher section of the config.
func NewFromConfig(cfg *store.Config) *Fetcher {
	return New(Options{
		Timeout:           time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second,
		ImageTimeout:      time.Duration(cfg.Fetcher.ImageTimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Fetcher.RequestsPerSecond,
		CacheTTL:          time.Duration(cfg.Fetcher.CacheMinutes) * time.Minute,
		UserAgent:         cfg.Fetcher.UserAgent,
	})
}

// Close stops the cache cleanup goroutine.
func (f *Fetcher) Close() {
	f.cache.close()
}

// Fetch downloads rawURL and extracts its article. Network, HTTP and
// parse failures are reported as types.ErrUpstreamFetch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*types.Article, error) {
	u, err := parseHTTPURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cached, ok := f.cache.get(u.String()); ok {
		logger.Debug(ctx, "Using cached article", "url", u.String())
		return cached, nil
	}

	doc, err := f.fetchDocument(ctx, u)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article", err, "url", u.String())
		return nil, fmt.Errorf("%w: %v", types.ErrUpstreamFetch, err)
	}

	doc.Find(boilerplate).Remove()

	article := &types.Article{
		URL:   u.String(),
		Title: extractTitle(doc),
		Text:  extractText(doc),
	}
	article.ImageBytes = f.firstImage(ctx, u, imageCandidates(doc))

	logger.Info(ctx, "Article fetched",
		"url", article.URL,
		"title", article.Title,
		"text_length", len([]rune(article.Text)),
		"has_image", article.ImageBytes != nil)

	f.cache.set(u.String(), article)
	return article, nil
}

func parseHTTPURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", types.ErrValidation)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", types.ErrValidation, rawURL)
	}
	return u, nil
}

// fetchDocument visits the page and returns its parsed HTML root.
func (f *Fetcher) fetchDocument(ctx context.Context, u *url.URL) (*goquery.Selection, error) {
	if err := f.limiter.wait(ctx, u.Host); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.Async(false),
		colly.DetectCharset(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.opts.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", f.opts.UserAgent)
	})

	var root *goquery.Selection
	c.OnHTML("html", func(e *colly.HTMLElement) {
		if root == nil {
			root = e.DOM
		}
	})

	var status int
	c.OnError(func(r *colly.Response, err error) {
		status = r.StatusCode
	})

	if err := c.Visit(u.String()); err != nil {
		if status >= 400 {
			return nil, fmt.Errorf("HTTP %d: %v", status, err)
		}
		return nil, err
	}
	if root == nil {
		return nil, errors.New("response is not an HTML document")
	}
	return root, nil
}

// firstImage downloads candidates in order and returns the first one whose
// header decodes within the pixel budget, or nil.
func (f *Fetcher) firstImage(ctx context.Context, base *url.URL, candidates []string) []byte {
	tried := 0
	for _, src := range candidates {
		if tried >= maxImageCandidates || ctx.Err() != nil {
			break
		}
		ref, err := url.Parse(src)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		tried++

		body, err := f.download(ctx, abs)
		if err != nil {
			logger.Debug(ctx, "Skipping article image", "src", abs.String(), "error", err)
			continue
		}
		if _, _, err := local.CheckSize(body); err != nil {
			logger.Debug(ctx, "Skipping unusable image", "src", abs.String(), "error", err)
			continue
		}
		return body
	}
	return nil
}

// download fetches raw bytes with the image timeout.
func (f *Fetcher) download(ctx context.Context, u *url.URL) ([]byte, error) {
	if err := f.limiter.wait(ctx, u.Host); err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.Async(false), colly.StdlibContext(ctx))
	c.SetRequestTimeout(f.opts.ImageTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", f.opts.UserAgent)
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(u.String()); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	return body, nil
}

func extractTitle(doc *goquery.Selection) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// extractText prefers the first article-like element and falls back to
// every paragraph on the page.
func extractText(doc *goquery.Selection) string {
	for _, sel := range articleSelectors {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			return joinedText(el)
		}
	}

	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := joinedText(p); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// joinedText joins the trimmed, non-empty text nodes under s with a space.
func joinedText(s *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, n *goquery.Selection) {
			if goquery.NodeName(n) == "#text" {
				if t := strings.TrimSpace(n.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			walk(n)
		})
	}
	walk(s)
	return strings.Join(parts, " ")
}

// imageCandidates lists img sources in document order, minus decorative ones.
func imageCandidates(doc *goquery.Selection) []string {
	var out []string
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(img.AttrOr("data-src", ""))
		}
		if src == "" || isDecorative(src) {
			return
		}
		out = append(out, src)
	})
	return out
}

func isDecorative(src string) bool {
	lower := strings.ToLower(src)
	for _, m := range skipImageMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
