package fetcher

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/types"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	f := New(Options{Timeout: 2 * time.Second, ImageTimeout: time.Second, CacheTTL: time.Minute})
	t.Cleanup(f.Close)
	return f
}

func serveHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

func TestFetchExtractsArticle(t *testing.T) {
	pic := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/news/story", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		serveHTML(w, `<html><head><title> Reliance shares surge </title><script>var x = 1;</script></head>
<body>
<header><h1>Site header</h1></header>
<nav>Markets | Stocks</nav>
<img src="/static/logo.png">
<article>
  <p>Reliance Industries posted record profit.</p>
  <p>Shares <b>jumped</b> 5% on Monday.</p>
  <img src="/img/lead.png">
</article>
<footer>Copyright</footer>
</body></html>`)
	})
	mux.HandleFunc("/static/logo.png", func(w http.ResponseWriter, r *http.Request) {
		t.Error("decorative image must not be downloaded")
	})
	mux.HandleFunc("/img/lead.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pic)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := newTestFetcher(t).Fetch(context.Background(), srv.URL+"/news/story")
	require.NoError(t, err)

	assert.Equal(t, "Reliance shares surge", a.Title)
	assert.Equal(t, "Reliance Industries posted record profit. Shares jumped 5% on Monday.", a.Text)
	assert.NotContains(t, a.Text, "Markets")
	assert.NotContains(t, a.Text, "Copyright")
	assert.Equal(t, pic, a.ImageBytes)
	assert.Equal(t, srv.URL+"/news/story", a.URL)
}

func TestFetchFallsBackToParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, `<html><body><h1>Markets close higher</h1>
<div><p>Nifty gained 1%.</p></div><div><p> Sensex followed. </p></div><p></p></body></html>`)
	}))
	defer srv.Close()

	a, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Markets close higher", a.Title)
	assert.Equal(t, "Nifty gained 1%. Sensex followed.", a.Text)
	assert.Nil(t, a.ImageBytes)
}

func TestFetchSkipsUndecodableImages(t *testing.T) {
	pic := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, `<html><body><div class="content"><p>Text</p>
<img src="/broken.jpg"><img src="/missing.jpg"><img data-src="/good.png"></div></body></html>`)
	})
	mux.HandleFunc("/broken.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	})
	mux.HandleFunc("/missing.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/good.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pic)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := newTestFetcher(t).Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "Text", a.Text)
	assert.Equal(t, pic, a.ImageBytes)
}

// hugePNG is a tiny PNG whose header declares 12000x12000 pixels.
func hugePNG(t *testing.T) []byte {
	t.Helper()
	data := pngBytes(t)
	binary.BigEndian.PutUint32(data[16:], 12000)
	binary.BigEndian.PutUint32(data[20:], 12000)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestFetchSkipsOversizedImages(t *testing.T) {
	pic := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, `<html><body><article><p>Text</p><img src="/huge.png"><img src="/good.png"></article></body></html>`)
	})
	mux.HandleFunc("/huge.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(hugePNG(t))
	})
	mux.HandleFunc("/good.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pic)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := newTestFetcher(t).Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, pic, a.ImageBytes)
}

func TestFetchAbortsWhenContextCancelled(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	f := New(Options{Timeout: 10 * time.Second, CacheTTL: time.Minute})
	t.Cleanup(f.Close)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	start := time.Now()
	_, err := f.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, types.ErrUpstreamFetch)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestFetchHTTPErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUpstreamFetch))
	assert.Contains(t, err.Error(), "404")
}

func TestFetchNonHTMLIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, types.ErrUpstreamFetch)
}

func TestFetchUnreachableIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), addr)
	assert.ErrorIs(t, err, types.ErrUpstreamFetch)
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	f := newTestFetcher(t)
	for _, raw := range []string{"", "   ", "ftp://example.com/a", "not a url", "http://"} {
		_, err := f.Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, types.ErrValidation, raw)
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		serveHTML(w, `<html><body><article>Cached story</article></body></html>`)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	for i := 0; i < 3; i++ {
		a, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "Cached story", a.Text)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, f.cache.len())
}

func TestArticleCacheExpiry(t *testing.T) {
	cache := newArticleCache(50 * time.Millisecond)
	defer cache.close()

	cache.set("u", &types.Article{Text: "x"})
	got, ok := cache.get("u")
	require.True(t, ok)
	got.Text = "mutated"

	again, ok := cache.get("u")
	require.True(t, ok)
	assert.Equal(t, "x", again.Text)

	time.Sleep(100 * time.Millisecond)
	_, ok = cache.get("u")
	assert.False(t, ok)

	cache.cleanup()
	assert.Equal(t, 0, cache.len())
}

func TestSelectorOrder(t *testing.T) {
	html := `<html><body>
<div class="content">generic content</div>
<div class="story-content">story body</div>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "story body", extractText(doc.Selection))
}

func TestIsDecorative(t *testing.T) {
	assert.True(t, isDecorative("/assets/Site-LOGO.svg"))
	assert.True(t, isDecorative("https://cdn.example.com/icons/share.png"))
	assert.True(t, isDecorative("/u/avatar_12.jpg"))
	assert.False(t, isDecorative("/photos/market-rally.jpg"))
}

func TestHostLimiterHonoursContext(t *testing.T) {
	l := newHostLimiter(0.001)
	require.NoError(t, l.wait(context.Background(), "example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.wait(ctx, "example.com"))
	assert.NoError(t, l.wait(context.Background(), "other.example.com"))
}
