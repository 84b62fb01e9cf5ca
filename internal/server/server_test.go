package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"market-sentiment/internal/database"
	"market-sentiment/internal/handlers"
	"market-sentiment/internal/pipeline"
	"market-sentiment/internal/store"
)

func newTestServer(t *testing.T, cfg *store.Config) (*Server, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	repo := database.NewRepository(db)

	core, logs := observer.New(zap.InfoLevel)
	h := handlers.New(pipeline.New(pipeline.Deps{Store: repo}), repo)
	return New(cfg, h, zap.New(core)), logs
}

func TestRequestID(t *testing.T) {
	srv, logs := newTestServer(t, store.Default())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-42")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "client-42", w.Header().Get("X-Request-ID"))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	last := entries[1].ContextMap()
	assert.Equal(t, "client-42", last["request_id"])
	assert.Equal(t, int64(http.StatusOK), last["status"])
	assert.Equal(t, "/healthz", last["path"])
}

func TestAccessLogLevels(t *testing.T) {
	srv, logs := newTestServer(t, store.Default())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets/5/analyses", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "/api/assets/:id/analyses", entries[0].ContextMap()["route"])
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, store.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUploadLimit(t *testing.T) {
	cfg := store.Default()
	cfg.Server.MaxUploadMB = 1
	srv, _ := newTestServer(t, cfg)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xAB}, 3<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := store.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	srv, _ := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
