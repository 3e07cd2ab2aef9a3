package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutawtr1214/youtube-samalizer/internal/handlers"
	"github.com/yutawtr1214/youtube-samalizer/internal/middleware"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/summarizer"
)

type echoProcessor struct{}

func (echoProcessor) Process(ctx context.Context, req summarizer.Request) (*summarizer.Result, error) {
	return &summarizer.Result{Mode: req.Mode, Format: req.Format, Text: string(req.Mode)}, nil
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ph := handlers.NewProcessHandler(echoProcessor{}, handlers.Defaults{}, time.Minute, logger)
	srv := httptest.NewServer(New(ph, limiter, logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRouter_Process(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/v1/process", "application/json", bytes.NewReader([]byte(`{"url":"https://youtu.be/X","mode":"chapter"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body models.TextResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "chapter", body.Text)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/process")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_RateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 1, time.Minute)
	defer limiter.Close()
	srv := newTestServer(t, limiter)

	post := func() int {
		resp, err := http.Post(srv.URL+"/api/v1/process", "application/json", bytes.NewReader([]byte(`{"url":"https://youtu.be/X"}`)))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// Health is outside the limited group.
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
