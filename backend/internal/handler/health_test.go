package handler

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itchan-dev/msgboard/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog routes the global logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitializeWriter(&buf, "debug", true)
	t.Cleanup(func() { logger.Initialize("info", false) })
	return &buf
}

func newHealthHandler(ping func(ctx context.Context) error) *Handler {
	return New(&MockThreadService{}, &MockReplyService{}, &MockModerationService{}, &MockHealthChecker{PingFunc: ping}, testConfig())
}

func TestHealth(t *testing.T) {
	pinged := false
	h := newHealthHandler(func(ctx context.Context) error {
		pinged = true
		return stderrors.New("connection refused")
	})
	rr := httptest.NewRecorder()

	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
	assert.False(t, pinged, "liveness does not touch the store")
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		cancelled  bool
		ping       func(ctx context.Context) error
		wantStatus int
		wantBody   string
		wantLogErr string
	}{
		{
			name:       "store answers",
			ping:       func(ctx context.Context) error { return nil },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "store down",
			ping:       func(ctx context.Context) error { return stderrors.New("connection refused") },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "database unavailable",
			wantLogErr: "connection refused",
		},
		{
			name:      "request gone before the store answers",
			cancelled: true,
			ping: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "database unavailable",
			wantLogErr: context.Canceled.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			h := newHealthHandler(tt.ping)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			if tt.cancelled {
				ctx, cancel := context.WithCancel(req.Context())
				cancel()
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()

			h.Ready(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())

			if tt.wantLogErr == "" {
				assert.Empty(t, buf.String(), "a ready store logs nothing")
				return
			}
			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record), "exactly one warn record")
			assert.Equal(t, "WARN", record["level"])
			assert.Equal(t, "readiness check failed", record["msg"])
			assert.Equal(t, tt.wantLogErr, record["error"])
		})
	}
}

func TestReady_PingDeadline(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	h := newHealthHandler(func(ctx context.Context) error {
		deadline, hasDeadline = ctx.Deadline()
		return nil
	})

	start := time.Now()
	h.Ready(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.True(t, hasDeadline, "the store ping is bounded")
	assert.WithinDuration(t, start.Add(readyTimeout), deadline, 500*time.Millisecond)
}

func TestReady_KeepsEarlierRequestDeadline(t *testing.T) {
	var deadline time.Time
	h := newHealthHandler(func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 100*time.Millisecond)
	defer cancel()
	want, _ := ctx.Deadline()

	rr := httptest.NewRecorder()
	h.Ready(rr, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, want, deadline, "a shorter server deadline wins over readyTimeout")
}
