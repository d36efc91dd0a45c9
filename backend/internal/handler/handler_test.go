package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func newTestHandler(thread *MockThreadService, reply *MockReplyService, moderation *MockModerationService) *Handler {
	return New(thread, reply, moderation, &MockHealthChecker{}, testConfig())
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// serve routes req through a chi mux so URL params resolve like in production.
func serve(pattern, method string, fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, fn)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
		status   int
	}{
		{
			name:     "Valid JSON",
			input:    map[string]string{"message": "hello"},
			expected: `{"message":"hello"}`,
			status:   http.StatusOK,
		},
		{
			name:     "Invalid JSON (channel)",
			input:    make(chan int),
			expected: "Internal error",
			status:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			writeJSON(rr, tt.input)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.expected+"\n", rr.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		legacy     bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "validation", err: errors.Validation("incomplete form"), wantStatus: http.StatusBadRequest, wantBody: "incomplete form"},
		{name: "not found", err: errors.NotFound("could not find thread id"), wantStatus: http.StatusNotFound, wantBody: "could not find thread id"},
		{name: "ownership", err: errors.OwnershipMismatch("invalid board name"), wantStatus: http.StatusBadRequest, wantBody: "invalid board name"},
		{name: "unauthorized", err: errors.Unauthorized("incorrect password"), wantStatus: http.StatusUnauthorized, wantBody: "incorrect password"},
		{name: "persistence", err: errors.Persistence("could not save thread", assert.AnError), wantStatus: http.StatusInternalServerError, wantBody: "could not save thread"},
		{name: "legacy unauthorized", legacy: true, err: errors.Unauthorized("incorrect password"), wantStatus: http.StatusOK, wantBody: "incorrect password"},
		{name: "legacy not found", legacy: true, err: errors.NotFound("could not find thread id"), wantStatus: http.StatusOK, wantBody: "could not find thread id"},
		{name: "legacy keeps unknown errors as 500", legacy: true, err: assert.AnError, wantStatus: http.StatusInternalServerError, wantBody: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&MockThreadService{}, &MockReplyService{}, &MockModerationService{})
			h.cfg.Public.Security.LegacyStatusCodes = tt.legacy
			rr := httptest.NewRecorder()

			h.writeError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/b/test", boardPath("test"))
	assert.Equal(t, "/b/test/abc", threadPath("test", "abc"))
	assert.Equal(t, "/b/a%2Fb", boardPath("a/b"))
	assert.Equal(t, "/b/my%20board", boardPath("my board"))
}
