package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersWithCSP(t *testing.T) {
	tests := []struct {
		name     string
		isHTTPS  bool
		csp      string
		wantHSTS bool
	}{
		{name: "api over http", csp: APICSP},
		{name: "pages over https", isHTTPS: true, csp: PageCSP, wantHSTS: true},
		{name: "no csp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeadersWithCSP(tt.isHTTPS, tt.csp)(okHandler())
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "same-origin", w.Header().Get("Referrer-Policy"))
			assert.Equal(t, tt.csp, w.Header().Get("Content-Security-Policy"))
			if tt.wantHSTS {
				assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
			} else {
				assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
			}
		})
	}
}
