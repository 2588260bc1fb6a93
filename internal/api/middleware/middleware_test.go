package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureIP(trustProxy bool, req *http.Request) string {
	var got string
	h := ClientIP(trustProxy)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetClientIP(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{"remote host only", "10.1.2.3:5555", "", false, "10.1.2.3"},
		{"ipv6 remote", "[::1]:5555", "", false, "::1"},
		{"forwarded ignored", "10.1.2.3:5555", "198.51.100.9", false, "10.1.2.3"},
		{"forwarded trusted", "10.1.2.3:5555", "198.51.100.9, 10.0.0.1", true, "198.51.100.9"},
		{"trusted without header", "10.1.2.3:5555", "", true, "10.1.2.3"},
		{"remote without port", "10.1.2.3", "", false, "10.1.2.3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			assert.Equal(t, tc.want, captureIP(tc.trustProxy, req))
		})
	}
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", ExtractToken(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", ExtractToken(req))
}

func TestGetSessionWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetSession(req.Context()))
	assert.Panics(t, func() { MustGetSession(req.Context()) })
}
