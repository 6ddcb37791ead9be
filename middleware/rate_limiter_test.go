package middleware

import (
	"net/http"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"direct connection", "", "203.0.113.7:51234", "203.0.113.7"},
		{"single forwarded hop", "198.51.100.4", "10.0.0.1:80", "198.51.100.4"},
		{"proxy chain uses first hop", "198.51.100.4, 10.0.0.2, 10.0.0.3", "10.0.0.1:80", "198.51.100.4"},
		{"forwarded with spaces", " 198.51.100.4 , 10.0.0.2", "10.0.0.1:80", "198.51.100.4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", "/health", nil)
			if err != nil {
				t.Fatalf("failed to build request: %v", err)
			}
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			if got := clientIP(req); got != tc.want {
				t.Errorf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGetLimiterReusesBucket(t *testing.T) {
	first := getLimiter("192.0.2.10")
	second := getLimiter("192.0.2.10")
	if first != second {
		t.Error("same IP should share one limiter")
	}

	other := getLimiter("192.0.2.11")
	if other == first {
		t.Error("different IPs should get separate limiters")
	}
}
