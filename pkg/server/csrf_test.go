package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestMintCSRFTokenUnsigned(t *testing.T) {
	s := newTestServer(t, nil, nil)
	a, b := s.MintCSRFToken(), s.MintCSRFToken()
	if a == b {
		t.Error("tokens must be unique")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("unsigned token %q is not a UUID: %v", a, err)
	}
}

func TestVerifyCSRF(t *testing.T) {
	s := newTestServer(t, nil, nil)
	tests := []struct {
		cookie, form string
		want         bool
	}{
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"abc", "", false},
		{"", "abc", false},
		{"", "", false},
		{"abc", "ABC", false},
	}
	for _, tt := range tests {
		if got := s.verifyCSRF(tt.cookie, tt.form); got != tt.want {
			t.Errorf("verifyCSRF(%q, %q) = %v, want %v", tt.cookie, tt.form, got, tt.want)
		}
	}
}

func TestSignedTokenTamper(t *testing.T) {
	s := newTestServer(t, nil, &Config{CSRFSecret: []byte("secret")})
	token := s.MintCSRFToken()
	if !s.verifyCSRF(token, token) {
		t.Fatal("signed token should verify")
	}

	tampered := []byte(token)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}
	if s.verifyCSRF(string(tampered), string(tampered)) {
		t.Error("tampered token verified")
	}

	other := newTestServer(t, nil, &Config{CSRFSecret: []byte("other")})
	if other.verifyCSRF(token, token) {
		t.Error("token signed with another secret verified")
	}
}

func TestOriginAllowed(t *testing.T) {
	s := newTestServer(t, nil, &Config{Origin: "https://example.com"})
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://example.com", true},
		{"https://EXAMPLE.com", true},
		{"http://example.com", false},
		{"https://example.com:8443", false},
		{"https://evil.com", false},
		{"null", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := s.originAllowed(r); got != tt.want {
			t.Errorf("originAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	open := newTestServer(t, nil, nil)
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Origin", "https://anything.example")
	if !open.originAllowed(r) {
		t.Error("no configured origin should allow any")
	}
}

func TestSecureCookieFlag(t *testing.T) {
	s := newTestServer(t, nil, &Config{TrustedProxies: []string{"10.0.0.0/8"}})

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	if s.cookieSecureFlag(plain) {
		t.Error("plain HTTP request should not get Secure cookies")
	}

	proxied := httptest.NewRequest(http.MethodGet, "/", nil)
	proxied.RemoteAddr = "10.1.2.3:5555"
	proxied.Header.Set("X-Forwarded-Proto", "https")
	if !s.cookieSecureFlag(proxied) {
		t.Error("trusted proxy https should get Secure cookies")
	}

	spoofed := httptest.NewRequest(http.MethodGet, "/", nil)
	spoofed.RemoteAddr = "203.0.113.9:5555"
	spoofed.Header.Set("X-Forwarded-Proto", "https")
	if s.cookieSecureFlag(spoofed) {
		t.Error("untrusted forwarded proto must be ignored")
	}

	forced := newTestServer(t, nil, &Config{SecureCookies: true})
	if !forced.cookieSecureFlag(plain) {
		t.Error("SecureCookies should force the flag")
	}
}

func TestForwardedScheme(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"none", nil, ""},
		{"x-forwarded-proto", map[string]string{"X-Forwarded-Proto": "HTTPS"}, "https"},
		{"first hop only", map[string]string{"X-Forwarded-Proto": "http, https"}, "http"},
		{"forwarded", map[string]string{"Forwarded": `for=192.0.2.1;proto="https"`}, "https"},
		{"forwarded wins", map[string]string{"Forwarded": "proto=http", "X-Forwarded-Proto": "https"}, "http"},
		{"forwarded without proto", map[string]string{"Forwarded": "for=192.0.2.1", "X-Forwarded-Proto": "https"}, "https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.header {
				h.Set(k, v)
			}
			if got := forwardedScheme(h); got != tt.want {
				t.Errorf("forwardedScheme() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseProxies(t *testing.T) {
	set := parseProxies([]string{"10.0.0.0/8", "192.0.2.7", "::1", "not-an-ip", ""}, slog.Default())
	if len(set) != 3 {
		t.Fatalf("len = %d, want 3", len(set))
	}

	tests := []struct {
		remote string
		want   bool
	}{
		{"10.20.30.40:1234", true},
		{"192.0.2.7:80", true},
		{"192.0.2.8:80", false},
		{"[::1]:8080", true},
		{"[::ffff:10.0.0.1]:80", true},
		{"garbage", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		if got := set.contains(peerAddr(r)); got != tt.want {
			t.Errorf("contains(%q) = %v, want %v", tt.remote, got, tt.want)
		}
	}
}
