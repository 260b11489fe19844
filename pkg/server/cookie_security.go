package server

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
)

// CookieJar is the cookie get/set primitive the pipelines use.
type CookieJar interface {
	// Get returns the value of the named request cookie.
	Get(name string) (string, bool)
	// Set adds a Set-Cookie header to the response.
	Set(cookie *http.Cookie)
}

type httpCookieJar struct {
	r *http.Request
	w http.ResponseWriter
}

func (j httpCookieJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j httpCookieJar) Set(cookie *http.Cookie) {
	http.SetCookie(j.w, cookie)
}

// newCookie builds a Lax, root-path cookie. maxAge follows http.Cookie:
// 0 means a session cookie and a negative value deletes the cookie.
func (s *Server) newCookie(r *http.Request, name, value string, httpOnly bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecureFlag(r),
	}
}

// cookieSecureFlag reports whether cookies set on this response carry the
// Secure attribute.
func (s *Server) cookieSecureFlag(r *http.Request) bool {
	if s.config.SecureCookies || r.TLS != nil {
		return true
	}
	if !s.trustedProxies.contains(peerAddr(r)) {
		return false
	}
	switch forwardedScheme(r.Header) {
	case "https", "wss":
		return true
	}
	return false
}

// forwardedScheme returns the scheme the client used according to the
// nearest proxy hop. RFC 7239 Forwarded wins over X-Forwarded-Proto.
func forwardedScheme(h http.Header) string {
	if fwd := h.Get("Forwarded"); fwd != "" {
		hop, _, _ := strings.Cut(fwd, ",")
		for _, pair := range strings.Split(hop, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if ok && strings.EqualFold(key, "proto") {
				return strings.ToLower(strings.Trim(strings.TrimSpace(value), `"`))
			}
		}
	}
	xfp, _, _ := strings.Cut(h.Get("X-Forwarded-Proto"), ",")
	return strings.ToLower(strings.Trim(strings.TrimSpace(xfp), `"`))
}

// peerAddr parses the address of the directly connected peer. The zero Addr
// is returned when RemoteAddr is unusable.
func peerAddr(r *http.Request) netip.Addr {
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr().Unmap()
	}
	addr, err := netip.ParseAddr(strings.Trim(r.RemoteAddr, "[]"))
	if err != nil {
		return netip.Addr{}
	}
	return addr.WithZone("").Unmap()
}

// proxySet holds the proxies whose forwarded headers are honored. Single
// addresses are stored as full-length prefixes.
type proxySet []netip.Prefix

func parseProxies(entries []string, logger *slog.Logger) proxySet {
	var set proxySet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			set = append(set, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logger.Warn("ignoring invalid trusted proxy", "entry", entry)
			continue
		}
		addr = addr.Unmap()
		set = append(set, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return set
}

func (ps proxySet) contains(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	for _, prefix := range ps {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
