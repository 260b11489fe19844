package server

import "net/http"

// ContentSecurityPolicy allows same-origin resources only. Inline scripts
// and styles are allowed for the flash state and server-rendered styles.
const ContentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'"

// setSecurityHeaders applies the baseline headers to every document.
func setSecurityHeaders(h http.Header) {
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Content-Security-Policy", ContentSecurityPolicy)
}
