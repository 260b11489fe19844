package server

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/vango-dev/vitrio/pkg/render"
)

// Flash is the one-shot outcome of a POST, shown by the next rendered GET.
type Flash struct {
	OK bool `json:"ok"`

	// At is the Unix time in milliseconds when the flash was created.
	At int64 `json:"at"`

	// NewCount is copied from an action result exposing a numeric newCount.
	NewCount *float64 `json:"newCount,omitempty"`
}

// NewCounter is implemented by action results that report a new count.
type NewCounter interface {
	NewCount() float64
}

// encodeFlash serializes f as base64url JSON so it is a valid cookie value.
func encodeFlash(f Flash) (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeFlash(value string) (*Flash, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, false
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, false
	}
	return &f, true
}

// setFlash stores f for the next GET.
func (s *Server) setFlash(r *http.Request, jar CookieJar, f Flash) {
	value, err := encodeFlash(f)
	if err != nil {
		s.logger.Error("flash encode failed", "error", err)
		return
	}
	jar.Set(s.newCookie(r, FlashCookieName, value, true, 0))
}

// takeFlash reads and clears the flash cookie. A second call in a later
// request returns nil until a new flash is set.
func (s *Server) takeFlash(r *http.Request, jar CookieJar) *Flash {
	value, ok := jar.Get(FlashCookieName)
	if !ok {
		return nil
	}
	jar.Set(s.newCookie(r, FlashCookieName, "", true, -1))
	f, ok := decodeFlash(value)
	if !ok {
		s.logger.Debug("discarding malformed flash cookie")
		return nil
	}
	return f
}

func (s *Server) newFlash(ok bool, data any) Flash {
	f := Flash{OK: ok, At: s.config.Now().UnixMilli()}
	if ok {
		f.NewCount = newCountOf(data)
	}
	return f
}

// newCountOf extracts a numeric newCount from an action result: a
// NewCounter, or any value whose JSON form is an object with a numeric
// "newCount" member (maps, tagged structs).
func newCountOf(data any) *float64 {
	if data == nil {
		return nil
	}
	if nc, ok := data.(NewCounter); ok {
		n := nc.NewCount()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return &n
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	var probe struct {
		NewCount json.RawMessage `json:"newCount"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.NewCount) == 0 {
		return nil
	}
	n, err := strconv.ParseFloat(string(probe.NewCount), 64)
	if err != nil {
		return nil
	}
	return &n
}

// flashBanner renders the notice shown above the page body.
func flashBanner(f *Flash) render.Component {
	if f == nil {
		return nil
	}
	if !f.OK {
		return render.HTML(`<div class="vitrio-flash vitrio-flash-error" role="alert">Failed</div>` + "\n")
	}
	msg := "Saved"
	if f.NewCount != nil {
		msg = "New count: " + strconv.FormatFloat(*f.NewCount, 'f', -1, 64)
	}
	return render.HTML(`<div class="vitrio-flash vitrio-flash-ok" role="status">` + render.EscapeHTML(msg) + "</div>\n")
}
