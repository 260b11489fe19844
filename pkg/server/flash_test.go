package server

import (
	"math"
	"strings"
	"testing"
)

type countOnly struct{ n float64 }

func (c countOnly) NewCount() float64 { return c.n }

func TestNewCountOf(t *testing.T) {
	five := 5.0
	tests := []struct {
		name string
		data any
		want *float64
	}{
		{"nil", nil, nil},
		{"map int", map[string]any{"ok": true, "newCount": 5}, &five},
		{"map float", map[string]float64{"newCount": 5}, &five},
		{"tagged struct", counterResult{OK: true, NewCount: 5}, &five},
		{"interface", countOnly{n: 5}, &five},
		{"string count", map[string]any{"newCount": "5"}, nil},
		{"null count", map[string]any{"newCount": nil}, nil},
		{"no count", map[string]any{"ok": true}, nil},
		{"scalar", 42, nil},
		{"infinite", countOnly{n: math.Inf(1)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newCountOf(tt.data)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("newCountOf() = %v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("newCountOf() = %v, want %v", got, *tt.want)
			}
		})
	}
}

func TestFlashEncoding(t *testing.T) {
	n := 3.5
	in := Flash{OK: true, At: 1700000000000, NewCount: &n}
	value, err := encodeFlash(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range value {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			t.Fatalf("cookie value %q contains %q", value, r)
		}
	}
	out, ok := decodeFlash(value)
	if !ok || !out.OK || out.At != in.At || out.NewCount == nil || *out.NewCount != n {
		t.Errorf("decoded = %+v", out)
	}

	if _, ok := decodeFlash("not base64!"); ok {
		t.Error("malformed cookie should not decode")
	}
}

func TestFlashBanner(t *testing.T) {
	if flashBanner(nil) != nil {
		t.Error("no flash, no banner")
	}

	n := 2.0
	tests := []struct {
		flash Flash
		want  string
	}{
		{Flash{OK: false}, "Failed"},
		{Flash{OK: true}, "Saved"},
		{Flash{OK: true, NewCount: &n}, "New count: 2"},
	}
	for _, tt := range tests {
		var b strings.Builder
		if err := flashBanner(&tt.flash).Render(&b); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(b.String(), tt.want) {
			t.Errorf("banner = %q, want %q", b.String(), tt.want)
		}
	}
}
