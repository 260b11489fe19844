package routepath

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/", []string{}},
		{"", []string{}},
		{"/a/b", []string{"a", "b"}},
		{"a//b/", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := Split(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTrimTrailingSlash(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		changed bool
	}{
		{"/", "/", false},
		{"/foo", "/foo", false},
		{"/foo/", "/foo", true},
		{"/users/42/", "/users/42", true},
	}
	for _, tt := range tests {
		got, changed := TrimTrailingSlash(tt.input)
		if got != tt.want || changed != tt.changed {
			t.Errorf("TrimTrailingSlash(%q) = (%q, %v), want (%q, %v)", tt.input, got, changed, tt.want, tt.changed)
		}
	}
}

func TestNormalizeLocation(t *testing.T) {
	if _, ok := NormalizeLocation("/", "a=1"); ok {
		t.Error("root must be exempt")
	}
	got, ok := NormalizeLocation("/foo/", "a=1&b=2")
	if !ok || got != "/foo?a=1&b=2" {
		t.Errorf("NormalizeLocation = (%q, %v)", got, ok)
	}
	got, ok = NormalizeLocation("/foo/", "")
	if !ok || got != "/foo" {
		t.Errorf("NormalizeLocation without query = (%q, %v)", got, ok)
	}
	got, ok = NormalizeLocation("//evil.example/", "")
	if !ok || got != "/evil.example" {
		t.Errorf("NormalizeLocation(//evil.example/) = (%q, %v), want /evil.example", got, ok)
	}
}

func TestCollapseLeadingSlashes(t *testing.T) {
	tests := map[string]string{
		"":                 "/",
		"/":                "/",
		"//":               "/",
		"/a/b":             "/a/b",
		"//evil.example":   "/evil.example",
		"///evil.example/": "/evil.example/",
		"a/b":              "/a/b",
		"/a//b":            "/a//b",
	}
	for in, want := range tests {
		if got := CollapseLeadingSlashes(in); got != want {
			t.Errorf("CollapseLeadingSlashes(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeSegment(t *testing.T) {
	if got, err := DecodeSegment("plain"); err != nil || got != "plain" {
		t.Errorf("DecodeSegment(plain) = (%q, %v)", got, err)
	}
	if got, err := DecodeSegment("a%20b"); err != nil || got != "a b" {
		t.Errorf("DecodeSegment(a%%20b) = (%q, %v)", got, err)
	}
	if _, err := DecodeSegment("%2"); err != ErrInvalidPercentEscape {
		t.Errorf("DecodeSegment(%%2) err = %v", err)
	}
}

func TestJoinBase(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"", "/x", "/x"},
		{"/", "/x", "/x"},
		{"/app", "/x", "/app/x"},
		{"/app/", "/", "/app"},
		{"/app", "x", "/app/x"},
	}
	for _, tt := range tests {
		if got := JoinBase(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinBase(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
