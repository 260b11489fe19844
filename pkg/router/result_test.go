package router

import (
	"errors"
	"fmt"
	"testing"
)

func TestOutcome(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		res     Result
		err     error
		want    Result
		wantErr error
	}{
		{"nil pair is empty value", nil, nil, Value{}, nil},
		{"value passes through", Data(42), nil, Value{Data: 42}, nil},
		{"redirect result", RedirectTo("/a"), nil, Redirect{To: "/a"}, nil},
		{"redirect as error", nil, RedirectTo("/b", 307), Redirect{To: "/b", Status: 307}, nil},
		{"wrapped redirect", nil, fmt.Errorf("load: %w", RedirectTo("/c")), Redirect{To: "/c"}, nil},
		{"not found as error", nil, NotFoundResult(), NotFound{}, nil},
		{"wrapped not found", Data(1), fmt.Errorf("lookup: %w", NotFound{}), NotFound{}, nil},
		{"plain error", Data(1), boom, nil, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Outcome(tt.res, tt.err)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("result = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRedirectStatusOr(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{0, 302},
		{301, 301},
		{303, 303},
		{307, 307},
		{308, 308},
		{200, 302},
		{304, 302},
		{404, 302},
		{-1, 302},
	}
	for _, tt := range tests {
		if got := RedirectTo("/x", tt.status).StatusOr(302); got != tt.want {
			t.Errorf("StatusOr(%d) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
