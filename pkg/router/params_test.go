package router

import (
	"testing"

	"github.com/google/uuid"
	"github.com/vango-dev/vitrio/pkg/routepath"
)

func TestBind(t *testing.T) {
	id := uuid.New()
	c := Ctx{Params: routepath.Params{
		"id":     "42",
		"org":    id.String(),
		"name":   "a b",
		"score":  "1.5",
		"active": "true",
		"extra":  "ignored",
	}}

	var p struct {
		ID      int       `param:"id"`
		Org     uuid.UUID `param:"org"`
		Name    string    `param:"name"`
		Score   float64   `param:"score"`
		Active  bool      `param:"active"`
		Missing string    `param:"missing"`
		Plain   string
	}
	if err := c.Bind(&p); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if p.ID != 42 || p.Org != id || p.Name != "a b" || p.Score != 1.5 || !p.Active {
		t.Errorf("bound = %+v", p)
	}
	if p.Missing != "" || p.Plain != "" {
		t.Errorf("unmatched fields should stay zero: %+v", p)
	}
}

func TestBindErrors(t *testing.T) {
	c := Ctx{Params: routepath.Params{"id": "abc", "u": "not-a-uuid"}}

	var n struct {
		ID int `param:"id"`
	}
	if err := c.Bind(&n); err == nil {
		t.Error("expected integer parse error")
	}

	var u struct {
		U uuid.UUID `param:"u"`
	}
	if err := c.Bind(&u); err == nil {
		t.Error("expected uuid parse error")
	}

	if err := c.Bind(n); err == nil {
		t.Error("expected error for non-pointer target")
	}

	var s string
	if err := c.Bind(&s); err == nil {
		t.Error("expected error for non-struct target")
	}
}

func TestParam(t *testing.T) {
	c := Ctx{Params: routepath.Params{"id": "7"}}
	if c.Param("id") != "7" || c.Param("nope") != "" {
		t.Error("Param lookup mismatch")
	}
}
