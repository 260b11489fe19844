package render

import (
	"strings"
	"testing"
)

func TestRenderPage(t *testing.T) {
	var b strings.Builder
	err := RenderPage(&b, PageData{
		Title:        "Home <1>",
		StyleSheets:  []string{"/assets/app.css"},
		Meta:         []MetaTag{{Name: "description", Content: "demo"}},
		Banner:       HTML(`<div class="flash">Saved</div>`),
		Body:         "<main>hi</main>",
		Flash:        map[string]any{"ok": true},
		ClientScript: "/assets/entry.js",
	})
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"<!doctype html>",
		`<html lang="en">`,
		"<title>Home &lt;1&gt;</title>",
		`<meta name="description" content="demo">`,
		`<link rel="stylesheet" href="/assets/app.css">`,
		`<div class="flash">Saved</div>`,
		`<div id="app"><main>hi</main></div>`,
		`<script>window.__VITRIO_FLASH__ = {"ok":true};</script>`,
		`<script src="/assets/entry.js" defer></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q\n%s", want, out)
		}
	}
}

func TestRenderPageNullFlashAndNoClient(t *testing.T) {
	var b strings.Builder
	if err := RenderPage(&b, PageData{Body: "x"}); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "window.__VITRIO_FLASH__ = null;") {
		t.Errorf("expected null flash state:\n%s", out)
	}
	if strings.Contains(out, "<script src=") {
		t.Errorf("unexpected client script:\n%s", out)
	}
}

func TestRenderPageEscapesFlashJSON(t *testing.T) {
	var b strings.Builder
	if err := RenderPage(&b, PageData{Flash: map[string]string{"m": "</script><script>"}}); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if strings.Contains(b.String(), "</script><script>") {
		t.Error("flash JSON was not escaped inside the script element")
	}
}

func TestRenderErrorPage(t *testing.T) {
	var b strings.Builder
	if err := RenderErrorPage(&b, ErrorPageData{Title: "app", Detail: "boom <x>"}); err != nil {
		t.Fatalf("RenderErrorPage() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{"<title>500 - app</title>", "500 Internal Server Error", "<pre>boom &lt;x&gt;</pre>"} {
		if !strings.Contains(out, want) {
			t.Errorf("error page missing %q", want)
		}
	}

	b.Reset()
	if err := RenderErrorPage(&b, ErrorPageData{Status: 503}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b.String(), "<pre>") {
		t.Error("detail block rendered without detail")
	}
	if !strings.Contains(b.String(), "503 Service Unavailable") {
		t.Error("missing status text")
	}
}
