package render

import (
	"encoding/json"
	"fmt"
	"io"
)

// FlashGlobal is the window property holding the one-shot flash state.
const FlashGlobal = "__VITRIO_FLASH__"

// PageData contains everything needed to write a complete HTML document.
type PageData struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Meta contains extra meta tags for the head.
	Meta []MetaTag

	// StyleSheets contains stylesheet URLs.
	StyleSheets []string

	// Banner is rendered above the application body (flash notices).
	Banner Component

	// Body is the rendered application markup.
	Body string

	// Flash is embedded as inline client state. A nil value is written as
	// null so client code can always read the global.
	Flash any

	// ClientScript is the client entry URL. Empty means the page is
	// server-rendered only and no script is referenced.
	ClientScript string

	// DevScript is an inline script appended in development mode.
	DevScript string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// RenderPage writes a complete HTML document to w.
func RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!doctype html>\n<html lang=\"%s\">\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := renderHead(w, page); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if page.Banner != nil {
		if err := page.Banner.Render(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "<div id=\"app\">%s</div>\n", page.Body); err != nil {
		return err
	}
	if err := renderFlashState(w, page.Flash); err != nil {
		return err
	}
	if page.ClientScript != "" {
		if _, err := fmt.Fprintf(w, "<script src=\"%s\" defer></script>\n", escapeAttr(page.ClientScript)); err != nil {
			return err
		}
	}
	if page.DevScript != "" {
		if _, err := io.WriteString(w, page.DevScript); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

func renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"+
		"  <meta charset=\"utf-8\">\n"+
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

func renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := io.WriteString(w, "  <meta"); err != nil {
		return err
	}
	if meta.Name != "" {
		if _, err := fmt.Fprintf(w, ` name="%s"`, escapeAttr(meta.Name)); err != nil {
			return err
		}
	}
	if meta.Property != "" {
		if _, err := fmt.Fprintf(w, ` property="%s"`, escapeAttr(meta.Property)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, ` content="%s">`+"\n", escapeAttr(meta.Content)); err != nil {
		return err
	}
	return nil
}

// renderFlashState writes the flash payload as an inline script. The JSON
// encoder escapes <, > and & so the payload cannot close the script element.
func renderFlashState(w io.Writer, flash any) error {
	raw, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("render: flash state: %w", err)
	}
	_, err = fmt.Fprintf(w, "<script>window.%s = %s;</script>\n", FlashGlobal, raw)
	return err
}
