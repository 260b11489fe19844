package render

import (
	"fmt"
	"io"
	"net/http"
)

// ErrorPageData describes the minimal error document.
type ErrorPageData struct {
	// Title is the application title, shown after the status code.
	Title string

	// Status is the HTTP status code. Defaults to 500.
	Status int

	// Detail is diagnostic text shown in a <pre> block. Leave it empty in
	// production so nothing about the failure leaks to the client.
	Detail string
}

const errorPageStyle = `    <style>
      body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 800px; margin: 80px auto; padding: 0 20px; color: #333; line-height: 1.6; }
      h1 { color: #d32f2f; border-bottom: 2px solid #d32f2f; padding-bottom: 10px; }
      pre { background: #f5f5f5; border: 1px solid #ddd; border-radius: 4px; padding: 15px; overflow-x: auto; font-size: 14px; }
      .error-code { color: #999; font-size: 14px; }
    </style>
`

// RenderErrorPage writes a standalone error document.
func RenderErrorPage(w io.Writer, data ErrorPageData) error {
	status := data.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	text := http.StatusText(status)

	title := fmt.Sprintf("%d", status)
	if data.Title != "" {
		title = fmt.Sprintf("%d - %s", status, data.Title)
	}

	if _, err := fmt.Fprintf(w, "<!doctype html>\n<html>\n<head>\n"+
		"  <meta charset=\"utf-8\">\n"+
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"+
		"  <title>%s</title>\n%s</head>\n<body>\n", escapeHTML(title), errorPageStyle); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  <h1>%d %s</h1>\n  <p class=\"error-code\">An error occurred while processing your request.</p>\n",
		status, escapeHTML(text)); err != nil {
		return err
	}
	if data.Detail != "" {
		if _, err := fmt.Fprintf(w, "  <pre>%s</pre>\n", escapeHTML(data.Detail)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
