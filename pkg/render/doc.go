// Package render turns route views into HTML documents.
//
// The package has two halves. The first is the view collaborator: a
// Component writes markup to an io.Writer, and a Renderer turns a Component
// into a string. The engine is deliberately small; anything able to write
// HTML (html/template, a hand-written writer, a third-party component
// library) can be adapted with ComponentFunc or Template.
//
// The second half assembles the final document around the rendered body:
//
//	page := render.PageData{
//	    Title:        "Home",
//	    Body:         body,
//	    Flash:        flash,           // inline client state, may be nil
//	    ClientScript: "/assets/entry.js",
//	}
//	err := render.RenderPage(w, page)
//
// RenderErrorPage writes the minimal 500 page used when a loader fails.
package render
