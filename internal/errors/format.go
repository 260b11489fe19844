package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorWhite = "\033[37m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

type formatter struct {
	color bool
	b     strings.Builder
}

func (f *formatter) paint(code, text string) string {
	if !f.color {
		return text
	}
	return code + text + colorReset
}

// Format returns the error formatted for a terminal, with ANSI colors.
func (e *Error) Format() string {
	return e.format(true)
}

// Text returns the same report as Format without colors, for HTML pages and
// log files.
func (e *Error) Text() string {
	return e.format(false)
}

func (e *Error) format(color bool) string {
	f := &formatter{color: color}
	b := &f.b

	if e.Code != "" {
		b.WriteString(f.paint(colorRed+colorBold, "ERROR "))
		b.WriteString(f.paint(colorWhite+colorBold, e.Code+": "))
	} else {
		b.WriteString(f.paint(colorRed+colorBold, "ERROR: "))
	}
	b.WriteString(f.paint(colorWhite, e.Message))
	b.WriteString("\n\n")

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(f.paint(colorCyan, "Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	if template, ok := registry[e.Code]; ok && template.Detail != "" {
		for _, line := range wrapText(template.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(f.paint(colorGray, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(e.Stack) > 0 {
		b.WriteString("  ")
		b.WriteString(f.paint(colorCyan, "Stack:"))
		b.WriteString("\n")
		for _, call := range e.Stack {
			fmt.Fprintf(b, "    %+n\n        %s\n", call, f.paint(colorGray, fmt.Sprintf("%+v", call)))
		}
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Fprint writes err to w: the full report for an *Error anywhere in the
// chain, a single ERROR line otherwise.
func Fprint(w io.Writer, err error, color bool) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, "\n"+e.format(color))
		return
	}
	prefix := "ERROR:"
	if color {
		prefix = colorRed + colorBold + "ERROR:" + colorReset
	}
	fmt.Fprintf(w, "\n%s %s\n\n", prefix, err.Error())
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err, true)
}
