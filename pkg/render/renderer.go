package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Renderer turns a Component into markup text.
type Renderer interface {
	RenderToString(ctx context.Context, c Component) (string, error)
}

// RendererConfig configures the default renderer.
type RendererConfig struct {
	// MaxBytes aborts rendering when the output grows past this size.
	// 0 means no limit.
	MaxBytes int
}

// HTMLRenderer is the default Renderer. It buffers the component output and
// converts panics raised while rendering into errors.
type HTMLRenderer struct {
	config RendererConfig
}

// NewRenderer creates a renderer with the given configuration.
func NewRenderer(config RendererConfig) *HTMLRenderer {
	return &HTMLRenderer{config: config}
}

// RenderToString renders c. A nil component renders as the empty string.
func (r *HTMLRenderer) RenderToString(ctx context.Context, c Component) (out string, err error) {
	if c == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = fmt.Errorf("render: panic: %v", rec)
		}
	}()

	var buf strings.Builder
	w := &limitWriter{b: &buf, max: r.config.MaxBytes}
	if err := c.Render(w); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ErrOutputTooLarge is returned when RendererConfig.MaxBytes is exceeded.
var ErrOutputTooLarge = errors.New("render: output exceeds size limit")

type limitWriter struct {
	b   *strings.Builder
	max int
}

func (l *limitWriter) Write(p []byte) (int, error) {
	if l.max > 0 && l.b.Len()+len(p) > l.max {
		return 0, ErrOutputTooLarge
	}
	return l.b.Write(p)
}
