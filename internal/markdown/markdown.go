// Package markdown renders content bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultCodeStyle is the chroma style used for fenced code blocks.
const DefaultCodeStyle = "github"

// Renderer turns a markdown body into HTML.
type Renderer interface {
	Render(body []byte) (string, error)
}

// Options configures NewRenderer.
type Options struct {
	// CodeStyle selects the chroma style for highlighted code. Empty means DefaultCodeStyle.
	CodeStyle string
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// DisableHighlighting renders fenced code as plain escaped <pre><code>.
	DisableHighlighting bool
}

// GoldmarkRenderer renders GitHub flavoured markdown with raw HTML passed
// through.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a GoldmarkRenderer.
func NewRenderer(opts Options) *GoldmarkRenderer {
	style := opts.CodeStyle
	if style == "" {
		style = DefaultCodeStyle
	}

	extensions := []goldmark.Extender{extension.GFM}
	if !opts.DisableHighlighting {
		extensions = append(extensions, highlighting.NewHighlighting(highlighting.WithStyle(style)))
	}

	rendererOptions := []renderer.Option{goldmarkhtml.WithUnsafe()}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, goldmarkhtml.WithHardWraps())
	}

	return &GoldmarkRenderer{
		md: goldmark.New(
			goldmark.WithParserOptions(parser.WithAttribute()),
			goldmark.WithExtensions(extensions...),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Render implements Renderer.
func (r *GoldmarkRenderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
