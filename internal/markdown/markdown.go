package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/parley-dev/parley/shared/logger"
)

// Renderer converts post bodies to safe HTML: markdown first, then a strict
// sanitizer pass. Server data is never trusted to be clean.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render produces sanitized HTML for a post body. On a markdown failure the
// raw text is escaped and returned as-is rather than dropped.
func (r *Renderer) Render(text string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		logger.Log.Warn("markdown conversion failed", "component", "markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(r.policy.Sanitize(buf.String()))
}
