package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := New()

	t.Run("markdown becomes html", func(t *testing.T) {
		out := string(r.Render("some **bold** text"))
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("script tags are stripped", func(t *testing.T) {
		out := string(r.Render(`hello <script>alert(1)</script>`))
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "hello")
	})

	t.Run("links survive sanitization", func(t *testing.T) {
		out := string(r.Render("see https://example.org/docs"))
		assert.Contains(t, out, `href="https://example.org/docs"`)
	})
}
