package handler

import (
	"bytes"
	"net/http"

	"github.com/parley-dev/parley/shared/logger"
)

// render executes a view into a buffer first so a template failure can still
// produce a clean error response instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := h.Templates[name]
	if !ok {
		logger.Log.Error("unknown template", "component", "handler", "template", name)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Log.Error("template rendering failed", "component", "handler", "template", name, "error", err)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// renderError shows a per-view failure with a retry control. The rest of the
// app stays reachable through the header.
func (h *Handler) renderError(w http.ResponseWriter, message string) {
	h.render(w, "error", errorData{header: h.header("error"), Message: message})
}
