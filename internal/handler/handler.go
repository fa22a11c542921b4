package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/parley-dev/parley/internal/avatar"
	"github.com/parley-dev/parley/internal/markdown"
	"github.com/parley-dev/parley/internal/session"
	"github.com/parley-dev/parley/shared/config"
	internal_errors "github.com/parley-dev/parley/shared/errors"
	"github.com/parley-dev/parley/shared/logger"
)

// Handler serves the rendered views and translates form posts into session
// operations. All state lives in the session; handlers stay stateless.
type Handler struct {
	Session   *session.Session
	Public    config.Public
	Markdown  *markdown.Renderer
	Avatars   *avatar.Resolver
	Templates map[string]*template.Template
}

func New(s *session.Session, public config.Public, md *markdown.Renderer, av *avatar.Resolver) *Handler {
	return &Handler{
		Session:   s,
		Public:    public,
		Markdown:  md,
		Avatars:   av,
		Templates: mustParseTemplates(),
	}
}

// writeActionError maps an action failure onto the response. Validation
// rejections are the user's problem (422), everything the backend refused
// carries its own status, the rest is a 500.
func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Message, http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, session.ErrNotSignedIn) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	var sc *internal_errors.ErrorWithStatusCode
	if errors.As(err, &sc) {
		http.Error(w, sc.Message, sc.StatusCode)
		return
	}
	logger.Log.Error("action failed", "component", "handler", "error", err)
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
