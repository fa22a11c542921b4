package router

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parley-dev/parley/internal/setup"
	"github.com/parley-dev/parley/shared/logger"
)

// New wires every route. Views are GET, every state change is a POST that
// redirects back to the single rendered page.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(recoverView)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{deps.Public.BackendURL},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	h := deps.Handler

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Index)
	r.Get("/threads/{thread}", h.DeepLink)
	r.Get("/search", h.Search)
	r.Post("/search/typing", h.SearchTyping)

	r.Post("/signin", h.SignIn)
	r.Post("/signout", h.SignOut)
	r.Post("/tab", h.ActivateTab)
	r.Post("/notifications/{id}/dismiss", h.DismissNotification)

	r.Post("/sort/threads", h.SetThreadSort)
	r.Post("/sort/replies", h.SetReplySort)
	r.Post("/pages/{list}/page", h.SetPage)
	r.Post("/pages/{list}/size", h.SetPageSize)

	r.Post("/navigate/back", h.Back)
	r.Post("/navigate/list", h.GoToList)
	r.Post("/threads/{thread}/open", h.OpenThread)
	r.Post("/posts/{post}/open", h.OpenReplies)

	r.Post("/threads", h.SubmitThread)
	r.Post("/reply", h.SubmitReply)
	r.Post("/threads/{thread}/bookmark", h.ToggleBookmark)
	r.Post("/posts/{post}/vote", h.Vote)
	r.Post("/posts/{post}/flag", h.ToggleFlag)
	r.Post("/posts/{post}/delete", h.DeletePost)
	r.Post("/posts/{post}/restore", h.RestorePost)
	r.Post("/posts/{post}/edit", h.EditPost)
	r.Post("/poll/vote", h.VotePoll)

	return r
}

// recoverView keeps a panic in one view from taking the process down; the
// request gets a 500 and everything else stays reachable.
func recoverView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("view panicked",
					"component", "router", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "something went wrong", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
