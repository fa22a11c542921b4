package handler

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/session"
	"github.com/parley-dev/parley/shared/domain"
	"github.com/parley-dev/parley/shared/logger"
)

type header struct {
	Title         string
	SignedIn      bool
	UserName      string
	ActiveTab     string
	SearchText    string
	Notifications []notify.Notification
}

type postView struct {
	*domain.Post
	Body      template.HTML
	AvatarURL string
	Highlight bool
}

type threadView struct {
	*domain.Thread
	AvatarURL string
}

type listData struct {
	header
	Mode    session.ListMode
	Threads []threadView
	Posts   []postView

	List       pagination.List
	Page       int
	PageSize   int
	TotalPages int
}

type threadData struct {
	header
	Thread  threadView
	Root    *postView
	Poll    *domain.Poll
	Replies []postView

	List       pagination.List
	Page       int
	PageSize   int
	TotalPages int
}

type repliesData struct {
	header
	Parent  *postView
	Replies []postView

	List       pagination.List
	Page       int
	PageSize   int
	TotalPages int
}

type errorData struct {
	header
	Message string
}

// Index renders whatever view the navigation machine is in. The URL never
// carries view state; deep links translate into state first and redirect here.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	switch h.Session.Nav.View() {
	case navigation.ViewThread:
		h.threadView(w, r)
	case navigation.ViewReplies:
		h.repliesView(w, r)
	default:
		h.listView(w, r)
	}
}

func (h *Handler) listView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode := h.Session.CurrentListMode()

	if mode == session.ListPosts {
		page, err := h.Session.PostSearch(ctx)
		if err != nil {
			h.renderError(w, "loading search results failed")
			return
		}
		cur := h.Session.Pages.Cursor(pagination.AuthorSearch)
		h.render(w, "list", listData{
			header: h.header("search"),
			Mode:   mode,
			Posts:  h.postViews(page.Items, 0),
			List:   pagination.AuthorSearch,
			Page:   cur.Page, PageSize: cur.PageSize,
			TotalPages: totalPages(page.Total, cur.PageSize),
		})
		return
	}

	page, err := h.Session.Threads(ctx)
	if err != nil {
		h.renderError(w, "loading threads failed")
		return
	}
	list := pagination.Threads
	if mode == session.ListBookmarks {
		list = pagination.Bookmarks
	}
	cur := h.Session.Pages.Cursor(list)
	h.render(w, "list", listData{
		header:  h.header("threads"),
		Mode:    mode,
		Threads: h.threadViews(page.Items),
		List:    list,
		Page:    cur.Page, PageSize: cur.PageSize,
		TotalPages: totalPages(page.Total, cur.PageSize),
	})
}

func (h *Handler) threadView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	thread, err := h.Session.CurrentThread(ctx)
	if err != nil {
		h.renderError(w, "loading thread failed")
		return
	}
	if thread == nil {
		// Stale reference; nothing to show here.
		h.Session.Nav.GoToList()
		redirectHome(w, r)
		return
	}

	root, err := h.Session.RootPost(ctx)
	if err != nil {
		h.renderError(w, "loading thread failed")
		return
	}
	replies, err := h.Session.Replies(ctx)
	if err != nil {
		h.renderError(w, "loading replies failed")
		return
	}

	var poll *domain.Poll
	if thread.HasPoll {
		if poll, err = h.Session.Poll(ctx); err != nil {
			logger.Log.Warn("loading poll failed", "component", "handler", "thread_id", thread.Id, "error", err)
		}
	}

	highlight, _ := h.Session.TakeScrollTarget()
	cur := h.Session.Pages.Cursor(pagination.Replies)
	h.render(w, "thread", threadData{
		header:  h.header(thread.Title),
		Thread:  h.threadViewOf(thread),
		Root:    h.postViewOf(root, highlight),
		Poll:    poll,
		Replies: h.postViews(replies.Items, highlight),
		List:    pagination.Replies,
		Page:    cur.Page, PageSize: cur.PageSize,
		TotalPages: totalPages(replies.Total, cur.PageSize),
	})
}

func (h *Handler) repliesView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parent, err := h.Session.CurrentPost(ctx)
	if err != nil {
		h.renderError(w, "loading post failed")
		return
	}
	if parent == nil {
		h.Session.Nav.Back()
		redirectHome(w, r)
		return
	}

	subs, err := h.Session.SubReplies(ctx)
	if err != nil {
		h.renderError(w, "loading replies failed")
		return
	}

	highlight, _ := h.Session.TakeScrollTarget()
	cur := h.Session.Pages.Cursor(pagination.SubReplies)
	h.render(w, "replies", repliesData{
		header:  h.header("replies"),
		Parent:  h.postViewOf(parent, highlight),
		Replies: h.postViews(subs.Items, highlight),
		List:    pagination.SubReplies,
		Page:    cur.Page, PageSize: cur.PageSize,
		TotalPages: totalPages(subs.Total, cur.PageSize),
	})
}

// DeepLink translates /threads/{thread}?post=N into navigation state and
// redirects to the single rendered page. Garbage ids are ignored.
func (h *Handler) DeepLink(w http.ResponseWriter, r *http.Request) {
	threadId, _ := strconv.ParseInt(chi.URLParam(r, "thread"), 10, 64)
	postId, _ := strconv.ParseInt(r.URL.Query().Get("post"), 10, 64)
	h.Session.Nav.DeepLink(threadId, postId)
	redirectHome(w, r)
}

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) header(title string) header {
	hd := header{
		Title:         title,
		ActiveTab:     h.Session.ActiveTab(),
		SearchText:    h.Session.Filters.SearchText(),
		Notifications: h.Session.Notify.Recent(),
	}
	if ident := h.Session.Identity(); ident != nil {
		hd.SignedIn = true
		hd.UserName = ident.Name
	}
	return hd
}

func (h *Handler) postViewOf(p *domain.Post, highlight domain.PostId) *postView {
	if p == nil {
		return nil
	}
	return &postView{
		Post:      p,
		Body:      h.Markdown.Render(p.Content),
		AvatarURL: h.Avatars.Resolve(p.Author.AvatarPath, p.Author.Name),
		Highlight: highlight != 0 && p.Id == highlight,
	}
}

func (h *Handler) postViews(items []*domain.Post, highlight domain.PostId) []postView {
	out := make([]postView, 0, len(items))
	for _, p := range items {
		if v := h.postViewOf(p, highlight); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func (h *Handler) threadViewOf(t *domain.Thread) threadView {
	return threadView{
		Thread:    t,
		AvatarURL: h.Avatars.Resolve(t.Author.AvatarPath, t.Author.Name),
	}
}

func (h *Handler) threadViews(items []*domain.Thread) []threadView {
	out := make([]threadView, 0, len(items))
	for _, t := range items {
		if t != nil {
			out = append(out, h.threadViewOf(t))
		}
	}
	return out
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	n := (total + pageSize - 1) / pageSize
	if n < 1 {
		n = 1
	}
	return n
}
