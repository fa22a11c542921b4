package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/session"
	"github.com/parley-dev/parley/shared/domain"
)

func parseIdParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// Search commits the search box content immediately. Live typing goes through
// SearchTyping and stays debounced.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.Session.Filters.SetSearchText(r.URL.Query().Get("q"))
	h.Session.Filters.FlushSearch()
	redirectHome(w, r)
}

// SearchTyping records in-progress input without committing it, so every
// keystroke does not become a query.
func (h *Handler) SearchTyping(w http.ResponseWriter, r *http.Request) {
	h.Session.Filters.SetSearchText(r.FormValue("q"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetThreadSort(w http.ResponseWriter, r *http.Request) {
	switch v := domain.ThreadSort(r.FormValue("sort")); v {
	case domain.SortPopular, domain.SortRecent, domain.SortNew:
		h.Session.Filters.SetThreadSort(v)
		redirectHome(w, r)
	default:
		http.Error(w, "unknown sort", http.StatusBadRequest)
	}
}

func (h *Handler) SetReplySort(w http.ResponseWriter, r *http.Request) {
	switch v := domain.ReplySort(r.FormValue("sort")); v {
	case domain.ReplySortPopular, domain.ReplySortNew:
		h.Session.Filters.SetReplySort(v)
		redirectHome(w, r)
	default:
		http.Error(w, "unknown sort", http.StatusBadRequest)
	}
}

func knownList(name string) (pagination.List, bool) {
	switch l := pagination.List(name); l {
	case pagination.Threads, pagination.Replies, pagination.SubReplies,
		pagination.AuthorSearch, pagination.Bookmarks:
		return l, true
	}
	return "", false
}

func (h *Handler) SetPage(w http.ResponseWriter, r *http.Request) {
	list, ok := knownList(chi.URLParam(r, "list"))
	if !ok {
		http.Error(w, "unknown list", http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(r.FormValue("page"))
	if err != nil {
		http.Error(w, "page must be an integer", http.StatusBadRequest)
		return
	}
	h.Session.Pages.SetPage(list, page)
	redirectHome(w, r)
}

// SetPageSize runs the buffered edit-then-commit cycle in one request: the
// form submit is the blur.
func (h *Handler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	list, ok := knownList(chi.URLParam(r, "list"))
	if !ok {
		http.Error(w, "unknown list", http.StatusBadRequest)
		return
	}
	h.Session.Pages.EditPageSize(list, r.FormValue("size"))
	h.Session.Pages.CommitPageSize(list)
	redirectHome(w, r)
}

func (h *Handler) OpenThread(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "thread")
	if err != nil || id <= 0 {
		http.Error(w, "invalid thread id", http.StatusBadRequest)
		return
	}
	h.Session.Nav.OpenThread(domain.StubThread(id, r.FormValue("title")))
	redirectHome(w, r)
}

func (h *Handler) OpenReplies(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "post")
	if err != nil || id <= 0 {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	h.Session.Nav.OpenReplies(domain.StubPost(id))
	redirectHome(w, r)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.Session.Nav.Back()
	redirectHome(w, r)
}

func (h *Handler) GoToList(w http.ResponseWriter, r *http.Request) {
	h.Session.Nav.GoToList()
	redirectHome(w, r)
}

func (h *Handler) ActivateTab(w http.ResponseWriter, r *http.Request) {
	h.Session.ActivateTab(r.FormValue("tab"))
	redirectHome(w, r)
}

func (h *Handler) SubmitReply(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Session.SubmitReply(r.Context(), r.FormValue("content")); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) SubmitThread(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form := session.ThreadCompose{
		Title:        r.FormValue("title"),
		Content:      r.FormValue("content"),
		PollMultiple: r.FormValue("poll_multiple") != "",
	}
	for _, opt := range r.PostForm["poll_option"] {
		if opt != "" {
			form.PollOptions = append(form.PollOptions, opt)
		}
	}
	if raw := r.FormValue("poll_ends_at"); raw != "" {
		endsAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "poll end time must be RFC 3339", http.StatusBadRequest)
			return
		}
		form.PollEndsAt = endsAt
	}

	if _, err := h.Session.SubmitThread(r.Context(), form); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "post")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	direction, err := strconv.Atoi(r.FormValue("direction"))
	if err != nil || (direction != 1 && direction != -1) {
		http.Error(w, "direction must be 1 or -1", http.StatusBadRequest)
		return
	}
	if err := h.Session.CastVote(r.Context(), id, domain.Vote(direction)); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "thread")
	if err != nil {
		http.Error(w, "invalid thread id", http.StatusBadRequest)
		return
	}
	if err := h.Session.ToggleBookmark(r.Context(), id); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "post")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	if err := h.Session.ToggleFlag(r.Context(), id); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

// postAction looks up the on-screen copy of a post and runs an action that
// needs the full record, not just the id.
func (h *Handler) postAction(w http.ResponseWriter, r *http.Request, run func(post *domain.Post) error) {
	id, err := parseIdParam(r, "post")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	post := h.Session.FindPost(id)
	if post == nil {
		http.Error(w, "post is not on screen", http.StatusNotFound)
		return
	}
	if err := run(post); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.postAction(w, r, func(post *domain.Post) error {
		return h.Session.DeletePost(r.Context(), post)
	})
}

func (h *Handler) RestorePost(w http.ResponseWriter, r *http.Request) {
	h.postAction(w, r, func(post *domain.Post) error {
		return h.Session.RestorePost(r.Context(), post)
	})
}

func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	h.postAction(w, r, func(post *domain.Post) error {
		return h.Session.EditPost(r.Context(), post, r.FormValue("content"))
	})
}

func (h *Handler) VotePoll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	var optionIds []int64
	for _, raw := range r.PostForm["option"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "option ids must be integers", http.StatusBadRequest)
			return
		}
		optionIds = append(optionIds, id)
	}
	if len(optionIds) == 0 {
		http.Error(w, "pick at least one option", http.StatusBadRequest)
		return
	}
	if _, err := h.Session.VotePoll(r.Context(), optionIds); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.SignIn(r.Context(), r.FormValue("email"), r.FormValue("password")); err != nil {
		h.writeActionError(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.Session.SignOut(r.Context())
	redirectHome(w, r)
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	h.Session.Notify.Dismiss(chi.URLParam(r, "id"))
	redirectHome(w, r)
}
