package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-dev/parley/internal/apiclient"
	"github.com/parley-dev/parley/internal/avatar"
	"github.com/parley-dev/parley/internal/identity"
	"github.com/parley-dev/parley/internal/markdown"
	"github.com/parley-dev/parley/internal/mutation"
	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/internal/search"
	"github.com/parley-dev/parley/internal/session"
	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/config"
	"github.com/parley-dev/parley/shared/domain"
)

type memTabs struct{ tab string }

func (m *memTabs) ActiveTab() string      { return m.tab }
func (m *memTabs) SaveActiveTab(t string) { m.tab = t }

func newTestHandler(t *testing.T, backend http.Handler) *Handler {
	t.Helper()
	if backend == nil {
		backend = http.NotFoundHandler()
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	public := config.Public{MediaBaseURL: "http://media.local"}
	client := apiclient.New(srv.URL)
	cache := querycache.New(time.Minute)
	center := notify.NewCenter(10)
	ident := identity.New(client, "secret")
	nav := navigation.NewMachine(nil)
	filters := search.NewState(domain.SortPopular, domain.ReplySortPopular, 0, nil)
	pages := pagination.New(20, 100)
	muts := mutation.NewCoordinator(cache, client, center, 15*time.Minute)

	sess := session.New(public, client, cache, ident, nav, filters, pages, muts, center, &memTabs{tab: "forum"})
	return New(sess, public, markdown.New(), avatar.New(public.MediaBaseURL))
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestIndex_RendersThreadList(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, api.ThreadPageResponse{
			Items: []*domain.Thread{
				{Id: 1, Title: "first topic", Author: domain.User{Name: "alice"}, ReplyCount: 2},
				{Id: 2, Title: "second topic", Author: domain.User{Name: "bob"}, Bookmarked: true},
			},
			Total: 2,
		})
	}))

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "first topic")
	assert.Contains(t, body, "second topic")
	assert.Contains(t, body, "bookmarked")
}

func TestIndex_ThreadViewRendersSanitizedBody(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/threads/3":
			resp := api.ThreadResponse{}
			resp.Id = 3
			resp.Title = "topic"
			resp.RootId = 100
			respondJSON(t, w, resp)
		case "/v1/posts/100":
			resp := api.PostResponse{}
			resp.Id = 100
			resp.ThreadId = 3
			resp.Content = "**bold** <script>alert(1)</script>"
			respondJSON(t, w, resp)
		case "/v1/threads/3/posts":
			respondJSON(t, w, api.PostPageResponse{})
		default:
			http.NotFound(w, r)
		}
	}))

	h.Session.Nav.OpenThread(domain.StubThread(3, "topic"))

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>bold</strong>", "markdown rendered")
	assert.NotContains(t, body, "<script>", "script stripped")
	assert.Contains(t, body, "topic")
}

func TestIndex_BackendFailureRendersRetryView(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "loading threads failed")
	assert.Contains(t, body, "retry")
}

func TestSubmitReply_InvalidDraftIs422(t *testing.T) {
	requests := 0
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	h.Session.Nav.OpenThread(domain.StubThread(3, "topic"))

	req := httptest.NewRequest(http.MethodPost, "/reply", nil)
	req.Form = map[string][]string{"content": {""}}
	rec := httptest.NewRecorder()
	h.SubmitReply(rec, req)

	// Anonymous first: signing in is required before validation even matters.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := identity.NewToken("secret", domain.User{Id: 7, Name: "alice"}, time.Hour)
	require.NoError(t, err)
	h.Session.AdoptToken(token)

	rec = httptest.NewRecorder()
	h.SubmitReply(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, requests)
}
