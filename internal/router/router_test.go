package router

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
	"github.com/parley-dev/parley/internal/handler"
	"github.com/parley-dev/parley/internal/identity"
	"github.com/parley-dev/parley/internal/markdown"
	"github.com/parley-dev/parley/internal/mutation"
	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/internal/search"
	"github.com/parley-dev/parley/internal/session"
	"github.com/parley-dev/parley/internal/setup"
	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/config"
	"github.com/parley-dev/parley/shared/domain"
)

type memTabs struct{ tab string }

func (m *memTabs) ActiveTab() string      { return m.tab }
func (m *memTabs) SaveActiveTab(t string) { m.tab = t }

func newTestRouter(t *testing.T, backend http.Handler) (http.Handler, *session.Session) {
	t.Helper()
	if backend == nil {
		backend = http.NotFoundHandler()
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	public := config.Public{BackendURL: srv.URL, MediaBaseURL: "http://media.local"}
	client := apiclient.New(srv.URL)
	cache := querycache.New(time.Minute)
	center := notify.NewCenter(10)
	ident := identity.New(client, "secret")
	nav := navigation.NewMachine(nil)
	filters := search.NewState(domain.SortPopular, domain.ReplySortPopular, 0, nil)
	pages := pagination.New(20, 100)
	muts := mutation.NewCoordinator(cache, client, center, 15*time.Minute)

	sess := session.New(public, client, cache, ident, nav, filters, pages, muts, center, &memTabs{tab: "forum"})
	h := handler.New(sess, public, markdown.New(), avatar.New(public.MediaBaseURL))

	return New(&setup.Dependencies{Handler: h, Session: sess, Public: public}), sess
}

func TestRouter_DeepLinkTranslatesToStateAndRedirects(t *testing.T) {
	r, sess := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/threads/3?post=9", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, navigation.ViewReplies, sess.Nav.View())
	assert.Equal(t, domain.ThreadId(3), sess.Nav.Thread().Id)
	assert.Equal(t, domain.PostId(9), sess.Nav.Post().Id)
}

func TestRouter_DeepLinkIgnoresGarbageIds(t *testing.T) {
	r, sess := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/threads/banana", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, navigation.ViewList, sess.Nav.View())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestRouter_SearchCommitsAndRendersResults(t *testing.T) {
	r, sess := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(api.ThreadPageResponse{}))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=%40bookmarked+hello", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	q := sess.Filters.Query()
	assert.True(t, q.Bookmarked)
	assert.Equal(t, "hello", q.Term)
}

func TestRouter_UnknownPaginationListIs400(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pages/nonsense/page", nil)
	req.Form = map[string][]string{"page": {"2"}}
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoverView_KeepsServing(t *testing.T) {
	h := recoverView(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("template blew up")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
