package setup

import (
	"context"
	"fmt"

	"github.com/parley-dev/parley/internal/apiclient"
	"github.com/parley-dev/parley/internal/avatar"
	"github.com/parley-dev/parley/internal/handler"
	"github.com/parley-dev/parley/internal/identity"
	"github.com/parley-dev/parley/internal/markdown"
	"github.com/parley-dev/parley/internal/mutation"
	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/prefs"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/internal/search"
	"github.com/parley-dev/parley/internal/session"
	"github.com/parley-dev/parley/shared/config"
)

const notificationLimit = 20

type Dependencies struct {
	Handler *handler.Handler
	Session *session.Session
	Public  config.Public

	prefs  *prefs.Store
	cancel context.CancelFunc
}

// SetupDependencies builds the full object graph: persisted state, backend
// client, cache with background refresh, the state machines, the mutation
// coordinator and the handler on top.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())

	store, err := prefs.Open(cfg.Public.StateFile)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open persisted state: %w", err)
	}

	client := apiclient.New(cfg.Public.BackendURL)
	cache := querycache.New(cfg.Public.StaleAfter.Std())
	cache.StartBackgroundRefresh(ctx, cfg.Public.RefreshInterval.Std())

	center := notify.NewCenter(notificationLimit)
	ident := identity.New(client, cfg.JwtKey())

	nav := navigation.NewMachine(store)
	nav.Restore()

	filters := search.NewState(store.ThreadSort(), store.ReplySort(), cfg.Public.SearchDebounce.Std(), store)
	pages := pagination.New(cfg.Public.DefaultPageSize, cfg.Public.MaxPageSize)
	muts := mutation.NewCoordinator(cache, client, center, cfg.Public.EditWindow.Std())

	sess := session.New(cfg.Public, client, cache, ident, nav, filters, pages, muts, center, store)

	h := handler.New(sess, cfg.Public, markdown.New(), avatar.New(cfg.Public.MediaBaseURL))

	return &Dependencies{
		Handler: h,
		Session: sess,
		Public:  cfg.Public,
		prefs:   store,
		cancel:  cancel,
	}, nil
}

// Close stops background work and releases the state file.
func (d *Dependencies) Close() {
	d.cancel()
	if d.prefs != nil {
		d.prefs.Close()
	}
}
