package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/parley-dev/parley/internal/apiclient"
	"github.com/parley-dev/parley/internal/identity"
	"github.com/parley-dev/parley/internal/mutation"
	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/internal/search"
	"github.com/parley-dev/parley/shared/config"
	"github.com/parley-dev/parley/shared/domain"
)

var ErrNotSignedIn = errors.New("sign in to do that")

// ValidationError is a pre-flight rejection: nothing was sent and no cache
// entry was touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Session composes the independent state machines (navigation, filters,
// pagination) with the cache, the mutation coordinator and the identity
// service into the user-facing operations. It is the only place where a user
// action fans out into state transitions and requests.
type Session struct {
	cfg      config.Public
	client   *apiclient.Client
	cache    *querycache.Cache
	identity *identity.Service
	Nav      *navigation.Machine
	Filters  *search.State
	Pages    *pagination.Coordinator
	muts     *mutation.Coordinator
	Notify   *notify.Center
	validate *validator.Validate

	tabs TabStore

	mu           sync.Mutex
	resetCounter uint64
	scrollTarget domain.PostId // reply to scroll to and highlight, consumed once
}

// TabStore persists the active tab (prefs store).
type TabStore interface {
	ActiveTab() string
	SaveActiveTab(string)
}

func New(
	cfg config.Public,
	client *apiclient.Client,
	cache *querycache.Cache,
	ident *identity.Service,
	nav *navigation.Machine,
	filters *search.State,
	pages *pagination.Coordinator,
	muts *mutation.Coordinator,
	center *notify.Center,
	tabs TabStore,
) *Session {
	s := &Session{
		cfg:      cfg,
		client:   client,
		cache:    cache,
		identity: ident,
		Nav:      nav,
		Filters:  filters,
		Pages:    pages,
		muts:     muts,
		Notify:   center,
		validate: validator.New(),
		tabs:     tabs,
	}
	s.syncCaller()
	return s
}

// Identity returns the signed-in identity or nil.
func (s *Session) Identity() *identity.Identity {
	if s.identity == nil {
		return nil
	}
	return s.identity.Current()
}

func (s *Session) syncCaller() {
	ident := s.Identity()
	s.Filters.SetCaller(search.Caller{
		Authenticated: ident != nil,
		Admin:         ident != nil && ident.IsAdmin,
	})
}

// SignIn authenticates and drops user-scoped cache state (own votes,
// bookmarks) so everything refetches under the new identity.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	if _, err := s.identity.SignIn(ctx, email, password); err != nil {
		return err
	}
	s.syncCaller()
	s.cache.Invalidate(
		querycache.KindThreads, querycache.KindThread,
		querycache.KindPosts, querycache.KindPost,
		querycache.KindPostSearch, querycache.KindBookmarks, querycache.KindPoll,
	)
	return nil
}

// AdoptToken installs a previously issued access token (restored session).
// An invalid token leaves the session anonymous.
func (s *Session) AdoptToken(token string) bool {
	ident := s.identity.Adopt(token)
	s.syncCaller()
	return ident != nil
}

func (s *Session) SignOut(ctx context.Context) {
	s.identity.SignOut(ctx)
	s.syncCaller()
	s.cache.Invalidate(
		querycache.KindThreads, querycache.KindThread,
		querycache.KindPosts, querycache.KindPost,
		querycache.KindPostSearch, querycache.KindBookmarks, querycache.KindPoll,
	)
}

// ActivateTab switches the top-level tab. Re-activating the forum tab while
// already on it is the external reset signal: it sends navigation home
// instead of doing nothing.
func (s *Session) ActivateTab(tab string) {
	prev := s.tabs.ActiveTab()
	s.tabs.SaveActiveTab(tab)

	if tab == "forum" && prev == "forum" {
		s.mu.Lock()
		s.resetCounter++
		counter := s.resetCounter
		s.mu.Unlock()
		s.Nav.ApplyResetSignal(counter)
	}
}

func (s *Session) ActiveTab() string {
	return s.tabs.ActiveTab()
}

// SetVisible forwards page visibility to the cache so background polling
// pauses while hidden.
func (s *Session) SetVisible(v bool) {
	s.cache.SetVisible(v)
}

// TakeScrollTarget returns the post to scroll to and highlight, at most once.
func (s *Session) TakeScrollTarget() (domain.PostId, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scrollTarget == 0 {
		return 0, false
	}
	id := s.scrollTarget
	s.scrollTarget = 0
	return id, true
}

func (s *Session) setScrollTarget(id domain.PostId) {
	s.mu.Lock()
	s.scrollTarget = id
	s.mu.Unlock()
}

// check runs struct validation and converts the first failure into a
// user-facing ValidationError before anything is sent or cached.
func (s *Session) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Message: describeFieldError(verrs[0])}
	}
	return &ValidationError{Message: "invalid input"}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " is too short (minimum " + fe.Param() + ")"
	case "max":
		return fe.Field() + " is too long (maximum " + fe.Param() + ")"
	default:
		return fe.Field() + " is invalid"
	}
}
