package mutation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/domain"
	"github.com/parley-dev/parley/shared/logger"
)

var (
	// ErrInFlight: the same logical operation is already running; the
	// duplicate submission is ignored.
	ErrInFlight = errors.New("operation already in flight")

	// ErrEditWindowExpired: the post can no longer be edited.
	ErrEditWindowExpired = errors.New("edit window expired")
)

// Backend is the slice of the API client the coordinator mutates through.
type Backend interface {
	Vote(ctx context.Context, id domain.PostId, direction domain.Vote) (*domain.Post, error)
	CreatePost(ctx context.Context, req api.CreatePostRequest) (*domain.Post, error)
	CreateThread(ctx context.Context, req api.CreateThreadRequest) (*domain.Thread, *domain.Post, error)
	EditPost(ctx context.Context, id domain.PostId, content string) (*domain.Post, error)
	AppendComment(ctx context.Context, id domain.PostId, comment string) (*domain.Post, error)
	SetDeleted(ctx context.Context, id domain.PostId, deleted bool) (*domain.Post, error)
	ToggleBookmark(ctx context.Context, id domain.ThreadId) (*domain.Thread, error)
	ToggleFlag(ctx context.Context, id domain.PostId) (*domain.Post, error)
}

var mutationFailures = newFailureCounter()

// Coordinator applies local-first updates for every mutating operation and
// reconciles them against the backend response: the optimistic change lands
// synchronously, a failure reverts exactly the fields that changed and
// surfaces an error, a success adopts the authoritative record.
//
// It is the only component allowed to write into the query cache.
type Coordinator struct {
	cache   *querycache.Cache
	backend Backend
	notify  *notify.Center

	editWindow time.Duration
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]bool

	sentinel atomic.Int64 // counts down below zero
}

func NewCoordinator(cache *querycache.Cache, backend Backend, center *notify.Center, editWindow time.Duration) *Coordinator {
	if editWindow <= 0 {
		editWindow = 15 * time.Minute
	}
	return &Coordinator{
		cache:      cache,
		backend:    backend,
		notify:     center,
		editWindow: editWindow,
		now:        time.Now,
		pending:    make(map[string]bool),
	}
}

// begin marks a logical operation in flight; a second submission of the same
// operation is rejected until the first completes. Unrelated operations are
// unaffected.
func (m *Coordinator) begin(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending[key] {
		return ErrInFlight
	}
	m.pending[key] = true
	return nil
}

func (m *Coordinator) end(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
}

func (m *Coordinator) nextSentinelId() int64 {
	return m.sentinel.Add(-1)
}

// postCopies finds every cached copy of a post across page buckets and
// single-record entries. Buckets decode responses independently, so the same
// post can live behind several pointers.
func (m *Coordinator) postCopies(id domain.PostId) []*domain.Post {
	var out []*domain.Post
	seen := make(map[*domain.Post]bool)
	collect := func(p *domain.Post) {
		if p != nil && p.Id == id && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, kind := range []string{querycache.KindPosts, querycache.KindPostSearch} {
		m.cache.EachOfKind(kind, func(_ querycache.Key, value any) {
			if page, ok := value.(querycache.Page[domain.Post]); ok {
				for _, p := range page.Items {
					collect(p)
				}
			}
		})
	}
	m.cache.EachOfKind(querycache.KindPost, func(_ querycache.Key, value any) {
		if p, ok := value.(*domain.Post); ok {
			collect(p)
		}
	})
	return out
}

func (m *Coordinator) threadCopies(id domain.ThreadId) []*domain.Thread {
	var out []*domain.Thread
	seen := make(map[*domain.Thread]bool)
	collect := func(t *domain.Thread) {
		if t != nil && t.Id == id && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, kind := range []string{querycache.KindThreads, querycache.KindBookmarks} {
		m.cache.EachOfKind(kind, func(_ querycache.Key, value any) {
			if page, ok := value.(querycache.Page[domain.Thread]); ok {
				for _, t := range page.Items {
					collect(t)
				}
			}
		})
	}
	m.cache.EachOfKind(querycache.KindThread, func(_ querycache.Key, value any) {
		if t, ok := value.(*domain.Thread); ok {
			collect(t)
		}
	})
	return out
}

// threadsRootedAt finds thread records whose denormalized counters mirror the
// given root post.
func (m *Coordinator) threadsRootedAt(rootId domain.PostId) []*domain.Thread {
	var out []*domain.Thread
	for _, kind := range []string{querycache.KindThreads, querycache.KindBookmarks, querycache.KindThread} {
		m.cache.EachOfKind(kind, func(_ querycache.Key, value any) {
			switch v := value.(type) {
			case querycache.Page[domain.Thread]:
				for _, t := range v.Items {
					if t != nil && t.RootId == rootId {
						out = append(out, t)
					}
				}
			case *domain.Thread:
				if v != nil && v.RootId == rootId {
					out = append(out, v)
				}
			}
		})
	}
	return out
}

func (m *Coordinator) fail(msg string, err error) error {
	mutationFailures.Inc()
	logger.Log.Warn(msg, "component", "mutation", "error", err)
	if m.notify != nil {
		m.notify.Error(msg)
	}
	return err
}
