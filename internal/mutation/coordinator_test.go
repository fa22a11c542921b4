package mutation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-dev/parley/internal/notify"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/domain"
)

// Mock backend, teacher-style: override per test via Func fields.
type mockBackend struct {
	VoteFunc           func(ctx context.Context, id domain.PostId, direction domain.Vote) (*domain.Post, error)
	CreatePostFunc     func(ctx context.Context, req api.CreatePostRequest) (*domain.Post, error)
	CreateThreadFunc   func(ctx context.Context, req api.CreateThreadRequest) (*domain.Thread, *domain.Post, error)
	EditPostFunc       func(ctx context.Context, id domain.PostId, content string) (*domain.Post, error)
	AppendCommentFunc  func(ctx context.Context, id domain.PostId, comment string) (*domain.Post, error)
	SetDeletedFunc     func(ctx context.Context, id domain.PostId, deleted bool) (*domain.Post, error)
	ToggleBookmarkFunc func(ctx context.Context, id domain.ThreadId) (*domain.Thread, error)
	ToggleFlagFunc     func(ctx context.Context, id domain.PostId) (*domain.Post, error)
}

func (m *mockBackend) Vote(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
	if m.VoteFunc != nil {
		return m.VoteFunc(ctx, id, d)
	}
	return &domain.Post{Id: id}, nil
}

func (m *mockBackend) CreatePost(ctx context.Context, req api.CreatePostRequest) (*domain.Post, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, req)
	}
	return &domain.Post{Id: 1, ThreadId: req.ThreadId, Content: req.Content}, nil
}

func (m *mockBackend) CreateThread(ctx context.Context, req api.CreateThreadRequest) (*domain.Thread, *domain.Post, error) {
	if m.CreateThreadFunc != nil {
		return m.CreateThreadFunc(ctx, req)
	}
	return &domain.Thread{Id: 1, Title: req.Title}, &domain.Post{Id: 1}, nil
}

func (m *mockBackend) EditPost(ctx context.Context, id domain.PostId, content string) (*domain.Post, error) {
	if m.EditPostFunc != nil {
		return m.EditPostFunc(ctx, id, content)
	}
	return &domain.Post{Id: id, Content: content, Edited: true}, nil
}

func (m *mockBackend) AppendComment(ctx context.Context, id domain.PostId, comment string) (*domain.Post, error) {
	if m.AppendCommentFunc != nil {
		return m.AppendCommentFunc(ctx, id, comment)
	}
	return &domain.Post{Id: id, AdditionalComment: comment}, nil
}

func (m *mockBackend) SetDeleted(ctx context.Context, id domain.PostId, deleted bool) (*domain.Post, error) {
	if m.SetDeletedFunc != nil {
		return m.SetDeletedFunc(ctx, id, deleted)
	}
	return &domain.Post{Id: id, Deleted: deleted}, nil
}

func (m *mockBackend) ToggleBookmark(ctx context.Context, id domain.ThreadId) (*domain.Thread, error) {
	if m.ToggleBookmarkFunc != nil {
		return m.ToggleBookmarkFunc(ctx, id)
	}
	return &domain.Thread{Id: id}, nil
}

func (m *mockBackend) ToggleFlag(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	if m.ToggleFlagFunc != nil {
		return m.ToggleFlagFunc(ctx, id)
	}
	return &domain.Post{Id: id}, nil
}

func newTestCoordinator(backend *mockBackend) (*Coordinator, *querycache.Cache, *notify.Center) {
	cache := querycache.New(time.Minute)
	center := notify.NewCenter(10)
	return NewCoordinator(cache, backend, center, 15*time.Minute), cache, center
}

func seedPostBucket(cache *querycache.Cache, key querycache.Key, posts ...*domain.Post) {
	cache.Write(key, querycache.Page[domain.Post]{Items: posts, Total: len(posts)})
}

func TestCastVote_OptimisticThenReconciled(t *testing.T) {
	backend := &mockBackend{}
	post := &domain.Post{Id: 9, ThreadId: 2, Likes: 5, Dislikes: 1}
	likesAtRequestTime := -1
	backend.VoteFunc = func(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
		likesAtRequestTime = post.Likes
		return &domain.Post{Id: id, Likes: 6, Dislikes: 1, UserVote: domain.VoteUp}, nil
	}
	coord, cache, _ := newTestCoordinator(backend)

	bucket := querycache.NewKey(querycache.KindPosts, int64(2), "popular", 1)
	seedPostBucket(cache, bucket, post)

	require.NoError(t, coord.CastVote(context.Background(), 9, domain.VoteUp))

	assert.Equal(t, 6, likesAtRequestTime, "optimistic change applied before the request went out")
	assert.Equal(t, 6, post.Likes)
	assert.Equal(t, 1, post.Dislikes)
	assert.Equal(t, domain.VoteUp, post.UserVote)
}

func TestCastVote_SecondUpvoteReturnsToOriginal(t *testing.T) {
	backend := &mockBackend{}
	backend.VoteFunc = func(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
		// server answers with the authoritative post the toggle produces
		p := &domain.Post{Id: id, Likes: 5, Dislikes: 1, UserVote: domain.VoteNone}
		if d == domain.VoteUp {
			p.Likes, p.UserVote = 6, domain.VoteUp
		}
		return p, nil
	}
	coord, cache, _ := newTestCoordinator(backend)

	post := &domain.Post{Id: 9, Likes: 5, Dislikes: 1}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1)), post)

	require.NoError(t, coord.CastVote(context.Background(), 9, domain.VoteUp))
	assert.Equal(t, 6, post.Likes)
	assert.Equal(t, domain.VoteUp, post.UserVote)

	backend.VoteFunc = func(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
		return &domain.Post{Id: id, Likes: 5, Dislikes: 1, UserVote: domain.VoteNone}, nil
	}
	require.NoError(t, coord.CastVote(context.Background(), 9, domain.VoteUp))
	assert.Equal(t, 5, post.Likes)
	assert.Equal(t, 1, post.Dislikes)
	assert.Equal(t, domain.VoteNone, post.UserVote)
}

func TestCastVote_RollsBackOnFailure(t *testing.T) {
	backend := &mockBackend{}
	backend.VoteFunc = func(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
		return nil, errors.New("backend down")
	}
	coord, cache, center := newTestCoordinator(backend)

	post := &domain.Post{Id: 9, Likes: 5, Dislikes: 1, Flagged: true}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1)), post)

	err := coord.CastVote(context.Background(), 9, domain.VoteUp)
	require.Error(t, err)

	assert.Equal(t, 5, post.Likes)
	assert.Equal(t, 1, post.Dislikes)
	assert.Equal(t, domain.VoteNone, post.UserVote)
	assert.True(t, post.Flagged, "untouched fields survive the rollback")

	recent := center.Recent()
	require.NotEmpty(t, recent)
	assert.Equal(t, notify.LevelError, recent[0].Level)
}

func TestCastVote_InFlightGuardIsPerPost(t *testing.T) {
	backend := &mockBackend{}
	release := make(chan struct{})
	backend.VoteFunc = func(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
		if id == 1 {
			<-release
		}
		return &domain.Post{Id: id, UserVote: d, Likes: 1}, nil
	}
	coord, cache, _ := newTestCoordinator(backend)
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1)),
		&domain.Post{Id: 1}, &domain.Post{Id: 2})

	done := make(chan error, 1)
	go func() { done <- coord.CastVote(context.Background(), 1, domain.VoteUp) }()

	// wait until the first vote is holding its pending slot
	require.Eventually(t, func() bool {
		coord.mu.Lock()
		defer coord.mu.Unlock()
		return coord.pending["vote:1"]
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, coord.CastVote(context.Background(), 1, domain.VoteUp), ErrInFlight)
	assert.NoError(t, coord.CastVote(context.Background(), 2, domain.VoteDown),
		"votes on other posts are unaffected")

	close(release)
	assert.NoError(t, <-done)
}

func TestCastVote_UpdatesThreadCounters(t *testing.T) {
	backend := &mockBackend{}
	backend.VoteFunc = func(ctx context.Context, id domain.PostId, d domain.Vote) (*domain.Post, error) {
		return &domain.Post{Id: id, Likes: 3, UserVote: domain.VoteUp}, nil
	}
	coord, cache, _ := newTestCoordinator(backend)

	root := &domain.Post{Id: 100, ThreadId: 5, Likes: 2}
	thread := &domain.Thread{Id: 5, RootId: 100, Likes: 2}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(5)), root)
	cache.Write(querycache.NewKey(querycache.KindThreads, "popular", 1),
		querycache.Page[domain.Thread]{Items: []*domain.Thread{thread}, Total: 1})

	require.NoError(t, coord.CastVote(context.Background(), 100, domain.VoteUp))
	assert.Equal(t, 3, thread.Likes, "denormalized thread counters follow the root post")
}

func TestToggleBookmark_RollsBack(t *testing.T) {
	backend := &mockBackend{}
	backend.ToggleBookmarkFunc = func(ctx context.Context, id domain.ThreadId) (*domain.Thread, error) {
		return nil, errors.New("nope")
	}
	coord, cache, _ := newTestCoordinator(backend)

	thread := &domain.Thread{Id: 4}
	cache.Write(querycache.NewKey(querycache.KindThread, int64(4)), thread)

	require.Error(t, coord.ToggleBookmark(context.Background(), 4))
	assert.False(t, thread.Bookmarked)
}
