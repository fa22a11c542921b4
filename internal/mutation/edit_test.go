package mutation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/shared/domain"
)

func TestEdit_WindowBoundary(t *testing.T) {
	backend := &mockBackend{}
	requests := 0
	backend.EditPostFunc = func(ctx context.Context, id domain.PostId, content string) (*domain.Post, error) {
		requests++
		return &domain.Post{Id: id, Content: content, Edited: true}, nil
	}
	coord, cache, _ := newTestCoordinator(backend)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	coord.now = func() time.Time { return now }

	parent := domain.PostId(1)

	t.Run("16 minutes old is rejected without a request", func(t *testing.T) {
		post := &domain.Post{Id: 5, ParentId: &parent, Content: "old", CreatedAt: now.Add(-16 * time.Minute)}
		seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1), "a"), post)

		_, err := coord.Edit(context.Background(), post, "new content")
		assert.ErrorIs(t, err, ErrEditWindowExpired)
		assert.Equal(t, 0, requests)
		assert.Equal(t, "old", post.Content)
	})

	t.Run("14 minutes old succeeds", func(t *testing.T) {
		post := &domain.Post{Id: 6, ParentId: &parent, Content: "old", CreatedAt: now.Add(-14 * time.Minute)}
		seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1), "b"), post)

		res, err := coord.Edit(context.Background(), post, "new content")
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, 1, requests)
		assert.Equal(t, "new content", post.Content)
		assert.True(t, post.Edited)
	})
}

func TestEdit_IdenticalContentIsSilentNoop(t *testing.T) {
	backend := &mockBackend{}
	backend.EditPostFunc = func(ctx context.Context, id domain.PostId, content string) (*domain.Post, error) {
		t.Fatal("no request may be sent for an identical edit")
		return nil, nil
	}
	coord, _, _ := newTestCoordinator(backend)

	post := &domain.Post{Id: 5, Content: "same", CreatedAt: time.Now()}
	res, err := coord.Edit(context.Background(), post, "same")
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestEdit_RollsBackContent(t *testing.T) {
	backend := &mockBackend{}
	backend.EditPostFunc = func(ctx context.Context, id domain.PostId, content string) (*domain.Post, error) {
		return nil, errors.New("rejected")
	}
	coord, cache, _ := newTestCoordinator(backend)

	post := &domain.Post{Id: 5, Content: "original", CreatedAt: time.Now()}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1)), post)

	_, err := coord.Edit(context.Background(), post, "changed")
	require.Error(t, err)
	assert.Equal(t, "original", post.Content)
	assert.False(t, post.Edited)
}

func TestAppendComment(t *testing.T) {
	backend := &mockBackend{}
	coord, cache, _ := newTestCoordinator(backend)

	post := &domain.Post{Id: 5, Content: "root body"}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1)), post)

	require.NoError(t, coord.AppendComment(context.Background(), post, "clarification"))
	assert.Equal(t, "clarification", post.AdditionalComment)
	assert.Equal(t, "root body", post.Content, "original content untouched")
}

func TestSetDeleted_TogglesFlagAndThreadMirror(t *testing.T) {
	backend := &mockBackend{}
	coord, cache, _ := newTestCoordinator(backend)

	root := &domain.Post{Id: 100, ThreadId: 5}
	thread := &domain.Thread{Id: 5, RootId: 100}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(5)), root)
	cache.Write(querycache.NewKey(querycache.KindThread, int64(5)), thread)

	require.NoError(t, coord.SetDeleted(context.Background(), 100, true))
	assert.True(t, root.Deleted)
	assert.True(t, thread.OpDeleted)

	require.NoError(t, coord.SetDeleted(context.Background(), 100, false))
	assert.False(t, root.Deleted, "restore flips the flag back")
	assert.False(t, thread.OpDeleted)
}

func TestSetDeleted_RollsBack(t *testing.T) {
	backend := &mockBackend{}
	backend.SetDeletedFunc = func(ctx context.Context, id domain.PostId, deleted bool) (*domain.Post, error) {
		return nil, errors.New("nope")
	}
	coord, cache, _ := newTestCoordinator(backend)

	post := &domain.Post{Id: 5}
	seedPostBucket(cache, querycache.NewKey(querycache.KindPosts, int64(1)), post)

	require.Error(t, coord.SetDeleted(context.Background(), 5, true))
	assert.False(t, post.Deleted)
}
