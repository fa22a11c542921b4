package mutation

import (
	"context"

	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/domain"
)

// CreateReply inserts a locally synthesized post with a unique negative
// sentinel id into the page bucket the user is looking at, so the reply shows
// up before any network round trip. On success the sentinel record adopts the
// server-assigned record in place; on failure it is removed again.
//
// The returned post pointer is the one living in the cache; after a success
// it carries the real id.
func (m *Coordinator) CreateReply(ctx context.Context, bucket querycache.Key, req api.CreatePostRequest, author domain.User) (*domain.Post, error) {
	local := &domain.Post{
		Id:        domain.PostId(m.nextSentinelId()),
		ThreadId:  req.ThreadId,
		ParentId:  req.ParentId,
		Content:   req.Content,
		Author:    author,
		CreatedAt: m.now(),
	}

	m.insertIntoPostBucket(bucket, local)

	authoritative, err := m.backend.CreatePost(ctx, req)
	if err != nil {
		m.removeFromPostBucket(bucket, local.Id)
		return nil, m.fail("posting reply failed", err)
	}

	// Adopt in place: every bucket sharing the pointer sees the real record.
	*local = *authoritative

	// Reply counts on the thread and the parent are server-derived; let the
	// next read fetch them instead of guessing.
	m.cache.Invalidate(querycache.KindThreads, querycache.KindThread)

	return local, nil
}

// CreateThread inserts a sentinel thread into the given listing bucket and
// swaps in the authoritative record on success.
func (m *Coordinator) CreateThread(ctx context.Context, bucket querycache.Key, req api.CreateThreadRequest, author domain.User) (*domain.Thread, error) {
	local := &domain.Thread{
		Id:        domain.ThreadId(m.nextSentinelId()),
		Title:     req.Title,
		Author:    author,
		CreatedAt: m.now(),
		HasPoll:   req.Poll != nil,
	}

	m.insertIntoThreadBucket(bucket, local)

	authoritative, _, err := m.backend.CreateThread(ctx, req)
	if err != nil {
		m.removeFromThreadBucket(bucket, local.Id)
		return nil, m.fail("creating thread failed", err)
	}

	*local = *authoritative
	return local, nil
}

// ResolvePostId maps a possibly-sentinel post to its server id by matching
// author and creation time across cached buckets. Needed when an edit starts
// before the create response has propagated. Returns 0 when no authoritative
// record is known yet.
func (m *Coordinator) ResolvePostId(p *domain.Post) domain.PostId {
	if p == nil {
		return 0
	}
	if p.Id > 0 {
		return p.Id
	}
	var found domain.PostId
	m.cache.EachOfKind(querycache.KindPosts, func(_ querycache.Key, value any) {
		page, ok := value.(querycache.Page[domain.Post])
		if !ok {
			return
		}
		for _, cand := range page.Items {
			if cand != nil && cand.Id > 0 &&
				cand.Author.Id == p.Author.Id && cand.CreatedAt.Equal(p.CreatedAt) {
				found = cand.Id
			}
		}
	})
	return found
}

func (m *Coordinator) insertIntoPostBucket(bucket querycache.Key, p *domain.Post) {
	if _, ok := m.cache.Peek(bucket); !ok {
		m.cache.Write(bucket, querycache.Page[domain.Post]{Items: []*domain.Post{p}, Total: 1})
		return
	}
	m.cache.Update(bucket, func(value any) any {
		page, ok := value.(querycache.Page[domain.Post])
		if !ok {
			return value
		}
		page.Items = append(append([]*domain.Post(nil), page.Items...), p)
		page.Total++
		return page
	})
}

func (m *Coordinator) removeFromPostBucket(bucket querycache.Key, id domain.PostId) {
	m.cache.Update(bucket, func(value any) any {
		page, ok := value.(querycache.Page[domain.Post])
		if !ok {
			return value
		}
		items := make([]*domain.Post, 0, len(page.Items))
		for _, it := range page.Items {
			if it == nil || it.Id != id {
				items = append(items, it)
			}
		}
		if len(items) != len(page.Items) {
			page.Total--
		}
		page.Items = items
		return page
	})
}

func (m *Coordinator) insertIntoThreadBucket(bucket querycache.Key, t *domain.Thread) {
	if _, ok := m.cache.Peek(bucket); !ok {
		m.cache.Write(bucket, querycache.Page[domain.Thread]{Items: []*domain.Thread{t}, Total: 1})
		return
	}
	m.cache.Update(bucket, func(value any) any {
		page, ok := value.(querycache.Page[domain.Thread])
		if !ok {
			return value
		}
		// New threads belong at the top of the page the user is viewing.
		page.Items = append([]*domain.Thread{t}, page.Items...)
		page.Total++
		return page
	})
}

func (m *Coordinator) removeFromThreadBucket(bucket querycache.Key, id domain.ThreadId) {
	m.cache.Update(bucket, func(value any) any {
		page, ok := value.(querycache.Page[domain.Thread])
		if !ok {
			return value
		}
		items := make([]*domain.Thread, 0, len(page.Items))
		for _, it := range page.Items {
			if it == nil || it.Id != id {
				items = append(items, it)
			}
		}
		if len(items) != len(page.Items) {
			page.Total--
		}
		page.Items = items
		return page
	})
}
