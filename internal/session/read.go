package session

import (
	"context"

	"github.com/parley-dev/parley/internal/apiclient"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/internal/search"
	"github.com/parley-dev/parley/shared/domain"
)

// ListMode says what the list view should render for the current filters.
type ListMode string

const (
	ListThreads   ListMode = "threads"
	ListBookmarks ListMode = "bookmarks"
	ListPosts     ListMode = "posts"
)

// CurrentListMode derives the list rendering from the committed search query:
// @bookmarked wins, author/type scoped queries render posts, everything else
// renders threads.
func (s *Session) CurrentListMode() ListMode {
	q := s.Filters.Query()
	if q.Bookmarked {
		return ListBookmarks
	}
	if q.Mode() == search.ModePosts {
		return ListPosts
	}
	return ListThreads
}

// Threads serves the thread listing for the current sort, search and cursor.
// With @bookmarked active it serves the bookmarks listing instead; both feed
// the same screen. Changing any of the inputs resets the affected cursor to
// page 1 before the key is built.
func (s *Session) Threads(ctx context.Context) (querycache.Page[domain.Thread], error) {
	q := s.Filters.Query()

	if q.Bookmarked {
		s.Pages.Observe(pagination.Bookmarks, q.Raw())
		cur := s.Pages.Cursor(pagination.Bookmarks)
		key := querycache.NewKey(querycache.KindBookmarks, cur.Page, cur.PageSize)
		return querycache.GetPage(ctx, s.cache, key, func(ctx context.Context) (querycache.Page[domain.Thread], error) {
			items, total, err := s.client.ListBookmarks(ctx, cur.Page, cur.PageSize)
			return querycache.Page[domain.Thread]{Items: items, Total: total}, err
		})
	}

	sort := s.Filters.ThreadSort()
	s.Pages.Observe(pagination.Threads, sort, q.Raw())
	cur := s.Pages.Cursor(pagination.Threads)
	bucket := s.threadsBucket(sort, q.Term, cur)
	return querycache.GetPage(ctx, s.cache, bucket, func(ctx context.Context) (querycache.Page[domain.Thread], error) {
		items, total, err := s.client.ListThreads(ctx, apiclient.ThreadListParams{
			Sort: sort, Term: q.Term, Page: cur.Page, PageSize: cur.PageSize,
		})
		return querycache.Page[domain.Thread]{Items: items, Total: total}, err
	})
}

// PostSearch serves the post-scoped search results (author or @op/@replies
// queries). Its cursor is independent of the thread listing's.
func (s *Session) PostSearch(ctx context.Context) (querycache.Page[domain.Post], error) {
	q := s.Filters.Query()
	s.Pages.Observe(pagination.AuthorSearch, q.Raw())
	cur := s.Pages.Cursor(pagination.AuthorSearch)

	key := querycache.NewKey(querycache.KindPostSearch,
		q.Author, q.Term, string(q.Scope), q.DeletedOnly, q.FlaggedOnly, cur.Page, cur.PageSize)
	return querycache.GetPage(ctx, s.cache, key, func(ctx context.Context) (querycache.Page[domain.Post], error) {
		items, total, err := s.client.SearchPosts(ctx, apiclient.PostSearchParams{
			Author: q.Author, Term: q.Term, Scope: string(q.Scope),
			DeletedOnly: q.DeletedOnly, FlaggedOnly: q.FlaggedOnly,
			Page: cur.Page, PageSize: cur.PageSize,
		})
		return querycache.Page[domain.Post]{Items: items, Total: total}, err
	})
}

// Replies serves the direct replies of the selected thread. Without a thread
// selection it returns an empty page.
func (s *Session) Replies(ctx context.Context) (querycache.Page[domain.Post], error) {
	thread := s.Nav.Thread()
	if thread.IsZero() {
		return querycache.Page[domain.Post]{}, nil
	}

	sort := s.Filters.ReplySort()
	s.Pages.Observe(pagination.Replies, thread.Id, sort)
	cur := s.Pages.Cursor(pagination.Replies)
	bucket := s.repliesBucket(thread.Id, sort, cur)
	return querycache.GetPage(ctx, s.cache, bucket, func(ctx context.Context) (querycache.Page[domain.Post], error) {
		items, total, err := s.client.ListPosts(ctx, apiclient.PostListParams{
			ThreadId: thread.Id, Sort: sort, Page: cur.Page, PageSize: cur.PageSize,
		})
		return querycache.Page[domain.Post]{Items: items, Total: total}, err
	})
}

// SubReplies serves the children of the selected post.
func (s *Session) SubReplies(ctx context.Context) (querycache.Page[domain.Post], error) {
	thread := s.Nav.Thread()
	post := s.Nav.Post()
	if thread.IsZero() || post.IsZero() {
		return querycache.Page[domain.Post]{}, nil
	}

	sort := s.Filters.ReplySort()
	s.Pages.Observe(pagination.SubReplies, thread.Id, post.Id, sort)
	cur := s.Pages.Cursor(pagination.SubReplies)
	bucket := s.subRepliesBucket(thread.Id, post.Id, sort, cur)
	parentId := post.Id
	return querycache.GetPage(ctx, s.cache, bucket, func(ctx context.Context) (querycache.Page[domain.Post], error) {
		items, total, err := s.client.ListPosts(ctx, apiclient.PostListParams{
			ThreadId: thread.Id, ParentId: &parentId, Sort: sort, Page: cur.Page, PageSize: cur.PageSize,
		})
		return querycache.Page[domain.Post]{Items: items, Total: total}, err
	})
}

// CurrentThread resolves the selected thread to its full record, upgrading a
// stub selection (deep link, restored session) in place once the record
// arrives. Returns nil without error when nothing is selected.
func (s *Session) CurrentThread(ctx context.Context) (*domain.Thread, error) {
	ref := s.Nav.Thread()
	if ref.IsZero() {
		return nil, nil
	}
	rec, err := querycache.GetRecord(ctx, s.cache,
		querycache.NewKey(querycache.KindThread, int64(ref.Id)),
		func(ctx context.Context) (*domain.Thread, error) {
			return s.client.GetThread(ctx, ref.Id)
		})
	if err != nil {
		return nil, err
	}
	s.Nav.AdoptThread(rec)
	return rec, nil
}

// CurrentPost is the post counterpart of CurrentThread.
func (s *Session) CurrentPost(ctx context.Context) (*domain.Post, error) {
	ref := s.Nav.Post()
	if ref.IsZero() {
		return nil, nil
	}
	rec, err := querycache.GetRecord(ctx, s.cache,
		querycache.NewKey(querycache.KindPost, int64(ref.Id)),
		func(ctx context.Context) (*domain.Post, error) {
			return s.client.GetPost(ctx, ref.Id)
		})
	if err != nil {
		return nil, err
	}
	s.Nav.AdoptPost(rec)
	return rec, nil
}

// RootPost loads the selected thread's root post. The root carries the body
// and votes the thread record only mirrors.
func (s *Session) RootPost(ctx context.Context) (*domain.Post, error) {
	thread, err := s.CurrentThread(ctx)
	if err != nil || thread == nil {
		return nil, err
	}
	if thread.RootId <= 0 {
		return nil, nil
	}
	return querycache.GetRecord(ctx, s.cache,
		querycache.NewKey(querycache.KindPost, int64(thread.RootId)),
		func(ctx context.Context) (*domain.Post, error) {
			return s.client.GetPost(ctx, thread.RootId)
		})
}

// Poll loads the selected thread's poll, or nil when no thread is selected.
func (s *Session) Poll(ctx context.Context) (*domain.Poll, error) {
	ref := s.Nav.Thread()
	if ref.IsZero() {
		return nil, nil
	}
	return querycache.GetRecord(ctx, s.cache,
		querycache.NewKey(querycache.KindPoll, int64(ref.Id)),
		func(ctx context.Context) (*domain.Poll, error) {
			return s.client.GetPoll(ctx, ref.Id)
		})
}

// FindPost returns a cached copy of the post when any view currently holds
// one. Nil means the post is not on screen and an action on it has nothing to
// patch.
func (s *Session) FindPost(id domain.PostId) *domain.Post {
	var found *domain.Post
	for _, kind := range []string{querycache.KindPosts, querycache.KindPostSearch} {
		s.cache.EachOfKind(kind, func(_ querycache.Key, value any) {
			page, ok := value.(querycache.Page[domain.Post])
			if !ok {
				return
			}
			for _, p := range page.Items {
				if p != nil && p.Id == id {
					found = p
				}
			}
		})
	}
	if found != nil {
		return found
	}
	s.cache.EachOfKind(querycache.KindPost, func(_ querycache.Key, value any) {
		if p, ok := value.(*domain.Post); ok && p != nil && p.Id == id {
			found = p
		}
	})
	return found
}

// Bucket keys carry the full parameter tuple of the query they cache, so two
// listings differing in any one parameter never share an entry.

func (s *Session) threadsBucket(sort domain.ThreadSort, term string, cur pagination.Cursor) querycache.Key {
	return querycache.NewKey(querycache.KindThreads, string(sort), term, cur.Page, cur.PageSize)
}

func (s *Session) repliesBucket(threadId domain.ThreadId, sort domain.ReplySort, cur pagination.Cursor) querycache.Key {
	return querycache.NewKey(querycache.KindPosts, int64(threadId), "root", string(sort), cur.Page, cur.PageSize)
}

func (s *Session) subRepliesBucket(threadId domain.ThreadId, parentId domain.PostId, sort domain.ReplySort, cur pagination.Cursor) querycache.Key {
	return querycache.NewKey(querycache.KindPosts, int64(threadId), int64(parentId), string(sort), cur.Page, cur.PageSize)
}
