package mutation

import (
	"context"
	"fmt"

	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/shared/domain"
)

// CastVote applies a vote locally, sends it, and reconciles or rolls back.
// A second vote on the same post while one is in flight returns ErrInFlight
// and changes nothing; votes on other posts are independent.
func (m *Coordinator) CastVote(ctx context.Context, postId domain.PostId, direction domain.Vote) error {
	key := fmt.Sprintf("vote:%d", postId)
	if err := m.begin(key); err != nil {
		return err
	}
	defer m.end(key)

	copies := m.postCopies(postId)

	var prevVote domain.Vote
	var prevLikes, prevDislikes int
	if len(copies) > 0 {
		prevVote, prevLikes, prevDislikes = copies[0].UserVote, copies[0].Likes, copies[0].Dislikes
		newVote, likes, dislikes := ApplyVote(prevVote, prevLikes, prevDislikes, direction)
		for _, p := range copies {
			p.UserVote, p.Likes, p.Dislikes = newVote, likes, dislikes
		}
		for _, t := range m.threadsRootedAt(postId) {
			t.Likes, t.Dislikes = likes, dislikes
		}
	}

	authoritative, err := m.backend.Vote(ctx, postId, direction)
	if err != nil {
		// Revert exactly the fields the optimistic step changed.
		for _, p := range copies {
			p.UserVote, p.Likes, p.Dislikes = prevVote, prevLikes, prevDislikes
		}
		for _, t := range m.threadsRootedAt(postId) {
			t.Likes, t.Dislikes = prevLikes, prevDislikes
		}
		return m.fail("vote failed", err)
	}

	for _, p := range copies {
		p.UserVote, p.Likes, p.Dislikes = authoritative.UserVote, authoritative.Likes, authoritative.Dislikes
	}
	for _, t := range m.threadsRootedAt(postId) {
		t.Likes, t.Dislikes = authoritative.Likes, authoritative.Dislikes
	}
	return nil
}

// ToggleBookmark flips the bookmark flag on a thread, guarded per thread id.
func (m *Coordinator) ToggleBookmark(ctx context.Context, threadId domain.ThreadId) error {
	key := fmt.Sprintf("bookmark:%d", threadId)
	if err := m.begin(key); err != nil {
		return err
	}
	defer m.end(key)

	copies := m.threadCopies(threadId)
	var prev bool
	if len(copies) > 0 {
		prev = copies[0].Bookmarked
		for _, t := range copies {
			t.Bookmarked = !prev
		}
	}

	authoritative, err := m.backend.ToggleBookmark(ctx, threadId)
	if err != nil {
		for _, t := range copies {
			t.Bookmarked = prev
		}
		return m.fail("bookmark toggle failed", err)
	}

	for _, t := range copies {
		t.Bookmarked = authoritative.Bookmarked
	}
	// The bookmarks listing itself changed membership.
	m.cache.Invalidate(querycache.KindBookmarks)
	return nil
}

// ToggleFlag flips the moderation flag on a post, guarded per post id.
func (m *Coordinator) ToggleFlag(ctx context.Context, postId domain.PostId) error {
	key := fmt.Sprintf("flag:%d", postId)
	if err := m.begin(key); err != nil {
		return err
	}
	defer m.end(key)

	copies := m.postCopies(postId)
	var prev bool
	if len(copies) > 0 {
		prev = copies[0].Flagged
		for _, p := range copies {
			p.Flagged = !prev
		}
	}

	authoritative, err := m.backend.ToggleFlag(ctx, postId)
	if err != nil {
		for _, p := range copies {
			p.Flagged = prev
		}
		return m.fail("flag toggle failed", err)
	}

	for _, p := range copies {
		p.Flagged = authoritative.Flagged
	}
	return nil
}
