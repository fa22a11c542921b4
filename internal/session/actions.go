package session

import (
	"context"
	"errors"

	"github.com/parley-dev/parley/internal/mutation"
	"github.com/parley-dev/parley/internal/querycache"
	"github.com/parley-dev/parley/shared/domain"
)

// CastVote applies a vote. A duplicate submission while the same vote is in
// flight is dropped silently; the first one decides the outcome.
func (s *Session) CastVote(ctx context.Context, postId domain.PostId, direction domain.Vote) error {
	if s.Identity() == nil {
		return ErrNotSignedIn
	}
	err := s.muts.CastVote(ctx, postId, direction)
	if errors.Is(err, mutation.ErrInFlight) {
		return nil
	}
	return err
}

// DeletePost soft-deletes a post. Deleting a root post whose thread has no
// replies leaves nothing to show, so navigation returns to the list.
func (s *Session) DeletePost(ctx context.Context, post *domain.Post) error {
	if s.Identity() == nil {
		return ErrNotSignedIn
	}
	if err := s.muts.SetDeleted(ctx, post.Id, true); err != nil {
		return err
	}

	if post.IsRoot() {
		if v, ok := s.cache.Peek(querycache.NewKey(querycache.KindThread, int64(post.ThreadId))); ok {
			if t, ok := v.(*domain.Thread); ok && t.ReplyCount == 0 {
				s.Nav.GoToList()
			}
		}
	}
	return nil
}

// RestorePost undoes a soft delete.
func (s *Session) RestorePost(ctx context.Context, post *domain.Post) error {
	if s.Identity() == nil {
		return ErrNotSignedIn
	}
	return s.muts.SetDeleted(ctx, post.Id, false)
}

// ToggleBookmark flips the bookmark on a thread; duplicates while in flight
// are dropped.
func (s *Session) ToggleBookmark(ctx context.Context, threadId domain.ThreadId) error {
	if s.Identity() == nil {
		return ErrNotSignedIn
	}
	err := s.muts.ToggleBookmark(ctx, threadId)
	if errors.Is(err, mutation.ErrInFlight) {
		return nil
	}
	return err
}

// ToggleFlag flips the moderation flag on a post.
func (s *Session) ToggleFlag(ctx context.Context, postId domain.PostId) error {
	if s.Identity() == nil {
		return ErrNotSignedIn
	}
	err := s.muts.ToggleFlag(ctx, postId)
	if errors.Is(err, mutation.ErrInFlight) {
		return nil
	}
	return err
}

// VotePoll submits poll choices for the selected thread and caches the
// authoritative result. Poll votes are not optimistic: tallies depend on
// every other voter, so guessing them locally would show wrong numbers.
func (s *Session) VotePoll(ctx context.Context, optionIds []int64) (*domain.Poll, error) {
	if s.Identity() == nil {
		return nil, ErrNotSignedIn
	}
	thread := s.Nav.Thread()
	if thread.IsZero() {
		return nil, &ValidationError{Message: "no thread selected"}
	}

	poll, err := s.client.VotePoll(ctx, thread.Id, optionIds)
	if err != nil {
		s.Notify.Error("poll vote failed")
		return nil, err
	}
	s.cache.Write(querycache.NewKey(querycache.KindPoll, int64(thread.Id)), poll)
	return poll, nil
}
