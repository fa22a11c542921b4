package mutation

import (
	"context"
	"fmt"

	"github.com/parley-dev/parley/shared/domain"
)

// EditResult reports whether a request was actually sent: submitting content
// identical to the current one is a silent no-op.
type EditResult struct {
	Changed bool
}

// Edit rewrites a post's content. Replies are editable only within the edit
// window from creation; past it the request is rejected before any network
// traffic. Root posts past the window must go through AppendComment instead.
func (m *Coordinator) Edit(ctx context.Context, post *domain.Post, newContent string) (EditResult, error) {
	if newContent == post.Content {
		return EditResult{Changed: false}, nil
	}

	if m.now().Sub(post.CreatedAt) > m.editWindow {
		return EditResult{}, ErrEditWindowExpired
	}

	key := fmt.Sprintf("edit:%d", post.Id)
	if err := m.begin(key); err != nil {
		return EditResult{}, err
	}
	defer m.end(key)

	copies := m.postCopies(post.Id)
	prevContent, prevEdited := post.Content, post.Edited
	for _, p := range copies {
		p.Content, p.Edited = newContent, true
	}

	authoritative, err := m.backend.EditPost(ctx, post.Id, newContent)
	if err != nil {
		for _, p := range copies {
			p.Content, p.Edited = prevContent, prevEdited
		}
		return EditResult{}, m.fail("saving edit failed", err)
	}

	for _, p := range copies {
		p.Content, p.Edited = authoritative.Content, authoritative.Edited
	}
	return EditResult{Changed: true}, nil
}

// AppendComment attaches the immutable past-window comment to a root post.
func (m *Coordinator) AppendComment(ctx context.Context, post *domain.Post, comment string) error {
	key := fmt.Sprintf("comment:%d", post.Id)
	if err := m.begin(key); err != nil {
		return err
	}
	defer m.end(key)

	copies := m.postCopies(post.Id)
	prev := post.AdditionalComment
	for _, p := range copies {
		p.AdditionalComment = comment
	}

	authoritative, err := m.backend.AppendComment(ctx, post.Id, comment)
	if err != nil {
		for _, p := range copies {
			p.AdditionalComment = prev
		}
		return m.fail("appending comment failed", err)
	}

	for _, p := range copies {
		p.AdditionalComment = authoritative.AdditionalComment
	}
	return nil
}

// SetDeleted toggles the deletion flag on a post. The record stays in every
// listing; rendering decides what a deleted post looks like.
func (m *Coordinator) SetDeleted(ctx context.Context, postId domain.PostId, deleted bool) error {
	key := fmt.Sprintf("delete:%d", postId)
	if err := m.begin(key); err != nil {
		return err
	}
	defer m.end(key)

	copies := m.postCopies(postId)
	var prev bool
	if len(copies) > 0 {
		prev = copies[0].Deleted
		for _, p := range copies {
			p.Deleted = deleted
		}
	}
	threads := m.threadsRootedAt(postId)
	var prevOp bool
	if len(threads) > 0 {
		prevOp = threads[0].OpDeleted
		for _, t := range threads {
			t.OpDeleted = deleted
		}
	}

	authoritative, err := m.backend.SetDeleted(ctx, postId, deleted)
	if err != nil {
		for _, p := range copies {
			p.Deleted = prev
		}
		for _, t := range threads {
			t.OpDeleted = prevOp
		}
		return m.fail("delete toggle failed", err)
	}

	for _, p := range copies {
		p.Deleted = authoritative.Deleted
	}
	for _, t := range threads {
		t.OpDeleted = authoritative.Deleted
	}
	return nil
}
