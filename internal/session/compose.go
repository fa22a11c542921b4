package session

import (
	"context"
	"errors"
	"time"

	"github.com/parley-dev/parley/internal/mutation"
	"github.com/parley-dev/parley/internal/navigation"
	"github.com/parley-dev/parley/internal/pagination"
	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/domain"
)

// ReplyCompose is the reply form. Validation runs before any optimistic
// insert, so an invalid draft never touches the cache.
type ReplyCompose struct {
	Content string `validate:"required,min=1,max=8000"`
}

// ThreadCompose is the new-thread form. Poll options are optional; when
// present there must be between two and ten of them.
type ThreadCompose struct {
	Title        string   `validate:"required,min=3,max=120"`
	Content      string   `validate:"required,min=1,max=8000"`
	PollOptions  []string `validate:"omitempty,min=2,max=10,dive,required,max=80"`
	PollMultiple bool
	PollEndsAt   time.Time
}

// SubmitReply posts a reply into whatever the user is looking at: the thread
// view replies to the root, the replies view replies to the selected post.
// The optimistic record lands in the currently visible page bucket and the
// new post becomes the scroll target.
func (s *Session) SubmitReply(ctx context.Context, content string) (*domain.Post, error) {
	ident := s.Identity()
	if ident == nil {
		return nil, ErrNotSignedIn
	}
	if err := s.check(ReplyCompose{Content: content}); err != nil {
		return nil, err
	}

	thread := s.Nav.Thread()
	if thread.IsZero() {
		return nil, &ValidationError{Message: "no thread selected"}
	}

	sort := s.Filters.ReplySort()
	req := api.CreatePostRequest{ThreadId: thread.Id, Content: content}
	bucket := s.repliesBucket(thread.Id, sort, s.Pages.Cursor(pagination.Replies))
	if s.Nav.View() == navigation.ViewReplies {
		post := s.Nav.Post()
		if post.IsZero() {
			return nil, &ValidationError{Message: "no post selected"}
		}
		parentId := post.Id
		req.ParentId = &parentId
		bucket = s.subRepliesBucket(thread.Id, post.Id, sort, s.Pages.Cursor(pagination.SubReplies))
	}

	author := domain.User{Id: ident.UserId, Name: ident.Name, IsAdmin: ident.IsAdmin}
	created, err := s.muts.CreateReply(ctx, bucket, req, author)
	if err != nil {
		return nil, err
	}
	s.setScrollTarget(created.Id)
	return created, nil
}

// SubmitThread creates a thread, inserts it optimistically at the top of the
// listing the user is viewing, and navigates into it on success.
func (s *Session) SubmitThread(ctx context.Context, form ThreadCompose) (*domain.Thread, error) {
	ident := s.Identity()
	if ident == nil {
		return nil, ErrNotSignedIn
	}
	if err := s.check(form); err != nil {
		return nil, err
	}

	req := api.CreateThreadRequest{Title: form.Title, Content: form.Content}
	if len(form.PollOptions) > 0 {
		req.Poll = &api.CreatePollRequest{
			Options:  form.PollOptions,
			Multiple: form.PollMultiple,
		}
		if !form.PollEndsAt.IsZero() {
			endsAt := form.PollEndsAt
			req.Poll.EndsAt = &endsAt
		}
	}

	q := s.Filters.Query()
	bucket := s.threadsBucket(s.Filters.ThreadSort(), q.Term, s.Pages.Cursor(pagination.Threads))
	author := domain.User{Id: ident.UserId, Name: ident.Name, IsAdmin: ident.IsAdmin}
	created, err := s.muts.CreateThread(ctx, bucket, req, author)
	if err != nil {
		return nil, err
	}

	s.Nav.OpenThread(domain.FullThread(created))
	return created, nil
}

// EditPost rewrites a post's content. A post that is still a local sentinel
// is first resolved to its server id; a root post past the edit window falls
// back to the immutable appended comment.
func (s *Session) EditPost(ctx context.Context, post *domain.Post, content string) error {
	if s.Identity() == nil {
		return ErrNotSignedIn
	}
	if err := s.check(ReplyCompose{Content: content}); err != nil {
		return err
	}

	if post.Id <= 0 {
		id := s.muts.ResolvePostId(post)
		if id == 0 {
			return &ValidationError{Message: "post is still being created, try again in a moment"}
		}
		post.Id = id
	}

	_, err := s.muts.Edit(ctx, post, content)
	if errors.Is(err, mutation.ErrEditWindowExpired) && post.IsRoot() {
		return s.muts.AppendComment(ctx, post, content)
	}
	return err
}
