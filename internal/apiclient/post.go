package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/parley-dev/parley/shared/api"
	"github.com/parley-dev/parley/shared/domain"
)

// PostListParams lists children of a thread: direct replies when ParentId is
// nil, sub-replies of that post otherwise.
type PostListParams struct {
	ThreadId domain.ThreadId
	ParentId *domain.PostId
	Sort     domain.ReplySort
	Page     int
	PageSize int
}

func (c *Client) ListPosts(ctx context.Context, p PostListParams) ([]*domain.Post, int, error) {
	q := url.Values{}
	if p.ParentId != nil {
		q.Set("parent_id", strconv.FormatInt(*p.ParentId, 10))
	}
	q.Set("sort", string(p.Sort))
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("page_size", strconv.Itoa(p.PageSize))

	var out api.PostPageResponse
	path := fmt.Sprintf("/v1/threads/%d/posts", p.ThreadId)
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &out, http.StatusOK, "post listing"); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// PostSearchParams is the author/term search over posts.
type PostSearchParams struct {
	Author      string
	Term        string
	Scope       string // "", "op" or "replies"
	DeletedOnly bool
	FlaggedOnly bool
	Page        int
	PageSize    int
}

func (c *Client) SearchPosts(ctx context.Context, p PostSearchParams) ([]*domain.Post, int, error) {
	q := url.Values{}
	if p.Author != "" {
		q.Set("author", p.Author)
	}
	if p.Term != "" {
		q.Set("search", p.Term)
	}
	if p.Scope != "" {
		q.Set("scope", p.Scope)
	}
	if p.DeletedOnly {
		q.Set("deleted", "true")
	}
	if p.FlaggedOnly {
		q.Set("flagged", "true")
	}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("page_size", strconv.Itoa(p.PageSize))

	var out api.PostPageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/posts", q, nil, &out, http.StatusOK, "post search"); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

func (c *Client) GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	var out api.PostResponse
	path := fmt.Sprintf("/v1/posts/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, http.StatusOK, "post lookup"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) CreatePost(ctx context.Context, req api.CreatePostRequest) (*domain.Post, error) {
	var out api.PostResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/posts", nil, req, &out, http.StatusCreated, "post creation"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) EditPost(ctx context.Context, id domain.PostId, content string) (*domain.Post, error) {
	var out api.PostResponse
	path := fmt.Sprintf("/v1/posts/%d", id)
	req := api.EditPostRequest{Content: content}
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, req, &out, http.StatusOK, "post edit"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// AppendComment adds the immutable post-window comment to a root post.
func (c *Client) AppendComment(ctx context.Context, id domain.PostId, comment string) (*domain.Post, error) {
	var out api.PostResponse
	path := fmt.Sprintf("/v1/posts/%d/comment", id)
	req := api.AppendCommentRequest{Comment: comment}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &out, http.StatusOK, "comment append"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) Vote(ctx context.Context, id domain.PostId, direction domain.Vote) (*domain.Post, error) {
	var out api.PostResponse
	path := fmt.Sprintf("/v1/posts/%d/vote", id)
	req := api.VoteRequest{Direction: direction}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &out, http.StatusOK, "vote"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// SetDeleted toggles the deletion flag; records are never removed.
func (c *Client) SetDeleted(ctx context.Context, id domain.PostId, deleted bool) (*domain.Post, error) {
	var out api.PostResponse
	path := fmt.Sprintf("/v1/posts/%d/deleted", id)
	req := api.SetDeletedRequest{Deleted: deleted}
	if err := c.doJSON(ctx, http.MethodPut, path, nil, req, &out, http.StatusOK, "delete toggle"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) ToggleFlag(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	var out api.PostResponse
	path := fmt.Sprintf("/v1/posts/%d/flag", id)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &out, http.StatusOK, "flag toggle"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}
