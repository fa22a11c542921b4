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

// ThreadListParams is the full parameter tuple of a thread listing.
type ThreadListParams struct {
	Sort     domain.ThreadSort
	Term     string
	Page     int
	PageSize int
}

func (c *Client) ListThreads(ctx context.Context, p ThreadListParams) ([]*domain.Thread, int, error) {
	q := url.Values{}
	q.Set("sort", string(p.Sort))
	if p.Term != "" {
		q.Set("search", p.Term)
	}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("page_size", strconv.Itoa(p.PageSize))

	var out api.ThreadPageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/threads", q, nil, &out, http.StatusOK, "thread listing"); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

func (c *Client) ListBookmarks(ctx context.Context, page, pageSize int) ([]*domain.Thread, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out api.ThreadPageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/bookmarks", q, nil, &out, http.StatusOK, "bookmark listing"); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

func (c *Client) GetThread(ctx context.Context, id domain.ThreadId) (*domain.Thread, error) {
	var out api.ThreadResponse
	path := fmt.Sprintf("/v1/threads/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, http.StatusOK, "thread lookup"); err != nil {
		return nil, err
	}
	return &out.Thread, nil
}

func (c *Client) CreateThread(ctx context.Context, req api.CreateThreadRequest) (*domain.Thread, *domain.Post, error) {
	var out api.CreateThreadResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/threads", nil, req, &out, http.StatusCreated, "thread creation"); err != nil {
		return nil, nil, err
	}
	return &out.Thread, &out.Root, nil
}

// ToggleBookmark flips the caller's bookmark on a thread and returns the
// authoritative record.
func (c *Client) ToggleBookmark(ctx context.Context, id domain.ThreadId) (*domain.Thread, error) {
	var out api.ThreadResponse
	path := fmt.Sprintf("/v1/threads/%d/bookmark", id)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &out, http.StatusOK, "bookmark toggle"); err != nil {
		return nil, err
	}
	return &out.Thread, nil
}

func (c *Client) GetPoll(ctx context.Context, threadId domain.ThreadId) (*domain.Poll, error) {
	var out api.PollResponse
	path := fmt.Sprintf("/v1/threads/%d/poll", threadId)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out, http.StatusOK, "poll lookup"); err != nil {
		return nil, err
	}
	return &out.Poll, nil
}

func (c *Client) VotePoll(ctx context.Context, threadId domain.ThreadId, optionIds []int64) (*domain.Poll, error) {
	var out api.PollResponse
	path := fmt.Sprintf("/v1/threads/%d/poll/vote", threadId)
	req := api.PollVoteRequest{OptionIds: optionIds}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &out, http.StatusOK, "poll vote"); err != nil {
		return nil, err
	}
	return &out.Poll, nil
}
