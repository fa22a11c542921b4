package api

import (
	"github.com/parley-dev/parley/shared/domain"
)

// Request DTOs

type CreatePostRequest struct {
	ThreadId domain.ThreadId `json:"thread_id" validate:"required"`
	ParentId *domain.PostId  `json:"parent_id,omitempty"`
	Content  string          `json:"content" validate:"required"`
}

type EditPostRequest struct {
	Content string `json:"content" validate:"required"`
}

type AppendCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type VoteRequest struct {
	Direction domain.Vote `json:"direction" validate:"required,oneof=-1 1"`
}

type SetDeletedRequest struct {
	Deleted bool `json:"deleted"`
}

// Response DTOs

// PostResponse wraps the authoritative record after a mutation.
type PostResponse struct {
	domain.Post
}

// PostPageResponse is the shape of every paginated post listing.
type PostPageResponse struct {
	Items []*domain.Post `json:"items"`
	Total int            `json:"total"`
}
