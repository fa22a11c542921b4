package api

import (
	"time"

	"github.com/parley-dev/parley/shared/domain"
)

// Request DTOs

type CreateThreadRequest struct {
	Title   string             `json:"title" validate:"required"`
	Content string             `json:"content" validate:"required"`
	Poll    *CreatePollRequest `json:"poll,omitempty"`
}

type CreatePollRequest struct {
	Options  []string   `json:"options" validate:"required,min=2,max=10,dive,min=1,max=80"`
	Multiple bool       `json:"multiple,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

type PollVoteRequest struct {
	OptionIds []int64 `json:"option_ids" validate:"required,min=1"`
}

// Response DTOs

type ThreadResponse struct {
	domain.Thread
}

type ThreadPageResponse struct {
	Items []*domain.Thread `json:"items"`
	Total int              `json:"total"`
}

// CreateThreadResponse returns the created thread and its root post.
type CreateThreadResponse struct {
	Thread domain.Thread `json:"thread"`
	Root   domain.Post   `json:"root"`
}

type PollResponse struct {
	domain.Poll
}
