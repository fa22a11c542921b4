package domain

import "time"

// Thread is the list-level view of a discussion. The full discussion content
// lives in its posts; the root post carries the body and votes.
type Thread struct {
	Id        ThreadId    `json:"id"`
	Title     ThreadTitle `json:"title"`
	Author    User        `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
	RootId    PostId      `json:"root_id"`

	ReplyCount int `json:"reply_count"`
	Likes      int `json:"likes"`
	Dislikes   int `json:"dislikes"`

	OpDeleted  bool `json:"op_deleted,omitempty"`
	HasPoll    bool `json:"has_poll,omitempty"`
	Bookmarked bool `json:"bookmarked,omitempty"`
}
