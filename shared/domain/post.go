package domain

import "time"

// Post is a single message. ParentId == nil marks the thread's root post,
// otherwise the post is a reply to ParentId.
type Post struct {
	Id       PostId   `json:"id"`
	ThreadId ThreadId `json:"thread_id"`
	ParentId *PostId  `json:"parent_id,omitempty"`

	Content   string    `json:"content"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"created_at"`

	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
	UserVote Vote `json:"user_vote"` // the requesting user's own vote

	ReplyCount int `json:"reply_count"`

	// Denormalized preview of the first reply, shown inline in reply lists.
	FirstReplyAuthor  string `json:"first_reply_author,omitempty"`
	FirstReplyPreview string `json:"first_reply_preview,omitempty"`

	Flagged bool `json:"flagged,omitempty"`
	Deleted bool `json:"deleted,omitempty"`
	Edited  bool `json:"edited,omitempty"`

	// Appended after the edit window closed; never replaces Content.
	AdditionalComment string `json:"additional_comment,omitempty"`
}

// IsRoot reports whether the post is its thread's original post.
func (p *Post) IsRoot() bool {
	return p.ParentId == nil
}
