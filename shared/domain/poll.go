package domain

import "time"

type PollOption struct {
	Id       int64  `json:"id"`
	Text     string `json:"text"`
	Votes    int    `json:"votes"`
	Position int    `json:"position"`
}

// Poll is attached 1:1 to a thread. EndsAt == nil means the poll never closes.
type Poll struct {
	ThreadId ThreadId     `json:"thread_id"`
	Options  []PollOption `json:"options"`
	EndsAt   *time.Time   `json:"ends_at,omitempty"`
	Multiple bool         `json:"multiple"`
	Selected []int64      `json:"selected,omitempty"` // option ids the requesting user picked
}

// Closed reports whether voting has ended as of now.
func (p *Poll) Closed(now time.Time) bool {
	return p.EndsAt != nil && now.After(*p.EndsAt)
}
