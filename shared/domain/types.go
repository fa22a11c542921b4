package domain

type (
	UserId      = int64
	ThreadId    = int64
	PostId      = int64
	ThreadTitle = string
)

// Vote is the caller's stance on a post: -1, 0 (none) or +1.
type Vote int

const (
	VoteNone Vote = 0
	VoteUp   Vote = 1
	VoteDown Vote = -1
)

// ThreadSort orders the thread list.
type ThreadSort string

const (
	SortPopular ThreadSort = "popular"
	SortRecent  ThreadSort = "recent"
	SortNew     ThreadSort = "new"
)

// ReplySort orders reply lists.
type ReplySort string

const (
	ReplySortPopular ReplySort = "popular"
	ReplySortNew     ReplySort = "new"
)
