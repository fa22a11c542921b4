package querycache

// Entity kinds of the shared cache. Keys combine a kind with the full
// parameter tuple of the request that filled the entry.
const (
	KindThreads    = "threads"     // paginated thread listings
	KindThread     = "thread"      // single thread records
	KindPosts      = "posts"       // paginated reply/sub-reply listings
	KindPost       = "post"        // single post records
	KindPostSearch = "post_search" // author/term post search pages
	KindBookmarks  = "bookmarks"   // bookmarked-thread pages
	KindPoll       = "poll"        // per-thread polls
)
