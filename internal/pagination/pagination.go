package pagination

import (
	"fmt"
	"strconv"
	"sync"
)

// List identifies one independently paginated listing.
type List string

const (
	Threads      List = "threads"
	Replies      List = "replies"
	SubReplies   List = "subreplies"
	AuthorSearch List = "author_search"
	Bookmarks    List = "bookmarks"
)

// Cursor is the committed position of one list.
type Cursor struct {
	Page     int
	PageSize int
}

type listState struct {
	cursor      Cursor
	fingerprint string
	sizeBuffer  string // uncommitted page-size input
}

// Coordinator keeps an independent cursor per list. Whenever the filter
// inputs feeding a list change, that list resets to page 1; other lists keep
// their position. Page-size edits buffer in a text field and only commit,
// clamped, on blur.
type Coordinator struct {
	mu          sync.Mutex
	lists       map[List]*listState
	defaultSize int
	maxSize     int
}

func New(defaultSize, maxSize int) *Coordinator {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Coordinator{
		lists:       make(map[List]*listState),
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

func (c *Coordinator) state(l List) *listState {
	s, ok := c.lists[l]
	if !ok {
		s = &listState{cursor: Cursor{Page: 1, PageSize: c.defaultSize}}
		c.lists[l] = s
	}
	return s
}

// Observe records the current filter inputs of a list. A change relative to
// the previously observed inputs resets the list to page 1. Inputs are
// compared by value, so the caller passes everything the backing query
// depends on (sort, deferred search, selected thread/post, ...).
func (c *Coordinator) Observe(l List, inputs ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state(l)
	fp := fingerprint(inputs)
	if s.fingerprint == "" && s.cursor.Page == 1 {
		s.fingerprint = fp
		return
	}
	if fp != s.fingerprint {
		s.fingerprint = fp
		s.cursor.Page = 1
	}
}

func fingerprint(inputs []any) string {
	var b []byte
	for _, in := range inputs {
		b = fmt.Appendf(b, "%#v\x1f", in)
	}
	return string(b)
}

// Cursor returns the committed cursor for a list.
func (c *Coordinator) Cursor(l List) Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(l).cursor
}

// SetPage moves a list to the given page; non-positive pages clamp to 1.
func (c *Coordinator) SetPage(l List, page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.state(l).cursor.Page = page
}

// EditPageSize buffers raw text from the page-size input without touching the
// committed cursor, so the active query is not thrashed mid-edit.
func (c *Coordinator) EditPageSize(l List, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(l).sizeBuffer = text
}

// CommitPageSize parses and clamps the buffered input (on blur). Garbage
// leaves the committed size unchanged. A committed change resets the page.
func (c *Coordinator) CommitPageSize(l List) Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state(l)
	buf := s.sizeBuffer
	s.sizeBuffer = ""
	n, err := strconv.Atoi(buf)
	if err != nil {
		return s.cursor
	}
	if n < 1 {
		n = 1
	}
	if n > c.maxSize {
		n = c.maxSize
	}
	if n != s.cursor.PageSize {
		s.cursor.PageSize = n
		s.cursor.Page = 1
	}
	return s.cursor
}

// Reset puts a single list back to page 1 (explicit navigation reset).
func (c *Coordinator) Reset(l List) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(l).cursor.Page = 1
}
