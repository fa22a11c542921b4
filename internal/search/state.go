package search

import (
	"sync"
	"time"

	"github.com/parley-dev/parley/shared/domain"
)

// State holds the sort selections and the search string. Sort selections
// persist across sessions through the SortStore; search text never does.
type State struct {
	mu         sync.Mutex
	threadSort domain.ThreadSort
	replySort  domain.ReplySort
	caller     Caller
	deferred   *Deferred[string]
	store      SortStore
}

// SortStore persists sort preferences. Implemented by the prefs store.
type SortStore interface {
	SaveThreadSort(domain.ThreadSort)
	SaveReplySort(domain.ReplySort)
}

func NewState(threadSort domain.ThreadSort, replySort domain.ReplySort, debounce time.Duration, store SortStore) *State {
	return &State{
		threadSort: threadSort,
		replySort:  replySort,
		deferred:   NewDeferred[string](debounce, nil),
		store:      store,
	}
}

// SetCaller updates the privileges used when parsing search tokens.
func (s *State) SetCaller(c Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = c
}

func (s *State) ThreadSort() domain.ThreadSort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadSort
}

func (s *State) SetThreadSort(v domain.ThreadSort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadSort = v
	if s.store != nil {
		s.store.SaveThreadSort(v)
	}
}

func (s *State) ReplySort() domain.ReplySort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replySort
}

func (s *State) SetReplySort(v domain.ReplySort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replySort = v
	if s.store != nil {
		s.store.SaveReplySort(v)
	}
}

// SetSearchText records raw input; it reaches Query only after the debounce.
func (s *State) SetSearchText(raw string) {
	s.deferred.Set(raw)
}

// FlushSearch commits pending search input immediately (submit, blur).
func (s *State) FlushSearch() {
	s.deferred.Flush()
}

// SearchText returns the raw input for echoing back into the input field.
func (s *State) SearchText() string {
	return s.deferred.Latest()
}

// Query parses the committed (deferred) search text with the caller's
// privileges. This is the only value that may drive query parameters.
func (s *State) Query() Query {
	s.mu.Lock()
	caller := s.caller
	s.mu.Unlock()
	return Parse(s.deferred.Value(), caller)
}
