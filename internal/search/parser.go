package search

import "strings"

// Caller carries the privileges that decide which tokens are honored.
type Caller struct {
	Authenticated bool
	Admin         bool
}

// Scope restricts a post search to root posts or replies.
type Scope string

const (
	ScopeAny     Scope = ""
	ScopeOp      Scope = "op"
	ScopeReplies Scope = "replies"
)

// Mode says which entity kind a query targets.
type Mode string

const (
	ModeThreads Mode = "threads"
	ModePosts   Mode = "posts"
)

// Query is the structured form of a free-text search string.
type Query struct {
	Term        string
	Author      string
	Bookmarked  bool
	DeletedOnly bool
	FlaggedOnly bool
	Scope       Scope
}

// Parse turns a raw search string into a Query. Parsing is pure and
// idempotent: Parse(Parse(s, c).Raw(), c) == Parse(s, c).
//
// Tokens: @bookmarked switches to the bookmarks view; @op / @replies restrict
// post type; @deleted / @flagged are honored for admins only; any other
// @word names an author and is honored for authenticated callers only
// (first one wins). Everything else is the literal search term.
func Parse(raw string, caller Caller) Query {
	var q Query
	var terms []string

	for _, tok := range strings.Fields(raw) {
		if !strings.HasPrefix(tok, "@") || len(tok) == 1 {
			terms = append(terms, tok)
			continue
		}
		switch strings.ToLower(tok[1:]) {
		case "bookmarked":
			q.Bookmarked = true
		case "op":
			q.Scope = ScopeOp
		case "replies":
			q.Scope = ScopeReplies
		case "deleted":
			if caller.Admin {
				q.DeletedOnly = true
			}
		case "flagged":
			if caller.Admin {
				q.FlaggedOnly = true
			}
		default:
			if caller.Authenticated && q.Author == "" {
				q.Author = strings.ToLower(tok[1:])
			}
		}
	}

	q.Term = strings.Join(terms, " ")
	return q
}

// Raw serializes the query back into its canonical string form.
func (q Query) Raw() string {
	var parts []string
	if q.Bookmarked {
		parts = append(parts, "@bookmarked")
	}
	if q.DeletedOnly {
		parts = append(parts, "@deleted")
	}
	if q.FlaggedOnly {
		parts = append(parts, "@flagged")
	}
	if q.Scope != ScopeAny {
		parts = append(parts, "@"+string(q.Scope))
	}
	if q.Author != "" {
		parts = append(parts, "@"+q.Author)
	}
	if q.Term != "" {
		parts = append(parts, q.Term)
	}
	return strings.Join(parts, " ")
}

// Mode derives the entity kind the query targets. Author-scoped and
// type-scoped queries search posts, everything else searches threads.
func (q Query) Mode() Mode {
	if q.Author != "" || q.Scope != ScopeAny {
		return ModePosts
	}
	return ModeThreads
}

// IsEmpty reports whether the query carries no restriction at all.
func (q Query) IsEmpty() bool {
	return q == Query{}
}
