package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	anon  = Caller{}
	user  = Caller{Authenticated: true}
	admin = Caller{Authenticated: true, Admin: true}
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		caller Caller
		want   Query
	}{
		{"plain term", "rust generics", user, Query{Term: "rust generics"}},
		{"bookmarked anywhere", "some @bookmarked text", user, Query{Term: "some text", Bookmarked: true}},
		{"author token", "@alice deadlock", user, Query{Term: "deadlock", Author: "alice"}},
		{"author stripped for anonymous", "@alice deadlock", anon, Query{Term: "deadlock"}},
		{"first author wins", "@alice @bob", user, Query{Author: "alice"}},
		{"admin deleted flag", "@deleted spam", admin, Query{Term: "spam", DeletedOnly: true}},
		{"deleted ignored for non-admin", "@deleted spam", user, Query{Term: "spam"}},
		{"flagged ignored for non-admin", "@flagged", user, Query{}},
		{"scope op", "@op intro", user, Query{Term: "intro", Scope: ScopeOp}},
		{"scope replies", "@replies intro", user, Query{Term: "intro", Scope: ScopeReplies}},
		{"bare at is a term", "@ x", user, Query{Term: "@ x"}},
		{"case insensitive tokens", "@Bookmarked @ALICE", user, Query{Bookmarked: true, Author: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw, tt.caller))
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain words",
		"@bookmarked",
		"mixed @bookmarked @alice @op some term",
		"@deleted @flagged everything",
		"   spaced    out   @replies  ",
	}
	for _, raw := range inputs {
		for _, caller := range []Caller{anon, user, admin} {
			first := Parse(raw, caller)
			again := Parse(first.Raw(), caller)
			assert.Equal(t, first, again, "raw=%q caller=%+v", raw, caller)
		}
	}
}

func TestParse_BookmarkedAnywhere(t *testing.T) {
	for _, raw := range []string{"@bookmarked", "x @bookmarked", "@bookmarked y", "a @bookmarked b"} {
		assert.True(t, Parse(raw, anon).Bookmarked, "raw=%q", raw)
	}
}

func TestQueryMode(t *testing.T) {
	assert.Equal(t, ModeThreads, Parse("generics", user).Mode())
	assert.Equal(t, ModeThreads, Parse("@bookmarked", user).Mode())
	assert.Equal(t, ModePosts, Parse("@alice", user).Mode())
	assert.Equal(t, ModePosts, Parse("@op generics", user).Mode())
}
