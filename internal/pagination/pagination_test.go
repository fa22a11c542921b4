package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserve_ResetsOnInputChange(t *testing.T) {
	c := New(20, 100)

	c.Observe(Threads, "popular", "")
	c.SetPage(Threads, 4)
	assert.Equal(t, 4, c.Cursor(Threads).Page)

	// Same inputs: position survives.
	c.Observe(Threads, "popular", "")
	assert.Equal(t, 4, c.Cursor(Threads).Page)

	// Sort changed: back to page 1.
	c.Observe(Threads, "new", "")
	assert.Equal(t, 1, c.Cursor(Threads).Page)
}

func TestObserve_DoesNotTouchUnrelatedLists(t *testing.T) {
	c := New(20, 100)

	c.Observe(Threads, "popular")
	c.Observe(Replies, int64(7), "popular")
	c.SetPage(Threads, 3)
	c.SetPage(Replies, 5)

	// Changing the reply list's thread must not move the thread list.
	c.Observe(Replies, int64(8), "popular")

	assert.Equal(t, 1, c.Cursor(Replies).Page)
	assert.Equal(t, 3, c.Cursor(Threads).Page)
}

func TestSetPage_ClampsToOne(t *testing.T) {
	c := New(20, 100)
	c.SetPage(Bookmarks, -2)
	assert.Equal(t, 1, c.Cursor(Bookmarks).Page)
}

func TestPageSize_CommitOnBlurOnly(t *testing.T) {
	c := New(20, 100)

	c.EditPageSize(Threads, "5")
	assert.Equal(t, 20, c.Cursor(Threads).PageSize, "typing must not commit")

	cur := c.CommitPageSize(Threads)
	assert.Equal(t, 5, cur.PageSize)
	assert.Equal(t, 1, cur.Page, "size change resets the page")
}

func TestPageSize_ClampAndGarbage(t *testing.T) {
	c := New(20, 100)

	c.EditPageSize(Threads, "99999")
	assert.Equal(t, 100, c.CommitPageSize(Threads).PageSize)

	c.EditPageSize(Threads, "0")
	assert.Equal(t, 1, c.CommitPageSize(Threads).PageSize)

	c.EditPageSize(Threads, "not a number")
	assert.Equal(t, 1, c.CommitPageSize(Threads).PageSize, "garbage keeps the previous size")
}

func TestPageSize_UnchangedValueKeepsPage(t *testing.T) {
	c := New(20, 100)
	c.SetPage(Threads, 3)

	c.EditPageSize(Threads, "20")
	cur := c.CommitPageSize(Threads)

	assert.Equal(t, 20, cur.PageSize)
	assert.Equal(t, 3, cur.Page, "committing the same size must not reset")
}

func TestFingerprint_NoAdjacentCollision(t *testing.T) {
	c := New(20, 100)

	c.Observe(Threads, "ab", "c")
	c.SetPage(Threads, 2)
	c.Observe(Threads, "a", "bc")
	assert.Equal(t, 1, c.Cursor(Threads).Page)
}
