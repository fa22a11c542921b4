package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePost(t *testing.T) {
	full := &Post{Id: 7, ThreadId: 1, Content: "hello"}
	others := []*Post{{Id: 3, ThreadId: 1}, full, {Id: 9, ThreadId: 1}}

	t.Run("stub resolves against matching record", func(t *testing.T) {
		got := ResolvePost(StubPost(7), others)
		assert.Same(t, full, got)
	})

	t.Run("stub without match stays unready", func(t *testing.T) {
		got := ResolvePost(StubPost(42), others)
		assert.Nil(t, got)
	})

	t.Run("full ref resolves to itself", func(t *testing.T) {
		got := ResolvePost(FullPost(full), nil)
		assert.Same(t, full, got)
	})

	t.Run("resolution does not mutate the stub", func(t *testing.T) {
		stub := StubPost(7)
		_ = ResolvePost(stub, others)
		assert.Equal(t, RefStub, stub.Kind)
		assert.Nil(t, stub.Post)
	})
}

func TestResolveThread(t *testing.T) {
	full := &Thread{Id: 5, Title: "t"}

	assert.Same(t, full, ResolveThread(StubThread(5, ""), []*Thread{full}))
	assert.Nil(t, ResolveThread(StubThread(6, "gone"), []*Thread{full}))
	assert.Same(t, full, ResolveThread(FullThread(full), nil))
}
