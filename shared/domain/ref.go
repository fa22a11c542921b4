package domain

// RefKind discriminates stub references from full records. Stubs stand in for
// records that have not been fetched yet (deep links, restored positions) and
// are only authoritative for the fields they explicitly carry.
type RefKind int

const (
	RefStub RefKind = iota
	RefFull
)

// ThreadRef points at a thread either by id (+ optional title) or by the
// full record.
type ThreadRef struct {
	Kind   RefKind
	Id     ThreadId
	Title  ThreadTitle // best-effort for stubs, may be empty
	Thread *Thread     // set only when Kind == RefFull
}

func StubThread(id ThreadId, title ThreadTitle) ThreadRef {
	return ThreadRef{Kind: RefStub, Id: id, Title: title}
}

func FullThread(t *Thread) ThreadRef {
	return ThreadRef{Kind: RefFull, Id: t.Id, Title: t.Title, Thread: t}
}

func (r ThreadRef) IsZero() bool { return r.Id == 0 }

// PostRef points at a post either by id or by the full record.
type PostRef struct {
	Kind RefKind
	Id   PostId
	Post *Post // set only when Kind == RefFull
}

func StubPost(id PostId) PostRef {
	return PostRef{Kind: RefStub, Id: id}
}

func FullPost(p *Post) PostRef {
	return PostRef{Kind: RefFull, Id: p.Id, Post: p}
}

func (r PostRef) IsZero() bool { return r.Id == 0 }

// ResolvePost returns the full record a stub stands for, searching the given
// posts. Full refs resolve to their own record. A miss returns nil and the
// caller must treat the reference as not ready instead of rendering stub
// fields it does not have. Resolution never mutates the stored reference.
func ResolvePost(ref PostRef, posts []*Post) *Post {
	if ref.Kind == RefFull {
		return ref.Post
	}
	for _, p := range posts {
		if p != nil && p.Id == ref.Id {
			return p
		}
	}
	return nil
}

// ResolveThread is the thread counterpart of ResolvePost.
func ResolveThread(ref ThreadRef, threads []*Thread) *Thread {
	if ref.Kind == RefFull {
		return ref.Thread
	}
	for _, t := range threads {
		if t != nil && t.Id == ref.Id {
			return t
		}
	}
	return nil
}
