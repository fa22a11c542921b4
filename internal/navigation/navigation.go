package navigation

import (
	"sync"

	"github.com/parley-dev/parley/shared/domain"
	"github.com/parley-dev/parley/shared/logger"
)

// View is the discussion screen currently showing.
type View string

const (
	ViewList    View = "list"
	ViewThread  View = "thread"
	ViewReplies View = "replies"
)

// Position is the persisted navigation state.
type Position struct {
	View        View
	ThreadId    domain.ThreadId
	ThreadTitle domain.ThreadTitle
	PostId      domain.PostId
}

// PositionStore persists the last position across restarts. Implemented by
// the prefs store.
type PositionStore interface {
	SavePosition(Position)
	LoadPosition() (Position, bool)
}

// Machine tracks which view is showing and which thread/post is selected.
//
// Transitions: list -> thread (OpenThread), thread -> replies (OpenReplies),
// replies -> thread (Back), any -> list (GoToList). An external reset signal
// (monotonic counter) also forces the list view, so re-activating an already
// open tab behaves as "go home" instead of a no-op.
type Machine struct {
	mu        sync.Mutex
	view      View
	thread    domain.ThreadRef
	post      domain.PostRef
	resetSeen uint64
	store     PositionStore
}

func NewMachine(store PositionStore) *Machine {
	return &Machine{view: ViewList, store: store}
}

// Restore loads the persisted position, synthesizing stubs from the stored
// ids. Absent or corrupt state falls back to the list view.
func (m *Machine) Restore() {
	if m.store == nil {
		return
	}
	pos, ok := m.store.LoadPosition()
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch pos.View {
	case ViewThread:
		if pos.ThreadId <= 0 {
			return
		}
		m.view = ViewThread
		m.thread = domain.StubThread(pos.ThreadId, pos.ThreadTitle)
	case ViewReplies:
		if pos.ThreadId <= 0 || pos.PostId <= 0 {
			return
		}
		m.view = ViewReplies
		m.thread = domain.StubThread(pos.ThreadId, pos.ThreadTitle)
		m.post = domain.StubPost(pos.PostId)
	default:
		m.view = ViewList
	}
}

// DeepLink enters the view implied by external id parameters. Non-positive
// ids are ignored and the current (default) view stays.
func (m *Machine) DeepLink(threadId domain.ThreadId, postId domain.PostId) {
	if threadId <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.thread = domain.StubThread(threadId, "")
	if postId > 0 {
		m.post = domain.StubPost(postId)
		m.view = ViewReplies
	} else {
		m.post = domain.PostRef{}
		m.view = ViewThread
	}
	m.persistLocked()
}

// OpenThread always lands on the thread view with the given selection.
func (m *Machine) OpenThread(ref domain.ThreadRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = ViewThread
	m.thread = ref
	m.post = domain.PostRef{}
	m.persistLocked()
}

// OpenReplies shows a post's children. It is the only transition that sets a
// post selection, and it keeps the current thread.
func (m *Machine) OpenReplies(ref domain.PostRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thread.IsZero() {
		logger.Log.Warn("replies opened without a selected thread", "component", "navigation", "post_id", ref.Id)
		return
	}
	m.view = ViewReplies
	m.post = ref
	m.persistLocked()
}

// Back returns from the replies view to the thread view.
func (m *Machine) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view != ViewReplies {
		return
	}
	m.view = ViewThread
	m.post = domain.PostRef{}
	m.persistLocked()
}

// GoToList resets to the list view and clears all selection. Idempotent.
func (m *Machine) GoToList() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

// ApplyResetSignal forces the list view when the external counter advanced
// past the last value seen.
func (m *Machine) ApplyResetSignal(counter uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if counter <= m.resetSeen {
		return
	}
	m.resetSeen = counter
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	m.view = ViewList
	m.thread = domain.ThreadRef{}
	m.post = domain.PostRef{}
	m.persistLocked()
}

func (m *Machine) persistLocked() {
	if m.store == nil {
		return
	}
	m.store.SavePosition(Position{
		View:        m.view,
		ThreadId:    m.thread.Id,
		ThreadTitle: m.thread.Title,
		PostId:      m.post.Id,
	})
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Thread returns the current thread selection (stub or full).
func (m *Machine) Thread() domain.ThreadRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thread
}

// Post returns the current post selection (stub or full).
func (m *Machine) Post() domain.PostRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.post
}

// AdoptThread upgrades a stub selection once the full record arrived. It
// never downgrades and never changes the id it points at.
func (m *Machine) AdoptThread(t *domain.Thread) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thread.Kind == domain.RefStub && m.thread.Id == t.Id {
		m.thread = domain.FullThread(t)
		m.persistLocked()
	}
}

// AdoptPost is the post counterpart of AdoptThread.
func (m *Machine) AdoptPost(p *domain.Post) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.post.Kind == domain.RefStub && m.post.Id == p.Id {
		m.post = domain.FullPost(p)
		m.persistLocked()
	}
}
