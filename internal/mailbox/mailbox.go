// Package mailbox carries map commands across screens: at most one subscriber
// at a time, with a one-slot buffer for a command issued before the map screen
// has attached its handler.
package mailbox

import "sync"

type Op string

const (
	OpSearch Op = "search"
	OpRoute  Op = "route"
)

// Action is a single map command. Query is optional for OpSearch (an empty
// query focuses the search box) and required for OpRoute.
type Action struct {
	Op    Op
	Query string
}

// Mailbox is the single-slot command channel. A delivered action is consumed;
// an action sent with no subscriber overwrites the pending slot, so only the
// latest undelivered command survives.
type Mailbox struct {
	mu      sync.Mutex
	handler func(Action)
	gen     int
	pending *Action
}

func New() *Mailbox {
	return &Mailbox{}
}

// Register attaches the subscriber, replacing any previous one, and
// immediately delivers a pending action if present. The returned function
// unregisters the handler; it only detaches if this registration is still the
// current one, so a stale unregister from a replaced screen is harmless.
func (m *Mailbox) Register(handler func(Action)) (unregister func()) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.handler = handler
	var deliver *Action
	if m.pending != nil {
		deliver = m.pending
		m.pending = nil
	}
	m.mu.Unlock()

	if deliver != nil {
		handler(*deliver)
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen == gen {
			m.handler = nil
		}
	}
}

// Search requests the map screen to run a search; an empty query just opens
// the search UI.
func (m *Mailbox) Search(query string) {
	m.send(Action{Op: OpSearch, Query: query})
}

// Route requests the map screen to build a route to the queried place.
func (m *Mailbox) Route(query string) {
	m.send(Action{Op: OpRoute, Query: query})
}

func (m *Mailbox) send(a Action) {
	m.mu.Lock()
	h := m.handler
	if h == nil {
		m.pending = &a
	}
	m.mu.Unlock()

	if h != nil {
		h(a)
	}
}

// Pending reports whether an undelivered action is buffered.
func (m *Mailbox) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}
