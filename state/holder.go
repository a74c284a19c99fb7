package state

import (
	"sync"
	"time"
)

// Holder is the observable container for the current session. The zero
// value is not usable; construct with NewHolder.
//
// Holder never fails. It only reflects values written by its single writer.
type Holder struct {
	mu      sync.Mutex
	current *Session
	subs    map[uint64]*Subscription
	nextID  uint64
}

// Subscription is one observer registration. Values arrive on C: the
// current principal at subscription time, then one value per actual
// transition. Delivery is latest-wins: an undelivered value is replaced,
// never queued, so a slow observer converges on the newest state.
type Subscription struct {
	C      <-chan *Principal
	ch     chan *Principal
	cancel func()
	once   sync.Once
}

// Cancel removes the subscription. After Cancel returns no further values
// arrive and C is closed.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// NewHolder creates an empty Holder.
func NewHolder() *Holder {
	return &Holder{subs: make(map[uint64]*Subscription)}
}

// Current returns a copy of the current session, or nil when not
// authenticated.
func (h *Holder) Current() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.current.complete() {
		return nil
	}
	s := *h.current
	return &s
}

// Principal returns the current principal, or nil when not authenticated.
func (h *Holder) Principal() *Principal {
	if s := h.Current(); s != nil {
		p := s.Principal
		return &p
	}
	return nil
}

// Token returns the current bearer token, or "" when not authenticated.
func (h *Holder) Token() string {
	if s := h.Current(); s != nil {
		return s.Token
	}
	return ""
}

// IsAuthenticated reports whether a complete session is present and its
// known expiry has not passed at the given instant. This is a local
// optimistic check only; a zero expiry defers entirely to the server.
func (h *Holder) IsAuthenticated(now time.Time) bool {
	s := h.Current()
	if s == nil {
		return false
	}
	return s.ExpiresAt.IsZero() || s.ExpiresAt.After(now)
}

// Set writes the session and notifies observers when the value actually
// changed. An incomplete session (token or principal missing) is treated as
// a clear: the two halves only ever exist together.
func (h *Holder) Set(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !s.complete() {
		h.clearLocked()
		return
	}
	if h.current != nil && *h.current == s {
		return
	}
	h.current = &s
	p := s.Principal
	h.broadcastLocked(&p)
}

// Clear removes the session and notifies observers if one was present.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

func (h *Holder) clearLocked() {
	if h.current == nil {
		return
	}
	h.current = nil
	h.broadcastLocked(nil)
}

// Subscribe registers an observer. The latest value is replayed
// immediately, so a late subscriber learns the current state without
// waiting for the next transition.
func (h *Holder) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan *Principal, 1)
	sub := &Subscription{C: ch, ch: ch}
	sub.cancel = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
		close(ch)
	}
	h.subs[id] = sub

	if h.current.complete() {
		p := h.current.Principal
		ch <- &p
	} else {
		ch <- nil
	}
	return sub
}

// broadcastLocked delivers p to every subscriber, replacing any value the
// subscriber has not consumed yet.
func (h *Holder) broadcastLocked(p *Principal) {
	for _, sub := range h.subs {
		select {
		case sub.ch <- p:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- p
		}
	}
}
