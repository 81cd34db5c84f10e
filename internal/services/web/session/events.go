package session

// EventKind names an identity change.
type EventKind string

const (
	EventLoggedIn    EventKind = "logged_in"
	EventRestored    EventKind = "restored"
	EventLoggedOut   EventKind = "logged_out"
	EventVerified    EventKind = "verified"
	EventRoleChanged EventKind = "role_changed"
)

// Event is published to subscribers whenever a session changes.
type Event struct {
	Kind      EventKind
	SessionID string
	Identity  Identity
	Reason    Reason
}

// Subscribe returns a channel of session events and a cancel func that
// unregisters it. Delivery is best effort: an event is dropped for a
// subscriber whose buffer is full so a slow reader never blocks the store.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once bool
	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if once {
			return
		}
		once = true
		delete(s.subs, id)
		close(ch)
	}
	return ch, cancel
}

func (s *Store) publish(event Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
