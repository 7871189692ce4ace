// Package voicesession tracks the recording state of client voice sessions.
// The client drives the machine with events; the server only validates
// transitions and reports the current state.
//
// States: idle -> listening (wake_word) -> recording (silence after speech is
// handled client-side; "silence" here ends recording) -> idle. A client_stop
// aborts from any state.
package voicesession

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
)

// State is the server-side view of one voice session.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateRecording State = "recording"
)

// Event is a client-reported transition trigger.
type Event string

const (
	EventWakeWord   Event = "wake_word"
	EventSpeech     Event = "speech"
	EventSilence    Event = "silence"
	EventClientStop Event = "client_stop"
)

func (e Event) IsValid() bool {
	switch e {
	case EventWakeWord, EventSpeech, EventSilence, EventClientStop:
		return true
	}
	return false
}

// Session is one tracked voice session.
type Session struct {
	ID        uuid.UUID
	State     State
	UpdatedAt time.Time
}

// transitions maps (state, event) to the next state. Anything absent is an
// invalid transition.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventWakeWord: StateListening,
	},
	StateListening: {
		EventSpeech:  StateRecording,
		EventSilence: StateIdle,
	},
	StateRecording: {
		EventSilence: StateIdle,
	},
}

// Store tracks sessions in memory. Sessions are ephemeral client state, not
// persisted history.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

// Get returns a copy of the session, or domain.ErrNotFound.
func (s *Store) Get(id uuid.UUID) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %v: %w", id, domain.ErrNotFound)
	}
	return *sess, nil
}

// Apply applies one event to the session, creating it in the idle state on
// first contact. Invalid events and invalid transitions return
// domain.ErrValidation; the state is left untouched.
func (s *Store) Apply(id uuid.UUID, event Event) (Session, error) {
	if !event.IsValid() {
		return Session{}, domain.NewValidationError("event", fmt.Sprintf("unknown event %q", event))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id, State: StateIdle, UpdatedAt: s.now()}
		s.sessions[id] = sess
	}

	// client_stop aborts from anywhere, including idle.
	if event == EventClientStop {
		sess.State = StateIdle
		sess.UpdatedAt = s.now()
		return *sess, nil
	}

	next, ok := transitions[sess.State][event]
	if !ok {
		return Session{}, domain.NewValidationError("event",
			fmt.Sprintf("event %q not allowed in state %q", event, sess.State))
	}

	sess.State = next
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// Purge drops sessions not updated for longer than maxAge, whatever their
// state: a listening or recording session that stopped sending events is as
// abandoned as an idle one. Returns how many were removed.
func (s *Store) Purge(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
