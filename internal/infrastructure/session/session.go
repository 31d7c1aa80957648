package session

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// Session is the per-request view of a stored session. It is not safe for
// concurrent use.
type Session struct {
	id       string
	data     *Data
	isNew    bool
	modified bool
	stale    []string
}

func newSession() *Session {
	return &Session{
		id:    uuid.NewString(),
		data:  newData(),
		isNew: true,
	}
}

// ID returns the current session id
func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether the session was created during this request
func (s *Session) IsNew() bool {
	return s.isNew
}

// Modified reports whether the session needs to be written back
func (s *Session) Modified() bool {
	return s.modified
}

// MarkModified flags the session for saving. Call it after mutating the
// cart in place.
func (s *Session) MarkModified() {
	s.modified = true
}

// UserID returns the authenticated user, 0 for anonymous sessions
func (s *Session) UserID() uint {
	return s.data.UserID
}

// IsAuthenticated reports whether a user is logged in
func (s *Session) IsAuthenticated() bool {
	return s.data.UserID != 0
}

// Cart returns the session cart. It is never nil.
func (s *Session) Cart() *cart.Cart {
	return s.data.Cart
}

// Authenticate logs userID in under a fresh session id. An anonymous
// visitor's cart and pending flashes carry over; a session that belonged
// to a different user starts empty.
func (s *Session) Authenticate(userID uint) {
	s.rotate()
	if s.data.UserID != 0 && s.data.UserID != userID {
		s.data = newData()
	}
	s.data.UserID = userID
}

// Destroy discards all session state and starts a new anonymous session
func (s *Session) Destroy() {
	s.rotate()
	s.data = newData()
}

// AddFlash queues a message for the next rendered page
func (s *Session) AddFlash(level, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Level: level, Message: message})
	s.modified = true
}

// Flashes returns and clears the queued messages
func (s *Session) Flashes() []Flash {
	flashes := s.data.Flashes
	if len(flashes) > 0 {
		s.data.Flashes = nil
		s.modified = true
	}
	return flashes
}

func (s *Session) rotate() {
	if !s.isNew {
		s.stale = append(s.stale, s.id)
	}
	s.id = uuid.NewString()
	s.isNew = true
	s.modified = true
}
