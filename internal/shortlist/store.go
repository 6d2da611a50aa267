package shortlist

import (
	"errors"
	"sync"
	"time"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
)

var ErrSessionOwner = errors.New("session belongs to another user")

// Session owns exactly one cart plus the most recent ranked results, so the
// caller can add candidates by id.
type Session struct {
	ID     string
	UserID string
	Cart   *Cart

	mu       sync.Mutex
	results  map[string]candidate.Candidate
	lastSeen time.Time
}

// SetResults replaces the session's latest ranked results.
func (s *Session) SetResults(results []candidate.Candidate) {
	byID := make(map[string]candidate.Candidate, len(results))
	for _, c := range results {
		byID[c.ID] = c.Clone()
	}

	s.mu.Lock()
	s.results = byID
	s.mu.Unlock()
}

func (s *Session) Result(id string) (candidate.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.results[id]
	if !ok {
		return candidate.Candidate{}, false
	}
	return c.Clone(), true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store maps session ids to sessions. The map lock is only held for lookups
// and inserts; cart work happens under each cart's own lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Session returns the session for id, creating it with an empty cart on first
// use. A session is bound to the user that created it.
func (s *Store) Session(id, userID string) (*Session, error) {
	now := s.now()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		sess, ok = s.sessions[id]
		if !ok {
			sess = &Session{ID: id, UserID: userID, Cart: NewCart()}
			s.sessions[id] = sess
		}
		s.mu.Unlock()
	}

	if sess.UserID != userID {
		return nil, ErrSessionOwner
	}
	sess.touch(now)
	return sess, nil
}

// End discards the session and its cart.
func (s *Store) End(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// EndOwned ends the session only when userID owns it. A missing session is
// not an error.
func (s *Store) EndOwned(id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	if sess.UserID != userID {
		return false, ErrSessionOwner
	}
	delete(s.sessions, id)
	return true, nil
}

// Sweep ends every session idle for longer than ttl and returns their ids.
func (s *Store) Sweep(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var ended []string
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			ended = append(ended, id)
		}
	}
	return ended
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
