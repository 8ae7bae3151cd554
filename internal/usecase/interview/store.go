package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// SessionStore holds live ConversationState keyed by session id. The
// contract is what matters: 24h TTL via Sweep, replace-on-put, and lookup
// by interview for reconnects. A distributed cache is a valid backend.
type SessionStore interface {
	Get(sessionID uuid.UUID) (*entities.ConversationState, bool)
	// FindByInterview returns the live session for an interview, if any.
	FindByInterview(interviewID uuid.UUID) (*entities.ConversationState, bool)
	Put(state *entities.ConversationState)
	Delete(sessionID uuid.UUID)
	// Sweep removes sessions older than maxAge and returns them
	Sweep(maxAge time.Duration) []*entities.ConversationState
	Len() int
}

// MemorySessionStore is the in-process SessionStore backend
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entities.ConversationState
	// secondary index for reconnect lookups
	byInterview map[uuid.UUID]uuid.UUID
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions:    make(map[uuid.UUID]*entities.ConversationState),
		byInterview: make(map[uuid.UUID]uuid.UUID),
	}
}

// Get retrieves a session by id
func (s *MemorySessionStore) Get(sessionID uuid.UUID) (*entities.ConversationState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	return state, ok
}

// FindByInterview retrieves the session attached to an interview
func (s *MemorySessionStore) FindByInterview(interviewID uuid.UUID) (*entities.ConversationState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessionID, ok := s.byInterview[interviewID]
	if !ok {
		return nil, false
	}
	state, ok := s.sessions[sessionID]
	return state, ok
}

// Put stores a session, replacing any previous session for the same
// interview.
func (s *MemorySessionStore) Put(state *entities.ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byInterview[state.InterviewID]; ok && prev != state.SessionID {
		delete(s.sessions, prev)
	}
	s.sessions[state.SessionID] = state
	s.byInterview[state.InterviewID] = state.SessionID
}

// Delete removes a session
func (s *MemorySessionStore) Delete(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(s.sessions, sessionID)
	if s.byInterview[state.InterviewID] == sessionID {
		delete(s.byInterview, state.InterviewID)
	}
}

// Sweep removes sessions older than maxAge regardless of completion state
// and returns the removed sessions so callers can release related
// resources.
func (s *MemorySessionStore) Sweep(maxAge time.Duration) []*entities.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []*entities.ConversationState
	for id, state := range s.sessions {
		if state.Age() < maxAge {
			continue
		}
		removed = append(removed, state)
		delete(s.sessions, id)
		if s.byInterview[state.InterviewID] == id {
			delete(s.byInterview, state.InterviewID)
		}
	}
	return removed
}

// Len returns the number of live sessions
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
