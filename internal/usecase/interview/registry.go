package interview

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender delivers one outbound event to a live connection. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(v interface{}) error
}

// participantSet tracks the live connections for one interview: exactly one
// authoritative candidate slot plus any number of observers.
type participantSet struct {
	candidateConnID string
	candidate       Sender
	observers       map[string]Sender
}

// SessionRegistry tracks live participants per interview and fans events out
// to them. Mutation happens only through join/leave; broadcast works on a
// snapshot so delivery never holds the lock.
type SessionRegistry struct {
	mu         sync.RWMutex
	interviews map[uuid.UUID]*participantSet
	logger     *zap.Logger
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		interviews: make(map[uuid.UUID]*participantSet),
		logger:     logger,
	}
}

// JoinCandidate registers a candidate connection. Last writer wins: an
// existing candidate connection is silently superseded and returned so the
// transport can stop serving it.
func (r *SessionRegistry) JoinCandidate(interviewID uuid.UUID, connID string, sender Sender) (replaced string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.interviews[interviewID]
	if set == nil {
		set = &participantSet{observers: make(map[string]Sender)}
		r.interviews[interviewID] = set
	}

	replaced = set.candidateConnID
	set.candidateConnID = connID
	set.candidate = sender

	if replaced != "" && r.logger != nil {
		r.logger.Info("candidate connection superseded",
			zap.String("interview_id", interviewID.String()),
			zap.String("old_conn", replaced),
			zap.String("new_conn", connID),
		)
	}
	return replaced
}

// JoinObserver adds an observer connection. Idempotent: re-adding an
// existing connection id is a no-op.
func (r *SessionRegistry) JoinObserver(interviewID uuid.UUID, connID string, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.interviews[interviewID]
	if set == nil {
		set = &participantSet{observers: make(map[string]Sender)}
		r.interviews[interviewID] = set
	}
	if _, exists := set.observers[connID]; exists {
		return
	}
	set.observers[connID] = sender
}

// Leave removes a connection from whichever slot it occupies. wasCandidate
// is true only when the removed connection was the authoritative candidate,
// so a superseded old connection dropping does not interrupt the session.
func (r *SessionRegistry) Leave(interviewID uuid.UUID, connID string) (wasCandidate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.interviews[interviewID]
	if set == nil {
		return false
	}

	if set.candidateConnID == connID {
		set.candidateConnID = ""
		set.candidate = nil
		wasCandidate = true
	} else {
		delete(set.observers, connID)
	}

	if set.candidate == nil && len(set.observers) == 0 {
		delete(r.interviews, interviewID)
	}
	return wasCandidate
}

// Drop removes all connections for an interview
func (r *SessionRegistry) Drop(interviewID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.interviews, interviewID)
}

// ObserverCount returns the number of observer connections
func (r *SessionRegistry) ObserverCount(interviewID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if set := r.interviews[interviewID]; set != nil {
		return len(set.observers)
	}
	return 0
}

// SendToCandidate delivers one event to the candidate connection. Returns
// false when no candidate is connected.
func (r *SessionRegistry) SendToCandidate(interviewID uuid.UUID, event interface{}) bool {
	r.mu.RLock()
	set := r.interviews[interviewID]
	var candidate Sender
	if set != nil {
		candidate = set.candidate
	}
	r.mu.RUnlock()

	if candidate == nil {
		return false
	}
	if err := candidate.Send(event); err != nil && r.logger != nil {
		r.logger.Debug("candidate send failed",
			zap.String("interview_id", interviewID.String()),
			zap.Error(err),
		)
	}
	return true
}

// Broadcast delivers one event to the candidate and all observers.
// Fire-and-forget per connection: one slow or dead connection never blocks
// or fails delivery to the others.
func (r *SessionRegistry) Broadcast(interviewID uuid.UUID, event interface{}) {
	for _, sender := range r.snapshot(interviewID, true) {
		go r.deliver(interviewID, sender, event)
	}
}

// BroadcastObservers delivers one event to observer connections only
func (r *SessionRegistry) BroadcastObservers(interviewID uuid.UUID, event interface{}) {
	for _, sender := range r.snapshot(interviewID, false) {
		go r.deliver(interviewID, sender, event)
	}
}

func (r *SessionRegistry) snapshot(interviewID uuid.UUID, includeCandidate bool) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.interviews[interviewID]
	if set == nil {
		return nil
	}

	senders := make([]Sender, 0, len(set.observers)+1)
	if includeCandidate && set.candidate != nil {
		senders = append(senders, set.candidate)
	}
	for _, obs := range set.observers {
		senders = append(senders, obs)
	}
	return senders
}

func (r *SessionRegistry) deliver(interviewID uuid.UUID, sender Sender, event interface{}) {
	if err := sender.Send(event); err != nil && r.logger != nil {
		r.logger.Debug("broadcast delivery failed",
			zap.String("interview_id", interviewID.String()),
			zap.Error(err),
		)
	}
}
