package access

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the key-value backend for join tickets. Backed by Redis in
// production and an in-memory map in tests and single-node deployments.
type Store interface {
	Set(key string, value string, expiration time.Duration)
	Get(key string) (string, bool)
	Delete(key string)
}

// TicketManager issues and redeems one-time join tickets. A ticket binds an
// interview id and role to a short-lived random token the browser exchanges
// for an access token when opening the live channel.
type TicketManager struct {
	store      Store
	expiration time.Duration
}

// NewTicketManager creates a ticket manager over the given store
func NewTicketManager(store Store, expiration time.Duration) *TicketManager {
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}
	return &TicketManager{
		store:      store,
		expiration: expiration,
	}
}

// Issue generates a random one-time ticket for an interview and role
func (tm *TicketManager) Issue(interviewID uuid.UUID, role string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	ticket := base64.URLEncoding.EncodeToString(b)

	key := fmt.Sprintf("join:ticket:%s", ticket)
	tm.store.Set(key, fmt.Sprintf("%s:%s", interviewID, role), tm.expiration)

	return ticket, nil
}

// Redeem validates a ticket and consumes it. One-time use: a second redeem
// of the same ticket fails.
func (tm *TicketManager) Redeem(ticket string) (uuid.UUID, string, bool) {
	key := fmt.Sprintf("join:ticket:%s", ticket)

	value, exists := tm.store.Get(key)
	if !exists {
		return uuid.Nil, "", false
	}

	tm.store.Delete(key)

	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return uuid.Nil, "", false
	}
	interviewID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", false
	}
	return interviewID, parts[1], true
}
