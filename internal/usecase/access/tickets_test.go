package access

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (fs *fakeStore) Set(key string, value string, expiration time.Duration) {
	fs.data[key] = value
}

func (fs *fakeStore) Get(key string) (string, bool) {
	v, ok := fs.data[key]
	return v, ok
}

func (fs *fakeStore) Delete(key string) {
	delete(fs.data, key)
}

func TestTicketRoundTrip(t *testing.T) {
	tm := NewTicketManager(newFakeStore(), time.Minute)
	interviewID := uuid.New()

	ticket, err := tm.Issue(interviewID, "candidate")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if ticket == "" {
		t.Fatal("expected non-empty ticket")
	}

	gotID, role, ok := tm.Redeem(ticket)
	if !ok {
		t.Fatal("expected redeem to succeed")
	}
	if gotID != interviewID {
		t.Fatalf("expected interview %s got %s", interviewID, gotID)
	}
	if role != "candidate" {
		t.Fatalf("expected role candidate got %s", role)
	}
}

func TestTicketSingleUse(t *testing.T) {
	tm := NewTicketManager(newFakeStore(), time.Minute)

	ticket, err := tm.Issue(uuid.New(), "observer")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, _, ok := tm.Redeem(ticket); !ok {
		t.Fatal("first redeem should succeed")
	}
	if _, _, ok := tm.Redeem(ticket); ok {
		t.Fatal("second redeem should fail")
	}
}

func TestTicketUnknown(t *testing.T) {
	tm := NewTicketManager(newFakeStore(), time.Minute)

	if _, _, ok := tm.Redeem("no-such-ticket"); ok {
		t.Fatal("unknown ticket should not redeem")
	}
}

func TestTicketsAreUnique(t *testing.T) {
	tm := NewTicketManager(newFakeStore(), time.Minute)
	interviewID := uuid.New()

	a, err := tm.Issue(interviewID, "candidate")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	b, err := tm.Issue(interviewID, "candidate")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if a == b {
		t.Fatal("two tickets for the same interview must differ")
	}
}
