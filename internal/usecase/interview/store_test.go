package interview

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

func testPlan() *entities.QuestionPlan {
	return &entities.QuestionPlan{
		Assessments: []entities.PlanAssessment{
			{ID: "a1", Weight: 100, Questions: []entities.PlanQuestion{{ID: "q1", Text: "tell me about yourself"}}},
		},
	}
}

func TestMemorySessionStorePutGet(t *testing.T) {
	store := NewMemorySessionStore()
	state := entities.NewConversationState(uuid.New(), testPlan())

	store.Put(state)

	got, ok := store.Get(state.SessionID)
	if !ok || got.SessionID != state.SessionID {
		t.Fatalf("expected session %s, got %v", state.SessionID, got)
	}

	byInterview, ok := store.FindByInterview(state.InterviewID)
	if !ok || byInterview.SessionID != state.SessionID {
		t.Fatal("FindByInterview did not resolve the session")
	}
}

func TestMemorySessionStoreReplaceOnPut(t *testing.T) {
	store := NewMemorySessionStore()
	interviewID := uuid.New()

	first := entities.NewConversationState(interviewID, testPlan())
	second := entities.NewConversationState(interviewID, testPlan())
	store.Put(first)
	store.Put(second)

	if _, ok := store.Get(first.SessionID); ok {
		t.Fatal("replaced session should be gone")
	}
	got, ok := store.FindByInterview(interviewID)
	if !ok || got.SessionID != second.SessionID {
		t.Fatal("interview index should point at the new session")
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d sessions, want 1", store.Len())
	}
}

func TestMemorySessionStoreDelete(t *testing.T) {
	store := NewMemorySessionStore()
	state := entities.NewConversationState(uuid.New(), testPlan())
	store.Put(state)

	store.Delete(state.SessionID)

	if _, ok := store.Get(state.SessionID); ok {
		t.Fatal("session still present after delete")
	}
	if _, ok := store.FindByInterview(state.InterviewID); ok {
		t.Fatal("interview index still present after delete")
	}
}

func TestMemorySessionStoreSweep(t *testing.T) {
	store := NewMemorySessionStore()

	old := entities.NewConversationState(uuid.New(), testPlan())
	old.CreatedAt = time.Now().Add(-25 * time.Hour)
	fresh := entities.NewConversationState(uuid.New(), testPlan())
	store.Put(old)
	store.Put(fresh)

	removed := store.Sweep(24 * time.Hour)
	if len(removed) != 1 || removed[0].SessionID != old.SessionID {
		t.Fatalf("sweep removed %v, want the old session only", removed)
	}
	if _, ok := store.Get(fresh.SessionID); !ok {
		t.Fatal("fresh session was swept")
	}
	if _, ok := store.Get(old.SessionID); ok {
		t.Fatal("old session survived the sweep")
	}
}
