package interview

import (
	"strings"
	"testing"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

func TestNeedsFollowUp(t *testing.T) {
	longAnswer := strings.Repeat("a", 200)

	tests := []struct {
		name           string
		eval           entities.Evaluation
		followUpsAsked int
		answer         string
		want           bool
	}{
		{
			name:   "low score triggers follow-up",
			eval:   entities.Evaluation{Score: 40},
			answer: longAnswer,
			want:   true,
		},
		{
			name:   "short answer triggers follow-up",
			eval:   entities.Evaluation{Score: 80},
			answer: strings.Repeat("a", 30),
			want:   true,
		},
		{
			name: "short answer is measured in runes not bytes",
			eval: entities.Evaluation{Score: 80},
			// 30 runes but well over 50 bytes
			answer: strings.Repeat("ф", 30),
			want:   true,
		},
		{
			name:   "long non-ascii answer advances",
			eval:   entities.Evaluation{Score: 80},
			answer: strings.Repeat("ф", 60),
			want:   false,
		},
		{
			name:   "weakness token triggers follow-up",
			eval:   entities.Evaluation{Score: 80, Weaknesses: []string{"The answer was quite vague about the approach"}},
			answer: longAnswer,
			want:   true,
		},
		{
			name:   "weakness token is case-insensitive",
			eval:   entities.Evaluation{Score: 80, Weaknesses: []string{"UNCLEAR reasoning"}},
			answer: longAnswer,
			want:   true,
		},
		{
			name:   "good long answer advances",
			eval:   entities.Evaluation{Score: 80, Weaknesses: []string{"minor gaps"}},
			answer: longAnswer,
			want:   false,
		},
		{
			name:           "score rule exhausted after one follow-up",
			eval:           entities.Evaluation{Score: 40},
			followUpsAsked: 1,
			answer:         longAnswer,
			want:           false,
		},
		{
			name:           "short answer rule exhausted after one follow-up",
			eval:           entities.Evaluation{Score: 90},
			followUpsAsked: 1,
			answer:         strings.Repeat("a", 10),
			want:           false,
		},
		{
			name:           "hard cap wins regardless of triggers",
			eval:           entities.Evaluation{Score: 0, Weaknesses: []string{"vague", "unclear"}},
			followUpsAsked: 2,
			answer:         "x",
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeedsFollowUp(&tt.eval, tt.followUpsAsked, tt.answer)
			if got != tt.want {
				t.Fatalf("NeedsFollowUp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsFollowUpCapNeverExceeded(t *testing.T) {
	// once the cap is reached the policy must return false for any input
	worst := &entities.Evaluation{Score: 0, Weaknesses: []string{"vague", "unclear", "not specific"}}
	for asked := MaxFollowUps; asked < MaxFollowUps+5; asked++ {
		if NeedsFollowUp(worst, asked, "") {
			t.Fatalf("policy granted follow-up at followUpsAsked=%d", asked)
		}
	}
}
