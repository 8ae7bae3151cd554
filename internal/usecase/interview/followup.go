package interview

import (
	"strings"
	"unicode/utf8"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// Weakness phrases that earn the candidate one clarifying re-prompt
var weaknessTokens = []string{"unclear", "vague", "specific"}

const (
	// MaxFollowUps bounds follow-ups per question regardless of triggers
	MaxFollowUps = 2

	followUpScoreThreshold = 50
	shortAnswerChars       = 50
)

// NeedsFollowUp decides whether to re-ask the current question instead of
// advancing the cursor. Pure function: each triggering condition grants at
// most one follow-up, and the hard cap wins over everything.
// Answer length is measured in runes, not bytes; transcribed speech in
// non-Latin scripts must trip the short-answer rule the same way ASCII does.
func NeedsFollowUp(eval *entities.Evaluation, followUpsAsked int, answerText string) bool {
	if followUpsAsked >= MaxFollowUps {
		return false
	}

	if eval.Score < followUpScoreThreshold && followUpsAsked < 1 {
		return true
	}

	if utf8.RuneCountInString(answerText) < shortAnswerChars && followUpsAsked < 1 {
		return true
	}

	if followUpsAsked < 1 && hasWeaknessToken(eval.Weaknesses) {
		return true
	}

	return false
}

func hasWeaknessToken(weaknesses []string) bool {
	for _, w := range weaknesses {
		lower := strings.ToLower(w)
		for _, token := range weaknessTokens {
			if strings.Contains(lower, token) {
				return true
			}
		}
	}
	return false
}
