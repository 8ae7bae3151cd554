package interview

import (
	"math"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// Trust score penalties per proctoring event kind
const (
	penaltyMultiFace          = 5
	penaltyTabSwitch          = 3
	penaltyFullscreenExit     = 10
	penaltySuspiciousActivity = 15
)

// AssessmentScore computes the arithmetic mean of final response scores for
// one assessment. ok is false when no question in the assessment has a
// recorded final response.
func AssessmentScore(assessment entities.PlanAssessment, responses map[string]*entities.QuestionResponse) (int, bool) {
	sum, count := 0, 0
	for _, q := range assessment.Questions {
		resp, exists := responses[q.ID]
		if !exists || !resp.Final {
			continue
		}
		sum += resp.Score
		count++
	}
	if count == 0 {
		return 0, false
	}
	return int(math.Round(float64(sum) / float64(count))), true
}

// OverallScore computes the weighted average over assessments that have at
// least one scored question, renormalized so unanswered assessments do not
// dilute the result. Also returns the per-assessment breakdown.
func OverallScore(plan *entities.QuestionPlan, responses map[string]*entities.QuestionResponse) (int, map[string]int) {
	breakdown := make(map[string]int)

	weightedSum := 0.0
	weightTotal := 0.0
	for _, a := range plan.Assessments {
		score, ok := AssessmentScore(a, responses)
		if !ok {
			continue
		}
		breakdown[a.ID] = score
		weightedSum += float64(score) * float64(a.Weight) / 100.0
		weightTotal += float64(a.Weight) / 100.0
	}

	if weightTotal == 0 {
		return 0, breakdown
	}
	return entities.ClampScore(int(math.Round(weightedSum / weightTotal))), breakdown
}

// TrustScore recomputes the proctoring trust score from the full event log.
// Always derived from scratch so the result is deterministic given the log.
func TrustScore(events []entities.ProctorEvent) int {
	score := 100
	for _, ev := range events {
		switch ev.Kind {
		case entities.ProctorEventFaceDetection:
			if ev.FaceCount > 1 {
				score -= penaltyMultiFace
			}
		case entities.ProctorEventTabSwitch:
			score -= penaltyTabSwitch
		case entities.ProctorEventFullscreenExit:
			score -= penaltyFullscreenExit
		case entities.ProctorEventSuspiciousActivity:
			score -= penaltySuspiciousActivity
		}
	}
	return entities.ClampScore(score)
}
