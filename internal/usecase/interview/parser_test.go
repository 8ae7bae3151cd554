package interview

import (
	"testing"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

func TestParseEvaluationJSON(t *testing.T) {
	p := NewParser()

	eval, err := p.ParseEvaluation(`{"score": 75, "strengths": ["clear structure"], "weaknesses": ["no metrics"], "recommendation": "hire", "summary": "solid answer"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if eval.Score != 75 {
		t.Fatalf("score = %d, want 75", eval.Score)
	}
	if eval.Recommendation != entities.RecommendationHire {
		t.Fatalf("recommendation = %s, want hire", eval.Recommendation)
	}
	if len(eval.Strengths) != 1 || eval.Strengths[0] != "clear structure" {
		t.Fatalf("unexpected strengths: %v", eval.Strengths)
	}
}

func TestParseEvaluationMarkdownWrapped(t *testing.T) {
	p := NewParser()

	raw := "```json\n{\"score\": 60, \"summary\": \"ok\"}\n```"
	eval, err := p.ParseEvaluation(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if eval.Score != 60 {
		t.Fatalf("score = %d, want 60", eval.Score)
	}
	if eval.Recommendation != entities.RecommendationMaybe {
		t.Fatalf("missing recommendation should default to maybe, got %s", eval.Recommendation)
	}
}

func TestParseEvaluationClampsScore(t *testing.T) {
	p := NewParser()

	eval, err := p.ParseEvaluation(`{"score": 150}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if eval.Score != 100 {
		t.Fatalf("score = %d, want clamped 100", eval.Score)
	}
}

func TestParseEvaluationInvalid(t *testing.T) {
	p := NewParser()

	if _, err := p.ParseEvaluation("I think the candidate did well overall."); err == nil {
		t.Fatal("expected error for non-JSON evaluation")
	}
}

func TestParseNarrativeJSON(t *testing.T) {
	p := NewParser()

	result := p.ParseNarrative(`{"strengths": ["communication"], "weaknesses": ["depth"], "insights": ["prefers backend work"], "recommendation": "no-hire"}`)
	if result.Recommendation != entities.RecommendationNoHire {
		t.Fatalf("recommendation = %s, want no-hire", result.Recommendation)
	}
	if len(result.Insights) != 1 {
		t.Fatalf("insights = %v", result.Insights)
	}
}

func TestParseNarrativeKeywordFallback(t *testing.T) {
	p := NewParser()

	raw := `Strengths:
- Communicates clearly
- Strong system design instincts

Weaknesses:
- Limited production debugging experience

Insights:
- Would pair well with a senior mentor

Recommendation: hire`

	result := p.ParseNarrative(raw)
	if len(result.Strengths) != 2 {
		t.Fatalf("strengths = %v, want 2 entries", result.Strengths)
	}
	if len(result.Weaknesses) != 1 {
		t.Fatalf("weaknesses = %v, want 1 entry", result.Weaknesses)
	}
	if result.Recommendation != entities.RecommendationHire {
		t.Fatalf("recommendation = %s, want hire", result.Recommendation)
	}
}

func TestParseNarrativeAmbiguousDefaults(t *testing.T) {
	p := NewParser()

	result := p.ParseNarrative("The candidate seemed fine. Nothing else to report.")
	if result.Recommendation != entities.RecommendationMaybe {
		t.Fatalf("recommendation = %s, want maybe", result.Recommendation)
	}
	if result.Strengths == nil || result.Weaknesses == nil || result.Insights == nil {
		t.Fatal("lists must be empty, never nil")
	}
	if len(result.Strengths)+len(result.Weaknesses)+len(result.Insights) != 0 {
		t.Fatalf("expected empty lists, got %+v", result)
	}
}

func TestNormalizeRecommendation(t *testing.T) {
	tests := []struct {
		in   string
		want entities.Recommendation
		ok   bool
	}{
		{"Recommendation: hire", entities.RecommendationHire, true},
		{"we should not hire this candidate", entities.RecommendationNoHire, true},
		{"strong no-hire", entities.RecommendationNoHire, true},
		{"maybe, needs another round", entities.RecommendationMaybe, true},
		{"lunch break", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeRecommendation(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("normalizeRecommendation(%q) = (%s, %v), want (%s, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
