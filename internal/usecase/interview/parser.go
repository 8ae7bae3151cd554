package interview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// Parser handles parsing and validation of LLM responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseEvaluation parses the evaluator's JSON verdict on one answer
func (p *Parser) ParseEvaluation(raw string) (*entities.Evaluation, error) {
	raw = extractJSON(raw)

	var eval entities.Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation response: %w", err)
	}

	eval.Score = entities.ClampScore(eval.Score)
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	if eval.Weaknesses == nil {
		eval.Weaknesses = []string{}
	}
	if eval.Recommendation == "" {
		eval.Recommendation = entities.RecommendationMaybe
	}
	return &eval, nil
}

// ParseNarrative parses the closing narrative into structured fields.
// Best-effort: tries JSON first, then falls back to keyword section
// scanning. Never fails; ambiguity yields empty lists and a "maybe"
// recommendation.
func (p *Parser) ParseNarrative(raw string) entities.NarrativeAssessment {
	result := entities.NarrativeAssessment{
		Strengths:      []string{},
		Weaknesses:     []string{},
		Insights:       []string{},
		Recommendation: entities.RecommendationMaybe,
	}

	jsonText := extractJSON(raw)
	var parsed entities.NarrativeAssessment
	if err := json.Unmarshal([]byte(jsonText), &parsed); err == nil {
		if parsed.Strengths != nil {
			result.Strengths = parsed.Strengths
		}
		if parsed.Weaknesses != nil {
			result.Weaknesses = parsed.Weaknesses
		}
		if parsed.Insights != nil {
			result.Insights = parsed.Insights
		}
		if rec, ok := normalizeRecommendation(string(parsed.Recommendation)); ok {
			result.Recommendation = rec
		}
		return result
	}

	// Keyword fallback for free-text narratives. Known-imprecise: a section
	// header buried mid-sentence can misclassify the lines that follow.
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "strength"):
			section = "strengths"
			continue
		case strings.HasPrefix(lower, "weakness"), strings.HasPrefix(lower, "areas for improvement"):
			section = "weaknesses"
			continue
		case strings.HasPrefix(lower, "insight"), strings.HasPrefix(lower, "key observation"):
			section = "insights"
			continue
		case strings.HasPrefix(lower, "recommendation"):
			section = "recommendation"
			if rec, ok := normalizeRecommendation(lower); ok {
				result.Recommendation = rec
			}
			continue
		}

		item := strings.TrimLeft(line, "-*•0123456789. ")
		if item == "" {
			continue
		}

		switch section {
		case "strengths":
			result.Strengths = append(result.Strengths, item)
		case "weaknesses":
			result.Weaknesses = append(result.Weaknesses, item)
		case "insights":
			result.Insights = append(result.Insights, item)
		case "recommendation":
			if rec, ok := normalizeRecommendation(strings.ToLower(item)); ok {
				result.Recommendation = rec
			}
		}
	}

	return result
}

// normalizeRecommendation maps free-text recommendation phrasing to the
// canonical values. "no hire" must be checked before "hire".
func normalizeRecommendation(text string) (entities.Recommendation, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(text, "no-hire"), strings.Contains(text, "no hire"),
		strings.Contains(text, "not hire"), strings.Contains(text, "reject"):
		return entities.RecommendationNoHire, true
	case strings.Contains(text, "hire"):
		return entities.RecommendationHire, true
	case strings.Contains(text, "maybe"), strings.Contains(text, "borderline"),
		strings.Contains(text, "further"):
		return entities.RecommendationMaybe, true
	}
	return "", false
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
