package interview

import (
	"fmt"
	"strings"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/pkg/ai"
)

const interviewerSystemPrompt = `You are a professional, friendly job interviewer conducting a voice interview. Speak naturally, as your words will be read aloud to the candidate. Keep responses short (2-3 sentences), never use markdown or lists, and never mention that you are an AI.`

// openingPrompt asks the chat collaborator for the interview greeting
func openingPrompt(candidateName, position string) []ai.Message {
	return []ai.Message{
		{Role: "system", Content: interviewerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Greet the candidate %s who is interviewing for the %s position. Welcome them warmly, explain that you will ask a series of questions and they should answer out loud, and tell them you are about to begin.",
			candidateName, position)},
	}
}

// questionPrompt asks the chat collaborator to phrase a plan question
// conversationally without changing its substance
func questionPrompt(q entities.PlanQuestion, position string) []ai.Message {
	return []ai.Message{
		{Role: "system", Content: interviewerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Ask the candidate this %s interview question for a %s role, phrased naturally for speech. Keep the meaning of the question intact and do not add extra questions.\n\nQuestion: %s",
			q.Type, position, q.Text)},
	}
}

// followUpPrompt asks for a clarifying re-ask of the same question
func followUpPrompt(q entities.PlanQuestion, answer string) []ai.Message {
	return []ai.Message{
		{Role: "system", Content: interviewerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"The candidate was asked: %q\n\nThey answered: %q\n\nThe answer needs more depth. Ask one short follow-up question probing the same topic for specifics. Do not move on to a new topic.",
			q.Text, answer)},
	}
}

// transitionPrompt asks for a bridge line between two assessments
func transitionPrompt(previous, next string) []ai.Message {
	return []ai.Message{
		{Role: "system", Content: interviewerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"You have finished the %q section of the interview and are moving to the %q section. Say one short transition sentence acknowledging the section change.",
			previous, next)},
	}
}

// evaluationPrompt asks the evaluator for a structured JSON verdict
func evaluationPrompt(q entities.PlanQuestion, answer string) []ai.Message {
	var sb strings.Builder
	sb.WriteString("Evaluate this interview answer.\n\n")
	sb.WriteString(fmt.Sprintf("Question: %s\n", q.Text))
	if len(q.ScoringKeyPoints) > 0 {
		sb.WriteString(fmt.Sprintf("Key points a strong answer covers: %s\n", strings.Join(q.ScoringKeyPoints, "; ")))
	}
	sb.WriteString(fmt.Sprintf("\nAnswer: %s\n\n", answer))
	sb.WriteString(`Respond with ONLY a JSON object, no markdown:
{
  "score": <0-100>,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "recommendation": "hire" | "no-hire" | "maybe",
  "summary": "<one sentence verdict>"
}`)

	return []ai.Message{
		{Role: "system", Content: "You are a strict but fair technical interviewer scoring candidate answers. You respond only with valid JSON."},
		{Role: "user", Content: sb.String()},
	}
}

// narrativePrompt asks for the closing assessment over all evaluations
func narrativePrompt(position string, state *entities.ConversationState) []ai.Message {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The interview for the %s position is complete. Per-question evaluation summaries:\n\n", position))

	for _, a := range state.Plan.Assessments {
		for _, q := range a.Questions {
			resp, ok := state.Responses[q.ID]
			if !ok || !resp.Final {
				continue
			}
			sb.WriteString(fmt.Sprintf("[%s] Q: %s\nScore: %d. %s\n", a.Name, q.Text, resp.Score, resp.Summary))
			if len(resp.Weaknesses) > 0 {
				sb.WriteString(fmt.Sprintf("Weaknesses: %s\n", strings.Join(resp.Weaknesses, "; ")))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(`Write the final candidate assessment. Respond with ONLY a JSON object, no markdown:
{
  "strengths": ["..."],
  "weaknesses": ["..."],
  "insights": ["..."],
  "recommendation": "hire" | "no-hire" | "maybe"
}`)

	return []ai.Message{
		{Role: "system", Content: "You are a hiring committee member summarizing an interview. You respond only with valid JSON."},
		{Role: "user", Content: sb.String()},
	}
}
