package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
	"github.com/voxhire/interview-engine/pkg/config"
)

const narrativeFallback = "The closing narrative could not be generated. Numeric scores were computed from the recorded answers and are reliable."

// SessionInfo describes a created or resumed session
type SessionInfo struct {
	SessionID         uuid.UUID
	EstimatedDuration int // minutes
	State             entities.SessionState
	Resumed           bool
}

// QuestionOut is one outbound question or follow-up turn
type QuestionOut struct {
	ID         string
	Text       string
	AudioRef   string
	Type       string
	Order      int
	IsFollowUp bool
}

// StartResult is the outcome of starting a session
type StartResult struct {
	Opening         string
	OpeningAudioRef string
	Question        *QuestionOut
	Progress        entities.Progress
}

// TurnResult is the outcome of processing one candidate answer
type TurnResult struct {
	Score        int
	Evaluation   string
	Transition   string
	NextQuestion *QuestionOut
	IsComplete   bool
	Progress     entities.Progress
}

// Orchestrator is the top-level interview state machine. It consumes
// candidate input, drives ConversationState transitions, and emits outbound
// events to live participants via the SessionRegistry.
//
// Turns are transactional: collaborator calls happen first and session state
// mutates only after every call for the turn has succeeded, so a failed turn
// leaves the session exactly as it was and the caller may safely retry.
type Orchestrator struct {
	interviews repositories.InterviewRepository
	templates  repositories.TemplateRepository
	summaries  repositories.SummaryRepository

	store    SessionStore
	registry *SessionRegistry

	chat      ChatCollaborator
	evaluator Evaluator
	synth     Synthesizer
	parser    *Parser

	cfg    config.SessionConfig
	logger *zap.Logger

	// per-session serialization; no global lock spans sessions
	locks sync.Map

	sweepStop      chan struct{}
	sweepWg        sync.WaitGroup
	sweeperRunning bool
	sweeperMutex   sync.Mutex
}

// NewOrchestrator constructs the interview orchestrator
func NewOrchestrator(
	interviews repositories.InterviewRepository,
	templates repositories.TemplateRepository,
	summaries repositories.SummaryRepository,
	store SessionStore,
	registry *SessionRegistry,
	chat ChatCollaborator,
	evaluator Evaluator,
	synth Synthesizer,
	cfg config.SessionConfig,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		interviews: interviews,
		templates:  templates,
		summaries:  summaries,
		store:      store,
		registry:   registry,
		chat:       chat,
		evaluator:  evaluator,
		synth:      synth,
		parser:     NewParser(),
		cfg:        cfg,
		logger:     logger,
	}
}

// lockSession serializes all processing for one session. Two inbound events
// for the same session never interleave; different sessions run in parallel.
func (o *Orchestrator) lockSession(sessionID uuid.UUID) func() {
	v, _ := o.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Join creates session state for a joinable interview, or returns the
// existing live session so a reconnecting candidate resumes at the stored
// cursor with nothing lost.
func (o *Orchestrator) Join(ctx context.Context, interviewID uuid.UUID) (*SessionInfo, error) {
	interview, err := o.interviews.FindByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return nil, uerrors.ErrInterviewNotFound
	}

	template := interview.Template
	if template == nil {
		template, err = o.templates.FindByID(ctx, interview.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
	}

	if existing, ok := o.store.FindByInterview(interviewID); ok && existing.State != entities.SessionStateComplete {
		return &SessionInfo{
			SessionID:         existing.SessionID,
			EstimatedDuration: template.EstimatedDuration,
			State:             existing.State,
			Resumed:           existing.State != entities.SessionStateCreated,
		}, nil
	}

	if !interview.IsJoinable() {
		return nil, fmt.Errorf("%w: interview %s is %s", uerrors.ErrInvalidState, interview.ID, interview.Status)
	}

	plan, err := entities.NewQuestionPlan(template)
	if err != nil {
		if err == entities.ErrEmptyPlan {
			return nil, fmt.Errorf("%w: template %s", uerrors.ErrPlanEmpty, template.ID)
		}
		return nil, fmt.Errorf("failed to build question plan: %w", err)
	}

	state := entities.NewConversationState(interview.ID, plan)
	state.CandidateName = interview.CandidateName
	state.Position = template.Position
	o.store.Put(state)

	if interview.Status == entities.InterviewStatusOngoing {
		if err := o.interviews.MarkStarted(ctx, interview.ID); err != nil && o.logger != nil {
			o.logger.Warn("failed to mark interview started",
				zap.String("interview_id", interview.ID.String()),
				zap.Error(err),
			)
		}
	}

	if o.logger != nil {
		o.logger.Info("session created",
			zap.String("session_id", state.SessionID.String()),
			zap.String("interview_id", interview.ID.String()),
			zap.Int("total_questions", plan.TotalQuestions()),
		)
	}

	return &SessionInfo{
		SessionID:         state.SessionID,
		EstimatedDuration: template.EstimatedDuration,
		State:             state.State,
	}, nil
}

// Start activates a created session: generates the opening message and the
// first question, synthesizes their audio, and emits both to the candidate.
func (o *Orchestrator) Start(ctx context.Context, sessionID uuid.UUID) (*StartResult, error) {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok {
		return nil, uerrors.ErrSessionNotFound
	}
	if state.State != entities.SessionStateCreated {
		return nil, fmt.Errorf("%w: session is %s, expected %s", uerrors.ErrInvalidState, state.State, entities.SessionStateCreated)
	}

	_, question, ok := state.CurrentQuestion()
	if !ok {
		return nil, fmt.Errorf("%w: session %s", uerrors.ErrPlanEmpty, sessionID)
	}

	opening, err := o.chat.Complete(ctx, openingPrompt(state.CandidateName, state.Position))
	if err != nil {
		return nil, err
	}
	questionText, err := o.chat.Complete(ctx, questionPrompt(question, state.Position))
	if err != nil {
		return nil, err
	}
	openingAudio, err := o.synth.Synthesize(ctx, sessionID, opening)
	if err != nil {
		return nil, err
	}
	questionAudio, err := o.synth.Synthesize(ctx, sessionID, questionText)
	if err != nil {
		return nil, err
	}

	// all collaborator calls succeeded, commit the turn
	state.State = entities.SessionStateActive
	state.AppendTranscript(entities.SpeakerInterviewer, opening)
	state.AppendTranscript(entities.SpeakerInterviewer, questionText)
	state.LastQuestionText = questionText

	result := &StartResult{
		Opening:         opening,
		OpeningAudioRef: openingAudio,
		Question: &QuestionOut{
			ID:       question.ID,
			Text:     questionText,
			AudioRef: questionAudio,
			Type:     string(question.Type),
			Order:    1,
		},
		Progress: state.CurrentProgress(),
	}

	o.registry.SendToCandidate(state.InterviewID, NewEvent(EventMessage, MessagePayload{
		Text:     opening,
		AudioRef: openingAudio,
	}))
	o.emitQuestion(state.InterviewID, result.Question)
	o.registry.BroadcastObservers(state.InterviewID, NewEvent(EventProgressUpdate, ProgressUpdatePayload{
		Progress: result.Progress,
	}))

	return result, nil
}

// ProcessResponse handles one candidate answer: evaluate, decide follow-up
// vs advance, and emit the next turn. The next question is emitted to the
// candidate before observers receive the progress update.
func (o *Orchestrator) ProcessResponse(ctx context.Context, sessionID uuid.UUID, answerText string) (*TurnResult, error) {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok {
		return nil, uerrors.ErrSessionNotFound
	}
	switch state.State {
	case entities.SessionStateComplete:
		return nil, uerrors.ErrSessionComplete
	case entities.SessionStateCreated:
		return nil, fmt.Errorf("%w: session not started", uerrors.ErrInvalidState)
	}

	assessment, question, ok := state.CurrentQuestion()
	if !ok {
		// cursor past the end; the session should already be complete
		return &TurnResult{IsComplete: true, Progress: state.CurrentProgress()}, nil
	}

	followUpsAsked := 0
	if prev, exists := state.Responses[question.ID]; exists {
		followUpsAsked = prev.FollowUpsAsked
	}

	eval, err := o.evaluator.Evaluate(ctx, question, answerText)
	if err != nil {
		return nil, err
	}

	if NeedsFollowUp(eval, followUpsAsked, answerText) {
		return o.followUpTurn(ctx, state, question, answerText, eval, followUpsAsked)
	}
	return o.advanceTurn(ctx, state, assessment, question, answerText, eval, followUpsAsked)
}

// followUpTurn re-asks the current question. The cursor does not move and
// the recorded response stays non-final.
func (o *Orchestrator) followUpTurn(
	ctx context.Context,
	state *entities.ConversationState,
	question entities.PlanQuestion,
	answerText string,
	eval *entities.Evaluation,
	followUpsAsked int,
) (*TurnResult, error) {
	followText, err := o.chat.Complete(ctx, followUpPrompt(question, answerText))
	if err != nil {
		return nil, err
	}
	audioRef, err := o.synth.Synthesize(ctx, state.SessionID, followText)
	if err != nil {
		return nil, err
	}

	// commit
	state.AppendTranscript(entities.SpeakerCandidate, answerText)
	state.Responses[question.ID] = &entities.QuestionResponse{
		QuestionID:     question.ID,
		Text:           answerText,
		Score:          eval.Score,
		FollowUpsAsked: followUpsAsked + 1,
		Strengths:      eval.Strengths,
		Weaknesses:     eval.Weaknesses,
		Summary:        eval.Summary,
	}
	state.AppendTranscript(entities.SpeakerInterviewer, followText)
	state.LastQuestionText = followText

	result := &TurnResult{
		Score:      eval.Score,
		Evaluation: eval.Summary,
		NextQuestion: &QuestionOut{
			ID:         question.ID,
			Text:       followText,
			AudioRef:   audioRef,
			Type:       string(question.Type),
			Order:      state.Plan.QuestionNumber(state.AssessmentIndex, state.QuestionIndex),
			IsFollowUp: true,
		},
		Progress: state.CurrentProgress(),
	}

	o.emitQuestion(state.InterviewID, result.NextQuestion)
	o.registry.BroadcastObservers(state.InterviewID, NewEvent(EventProgressUpdate, ProgressUpdatePayload{
		Progress:   result.Progress,
		Score:      eval.Score,
		Evaluation: eval.Summary,
	}))
	return result, nil
}

// advanceTurn finalizes the current question's response and moves the
// cursor, crossing assessment boundaries with a spoken transition line.
func (o *Orchestrator) advanceTurn(
	ctx context.Context,
	state *entities.ConversationState,
	assessment entities.PlanAssessment,
	question entities.PlanQuestion,
	answerText string,
	eval *entities.Evaluation,
	followUpsAsked int,
) (*TurnResult, error) {
	nextA, nextQ, crossed, done := state.Plan.NextCursor(state.AssessmentIndex, state.QuestionIndex)

	transition := ""
	var nextOut *QuestionOut
	if !done {
		if crossed {
			var err error
			transition, err = o.chat.Complete(ctx, transitionPrompt(assessment.Name, state.Plan.Assessments[nextA].Name))
			if err != nil {
				return nil, err
			}
		}

		_, nextQuestion, _ := state.Plan.QuestionAt(nextA, nextQ)
		questionText, err := o.chat.Complete(ctx, questionPrompt(nextQuestion, state.Position))
		if err != nil {
			return nil, err
		}
		spoken := strings.TrimSpace(strings.TrimSpace(transition) + " " + questionText)
		audioRef, err := o.synth.Synthesize(ctx, state.SessionID, spoken)
		if err != nil {
			return nil, err
		}

		nextOut = &QuestionOut{
			ID:       nextQuestion.ID,
			Text:     questionText,
			AudioRef: audioRef,
			Type:     string(nextQuestion.Type),
			Order:    state.Plan.QuestionNumber(nextA, nextQ),
		}
	}

	// commit
	state.AppendTranscript(entities.SpeakerCandidate, answerText)
	state.Responses[question.ID] = &entities.QuestionResponse{
		QuestionID:     question.ID,
		Text:           answerText,
		Score:          eval.Score,
		FollowUpsAsked: followUpsAsked,
		Strengths:      eval.Strengths,
		Weaknesses:     eval.Weaknesses,
		Summary:        eval.Summary,
		Final:          true,
	}
	state.AssessmentIndex, state.QuestionIndex = nextA, nextQ
	if done {
		state.State = entities.SessionStateComplete
	} else {
		if transition != "" {
			state.AppendTranscript(entities.SpeakerInterviewer, transition)
		}
		state.AppendTranscript(entities.SpeakerInterviewer, nextOut.Text)
		state.LastQuestionText = nextOut.Text
	}

	result := &TurnResult{
		Score:        eval.Score,
		Evaluation:   eval.Summary,
		Transition:   transition,
		NextQuestion: nextOut,
		IsComplete:   done,
		Progress:     state.CurrentProgress(),
	}

	if !done {
		o.emitQuestion(state.InterviewID, nextOut)
		o.registry.BroadcastObservers(state.InterviewID, NewEvent(EventProgressUpdate, ProgressUpdatePayload{
			Progress:   result.Progress,
			Score:      eval.Score,
			Evaluation: eval.Summary,
		}))
	}
	return result, nil
}

// Complete finishes a session and produces the FinalSummary. Idempotent:
// a second call returns the stored summary without recomputation. A chat
// failure during narrative generation never blocks completion; the summary
// falls back to default text with a "maybe" recommendation since the
// numeric scores are computed locally.
func (o *Orchestrator) Complete(ctx context.Context, sessionID uuid.UUID) (*entities.FinalSummary, error) {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok {
		return nil, uerrors.ErrSessionNotFound
	}

	if stored, err := o.summaries.FindByInterviewID(ctx, state.InterviewID); err == nil && stored != nil {
		return stored, nil
	}

	overall, breakdown := OverallScore(state.Plan, state.Responses)
	trust := TrustScore(state.ProctorEvents)

	narrative := narrativeFallback
	assessment := entities.NarrativeAssessment{
		Strengths:      []string{},
		Weaknesses:     []string{},
		Insights:       []string{},
		Recommendation: entities.RecommendationMaybe,
	}
	if raw, err := o.chat.Complete(ctx, narrativePrompt(state.Position, state)); err == nil {
		narrative = raw
		assessment = o.parser.ParseNarrative(raw)
	} else if o.logger != nil {
		o.logger.Warn("narrative generation failed, using fallback",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}

	summary := entities.NewFinalSummary(state.InterviewID, overall, breakdown, trust, narrative, assessment, state.Transcript)
	if err := o.summaries.Save(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to persist final summary: %w", err)
	}

	if err := o.interviews.MarkCompleted(ctx, state.InterviewID); err != nil && o.logger != nil {
		o.logger.Warn("failed to mark interview completed",
			zap.String("interview_id", state.InterviewID.String()),
			zap.Error(err),
		)
	}

	// release per-turn resources; the slim state stays until swept so a
	// repeated complete call resolves to the stored summary
	state.State = entities.SessionStateComplete
	state.Transcript = nil
	state.ProctorEvents = nil

	o.registry.SendToCandidate(state.InterviewID, NewEvent(EventInterviewComplete, CompletePayload{Summary: summary}))
	o.registry.BroadcastObservers(state.InterviewID, NewEvent(EventInterviewCompleted, CompletePayload{Summary: summary}))

	if o.logger != nil {
		o.logger.Info("interview completed",
			zap.String("interview_id", state.InterviewID.String()),
			zap.Int("overall_score", overall),
			zap.Int("trust_score", trust),
			zap.String("recommendation", string(summary.Recommendation)),
		)
	}
	return summary, nil
}

// Cancel discards a session outright. Terminal: no resume is possible.
func (o *Orchestrator) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok {
		return uerrors.ErrSessionNotFound
	}

	o.store.Delete(sessionID)
	if err := o.interviews.UpdateStatus(ctx, state.InterviewID, entities.InterviewStatusCancelled); err != nil && o.logger != nil {
		o.logger.Warn("failed to mark interview cancelled",
			zap.String("interview_id", state.InterviewID.String()),
			zap.Error(err),
		)
	}

	o.registry.Broadcast(state.InterviewID, NewEvent(EventInterviewInterrupted, InterruptedPayload{Reason: "cancelled"}))
	o.registry.Drop(state.InterviewID)
	o.locks.Delete(sessionID)
	return nil
}

// Interrupt pauses an active session after a candidate disconnect.
// ConversationState is retained so a reconnect resumes at the stored cursor.
func (o *Orchestrator) Interrupt(sessionID uuid.UUID, reason string) {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok || state.State != entities.SessionStateActive {
		return
	}

	state.State = entities.SessionStateInterrupted
	o.registry.BroadcastObservers(state.InterviewID, NewEvent(EventInterviewInterrupted, InterruptedPayload{Reason: reason}))

	if o.logger != nil {
		o.logger.Info("session interrupted",
			zap.String("session_id", sessionID.String()),
			zap.String("reason", reason),
		)
	}
}

// Resume reactivates an interrupted session and re-emits the current
// question so the reconnected candidate knows where the interview stands.
func (o *Orchestrator) Resume(ctx context.Context, sessionID uuid.UUID) (*TurnResult, error) {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok {
		return nil, uerrors.ErrSessionNotFound
	}
	if state.State == entities.SessionStateComplete {
		return nil, uerrors.ErrSessionComplete
	}

	_, question, ok := state.CurrentQuestion()
	if !ok {
		return &TurnResult{IsComplete: true, Progress: state.CurrentProgress()}, nil
	}

	// replay the exact phrasing the candidate already heard, not the raw
	// template text
	spoken := state.LastQuestionText
	if spoken == "" {
		spoken = question.Text
	}
	audioRef, err := o.synth.Synthesize(ctx, sessionID, spoken)
	if err != nil {
		return nil, err
	}

	state.State = entities.SessionStateActive

	result := &TurnResult{
		NextQuestion: &QuestionOut{
			ID:       question.ID,
			Text:     spoken,
			AudioRef: audioRef,
			Type:     string(question.Type),
			Order:    state.Plan.QuestionNumber(state.AssessmentIndex, state.QuestionIndex),
		},
		Progress: state.CurrentProgress(),
	}

	o.emitQuestion(state.InterviewID, result.NextQuestion)
	return result, nil
}

// RecordProctorEvent appends one anomaly event and recomputes the trust
// score from the full log. High-severity events additionally alert
// observers.
func (o *Orchestrator) RecordProctorEvent(sessionID uuid.UUID, kind entities.ProctorEventKind, severity entities.ProctorSeverity, faceCount int) (int, error) {
	defer o.lockSession(sessionID)()

	state, ok := o.store.Get(sessionID)
	if !ok {
		return 0, uerrors.ErrSessionNotFound
	}
	if state.State == entities.SessionStateComplete {
		return state.TrustScore, nil
	}

	state.ProctorEvents = append(state.ProctorEvents, entities.ProctorEvent{
		Kind:      kind,
		Severity:  severity,
		FaceCount: faceCount,
		Timestamp: time.Now(),
	})
	state.TrustScore = TrustScore(state.ProctorEvents)

	o.registry.Broadcast(state.InterviewID, NewEvent(EventTrustScoreUpdate, TrustScorePayload{TrustScore: state.TrustScore}))
	if severity == entities.ProctorSeverityHigh {
		o.registry.BroadcastObservers(state.InterviewID, NewEvent(EventProctorAlert, ProctorAlertPayload{
			Kind:     kind,
			Severity: severity,
		}))
	}
	return state.TrustScore, nil
}

// Session returns the live session attached to an interview, if any
func (o *Orchestrator) Session(interviewID uuid.UUID) (*entities.ConversationState, bool) {
	return o.store.FindByInterview(interviewID)
}

func (o *Orchestrator) emitQuestion(interviewID uuid.UUID, q *QuestionOut) {
	o.registry.SendToCandidate(interviewID, NewEvent(EventQuestion, QuestionPayload{
		ID:         q.ID,
		Text:       q.Text,
		AudioRef:   q.AudioRef,
		Type:       q.Type,
		Order:      q.Order,
		IsFollowUp: q.IsFollowUp,
	}))
}

// StartSweeper launches the hourly session sweeper
func (o *Orchestrator) StartSweeper() error {
	o.sweeperMutex.Lock()
	defer o.sweeperMutex.Unlock()

	if o.sweeperRunning {
		return fmt.Errorf("sweeper already running")
	}
	o.sweeperRunning = true
	o.sweepStop = make(chan struct{})

	o.sweepWg.Add(1)
	go o.sweepLoop()
	return nil
}

// StopSweeper stops the session sweeper
func (o *Orchestrator) StopSweeper() error {
	o.sweeperMutex.Lock()
	defer o.sweeperMutex.Unlock()

	if !o.sweeperRunning {
		return fmt.Errorf("sweeper not running")
	}
	close(o.sweepStop)
	o.sweepWg.Wait()
	o.sweeperRunning = false
	return nil
}

// sweepLoop removes sessions older than the TTL regardless of completion
// state, bounding memory against leaked sessions.
func (o *Orchestrator) sweepLoop() {
	defer o.sweepWg.Done()

	ticker := time.NewTicker(o.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.sweepStop:
			return
		case <-ticker.C:
			removed := o.store.Sweep(o.cfg.TTL)
			for _, state := range removed {
				o.registry.Drop(state.InterviewID)
				o.locks.Delete(state.SessionID)
			}
			if len(removed) > 0 && o.logger != nil {
				o.logger.Info("swept expired sessions",
					zap.Int("count", len(removed)),
				)
			}
		}
	}
}
