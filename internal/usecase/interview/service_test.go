package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
	"github.com/voxhire/interview-engine/pkg/ai"
	"github.com/voxhire/interview-engine/pkg/config"
)

// --- fakes ---

type fakeInterviewRepo struct {
	interview *entities.Interview
	started   bool
	completed bool
	status    entities.InterviewStatus
}

func (f *fakeInterviewRepo) Create(ctx context.Context, i *entities.Interview) error { return nil }

func (f *fakeInterviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Interview, error) {
	if f.interview == nil || f.interview.ID != id {
		return nil, nil
	}
	return f.interview, nil
}

func (f *fakeInterviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.InterviewStatus) error {
	f.status = status
	return nil
}

func (f *fakeInterviewRepo) MarkStarted(ctx context.Context, id uuid.UUID) error {
	f.started = true
	return nil
}

func (f *fakeInterviewRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	f.completed = true
	return nil
}

func (f *fakeInterviewRepo) SetMediaRoom(ctx context.Context, id uuid.UUID, roomName string) error {
	return nil
}

func (f *fakeInterviewRepo) SetRecordingURL(ctx context.Context, id uuid.UUID, recordingURL string) error {
	return nil
}

type fakeTemplateRepo struct {
	template *entities.InterviewTemplate
}

func (f *fakeTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.InterviewTemplate, error) {
	return f.template, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context, limit, offset int) ([]*entities.InterviewTemplate, int64, error) {
	return []*entities.InterviewTemplate{f.template}, 1, nil
}

type fakeSummaryRepo struct {
	saved     *entities.FinalSummary
	saveCalls int
	findCalls int
}

func (f *fakeSummaryRepo) Save(ctx context.Context, s *entities.FinalSummary) error {
	f.saveCalls++
	f.saved = s
	return nil
}

func (f *fakeSummaryRepo) FindByInterviewID(ctx context.Context, interviewID uuid.UUID) (*entities.FinalSummary, error) {
	f.findCalls++
	if f.saved != nil && f.saved.InterviewID == interviewID {
		return f.saved, nil
	}
	return nil, nil
}

type fakeChat struct {
	calls int
	fail  bool
	reply string
}

func (f *fakeChat) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	f.calls++
	if f.fail {
		return "", fmt.Errorf("%w: chat: boom", uerrors.ErrCollaboratorUnavailable)
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return fmt.Sprintf("spoken line %d", f.calls), nil
}

type fakeEvaluator struct {
	evals []*entities.Evaluation
	calls int
	fail  bool
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, q entities.PlanQuestion, answer string) (*entities.Evaluation, error) {
	if f.fail {
		return nil, fmt.Errorf("%w: evaluator: boom", uerrors.ErrCollaboratorUnavailable)
	}
	eval := f.evals[f.calls%len(f.evals)]
	f.calls++
	return eval, nil
}

type fakeSynth struct {
	calls int
	fail  bool
}

func (f *fakeSynth) Synthesize(ctx context.Context, sessionID uuid.UUID, text string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("%w: synthesizer: boom", uerrors.ErrCollaboratorUnavailable)
	}
	f.calls++
	return fmt.Sprintf("audio://%s/%d", sessionID, f.calls), nil
}

func goodEval(score int) *entities.Evaluation {
	return &entities.Evaluation{
		Score:          score,
		Strengths:      []string{"thorough"},
		Weaknesses:     []string{},
		Recommendation: entities.RecommendationHire,
		Summary:        "good answer",
	}
}

// longAnswer clears the short-answer follow-up trigger
var longAnswer = "In my previous role I led the migration of our monolith to services, owning the rollout plan end to end and coordinating three teams over two quarters."

func makeTemplate(t *testing.T, assessments []entities.AssessmentSpec) *entities.InterviewTemplate {
	t.Helper()
	raw, err := json.Marshal(assessments)
	if err != nil {
		t.Fatalf("marshal template: %v", err)
	}
	return &entities.InterviewTemplate{
		ID:                uuid.New(),
		Name:              "Backend Engineer Screen",
		Position:          "Backend Engineer",
		Assessments:       raw,
		EstimatedDuration: 30,
	}
}

func twoAssessmentTemplate(t *testing.T) *entities.InterviewTemplate {
	return makeTemplate(t, []entities.AssessmentSpec{
		{
			ID: "tech", Name: "Technical Skills", Weight: 60,
			Questions: []entities.QuestionSpec{
				{ID: "q1", Text: "Explain how a hash map works.", Type: entities.QuestionTypeTechnical},
				{ID: "q2", Text: "Describe a race condition you debugged.", Type: entities.QuestionTypeTechnical},
			},
		},
		{
			ID: "comm", Name: "Communication", Weight: 40,
			Questions: []entities.QuestionSpec{
				{ID: "q3", Text: "Tell me about a disagreement with a teammate.", Type: entities.QuestionTypeBehavioral},
			},
		},
	})
}

type testEnv struct {
	orch       *Orchestrator
	interviews *fakeInterviewRepo
	summaries  *fakeSummaryRepo
	chat       *fakeChat
	evaluator  *fakeEvaluator
	synth      *fakeSynth
	store      *MemorySessionStore
	interview  *entities.Interview
}

func newTestEnv(t *testing.T, template *entities.InterviewTemplate, evals []*entities.Evaluation) *testEnv {
	t.Helper()

	interview := entities.NewInterview(template.ID, "Dana Rivers", "dana@example.com", nil)
	interview.Template = template

	env := &testEnv{
		interviews: &fakeInterviewRepo{interview: interview},
		summaries:  &fakeSummaryRepo{},
		chat:       &fakeChat{},
		evaluator:  &fakeEvaluator{evals: evals},
		synth:      &fakeSynth{},
		store:      NewMemorySessionStore(),
		interview:  interview,
	}
	env.orch = NewOrchestrator(
		env.interviews,
		&fakeTemplateRepo{template: template},
		env.summaries,
		env.store,
		NewSessionRegistry(nil),
		env.chat,
		env.evaluator,
		env.synth,
		config.SessionConfig{TTL: 24 * time.Hour, SweepInterval: time.Hour},
		nil,
	)
	return env
}

func startSession(t *testing.T, env *testEnv) uuid.UUID {
	t.Helper()

	info, err := env.orch.Join(context.Background(), env.interview.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if _, err := env.orch.Start(context.Background(), info.SessionID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return info.SessionID
}

// --- tests ---

func TestJoinBuildsSession(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})

	info, err := env.orch.Join(context.Background(), env.interview.ID)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if info.State != entities.SessionStateCreated {
		t.Fatalf("state = %s, want created", info.State)
	}
	if info.EstimatedDuration != 30 {
		t.Fatalf("estimated duration = %d, want 30", info.EstimatedDuration)
	}
	if !env.interviews.started {
		t.Fatal("interview not marked started")
	}

	// rejoining resolves to the same session, not a new one
	again, err := env.orch.Join(context.Background(), env.interview.ID)
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if again.SessionID != info.SessionID {
		t.Fatal("rejoin created a new session")
	}
}

func TestJoinRejectsUnknownInterview(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})

	_, err := env.orch.Join(context.Background(), uuid.New())
	if !errors.Is(err, uerrors.ErrInterviewNotFound) {
		t.Fatalf("err = %v, want ErrInterviewNotFound", err)
	}
}

func TestJoinRejectsNonJoinableStatus(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	env.interview.Status = entities.InterviewStatusCompleted

	_, err := env.orch.Join(context.Background(), env.interview.ID)
	if !errors.Is(err, uerrors.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestJoinRejectsEmptyPlan(t *testing.T) {
	template := makeTemplate(t, []entities.AssessmentSpec{
		{ID: "empty", Name: "Empty", Weight: 100, Questions: nil},
	})
	env := newTestEnv(t, template, []*entities.Evaluation{goodEval(80)})

	_, err := env.orch.Join(context.Background(), env.interview.ID)
	if !errors.Is(err, uerrors.ErrPlanEmpty) {
		t.Fatalf("err = %v, want ErrPlanEmpty", err)
	}
}

func TestJoinRejectsUnbalancedWeights(t *testing.T) {
	template := makeTemplate(t, []entities.AssessmentSpec{
		{
			ID: "tech", Name: "Technical Skills", Weight: 60,
			Questions: []entities.QuestionSpec{
				{ID: "q1", Text: "Explain how a hash map works.", Type: entities.QuestionTypeTechnical},
			},
		},
		{
			ID: "comm", Name: "Communication", Weight: 30,
			Questions: []entities.QuestionSpec{
				{ID: "q2", Text: "Tell me about a disagreement with a teammate.", Type: entities.QuestionTypeBehavioral},
			},
		},
	})
	env := newTestEnv(t, template, []*entities.Evaluation{goodEval(80)})

	_, err := env.orch.Join(context.Background(), env.interview.ID)
	if !errors.Is(err, entities.ErrInvalidWeights) {
		t.Fatalf("err = %v, want ErrInvalidWeights", err)
	}
}

func TestStartEmitsOpeningAndFirstQuestion(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})

	info, _ := env.orch.Join(context.Background(), env.interview.ID)
	result, err := env.orch.Start(context.Background(), info.SessionID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if result.Question == nil || result.Question.ID != "q1" {
		t.Fatalf("first question = %+v, want q1", result.Question)
	}
	if result.Question.AudioRef == "" || result.OpeningAudioRef == "" {
		t.Fatal("audio references missing")
	}
	if result.Progress.CurrentQuestion != 1 || result.Progress.TotalQuestions != 3 {
		t.Fatalf("progress = %+v", result.Progress)
	}

	// a second start is invalid
	if _, err := env.orch.Start(context.Background(), info.SessionID); !errors.Is(err, uerrors.ErrInvalidState) {
		t.Fatalf("second start err = %v, want ErrInvalidState", err)
	}
}

func TestProcessResponseAdvancesCursor(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	result, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.IsComplete {
		t.Fatal("unexpected completion after first answer")
	}
	if result.NextQuestion == nil || result.NextQuestion.ID != "q2" {
		t.Fatalf("next question = %+v, want q2", result.NextQuestion)
	}
	if result.Score != 80 {
		t.Fatalf("score = %d, want 80", result.Score)
	}

	state, _ := env.store.Get(sessionID)
	if state.AssessmentIndex != 0 || state.QuestionIndex != 1 {
		t.Fatalf("cursor = (%d,%d), want (0,1)", state.AssessmentIndex, state.QuestionIndex)
	}
	if resp := state.Responses["q1"]; resp == nil || !resp.Final {
		t.Fatal("q1 response not finalized")
	}
}

func TestProcessResponseAssessmentTransition(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	if _, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer); err != nil {
		t.Fatalf("turn 1 failed: %v", err)
	}
	result, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if err != nil {
		t.Fatalf("turn 2 failed: %v", err)
	}
	if result.Transition == "" {
		t.Fatal("expected a transition line when crossing assessments")
	}
	if result.NextQuestion == nil || result.NextQuestion.ID != "q3" {
		t.Fatalf("next question = %+v, want q3", result.NextQuestion)
	}

	state, _ := env.store.Get(sessionID)
	if state.AssessmentIndex != 1 || state.QuestionIndex != 0 {
		t.Fatalf("cursor = (%d,%d), want (1,0)", state.AssessmentIndex, state.QuestionIndex)
	}
}

func TestProcessResponseFollowUpKeepsCursor(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(40), goodEval(90)})
	sessionID := startSession(t, env)

	// score 40 earns a follow-up; cursor must not move
	result, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.NextQuestion == nil || !result.NextQuestion.IsFollowUp {
		t.Fatalf("expected follow-up, got %+v", result.NextQuestion)
	}
	if result.NextQuestion.ID != "q1" {
		t.Fatalf("follow-up targets %s, want q1", result.NextQuestion.ID)
	}

	state, _ := env.store.Get(sessionID)
	if state.AssessmentIndex != 0 || state.QuestionIndex != 0 {
		t.Fatal("cursor moved on follow-up")
	}
	if resp := state.Responses["q1"]; resp.FollowUpsAsked != 1 || resp.Final {
		t.Fatalf("response = %+v, want followUpsAsked=1 non-final", resp)
	}

	// score 90 with followUpsAsked=1 advances
	result, err = env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.NextQuestion == nil || result.NextQuestion.IsFollowUp {
		t.Fatalf("expected advance, got %+v", result.NextQuestion)
	}

	state, _ = env.store.Get(sessionID)
	if resp := state.Responses["q1"]; !resp.Final || resp.Score != 90 || resp.FollowUpsAsked != 1 {
		t.Fatalf("final q1 response = %+v", resp)
	}
}

func TestProcessResponseShortNonASCIIAnswerGetsFollowUp(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	// 30 runes but over 50 bytes; the short-answer rule counts characters
	answer := strings.Repeat("да", 15)

	result, err := env.orch.ProcessResponse(context.Background(), sessionID, answer)
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.NextQuestion == nil || !result.NextQuestion.IsFollowUp {
		t.Fatalf("expected follow-up for short answer, got %+v", result.NextQuestion)
	}
	if result.NextQuestion.ID != "q1" {
		t.Fatalf("follow-up targets %s, want q1", result.NextQuestion.ID)
	}
}

func TestProcessResponseTransactionalOnEvaluatorFailure(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	before, _ := env.store.Get(sessionID)
	cursorA, cursorQ := before.AssessmentIndex, before.QuestionIndex
	transcriptLen := len(before.Transcript)
	responses := make(map[string]entities.QuestionResponse)
	for k, v := range before.Responses {
		responses[k] = *v
	}

	env.evaluator.fail = true
	_, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if !errors.Is(err, uerrors.ErrCollaboratorUnavailable) {
		t.Fatalf("err = %v, want ErrCollaboratorUnavailable", err)
	}

	after, _ := env.store.Get(sessionID)
	if after.AssessmentIndex != cursorA || after.QuestionIndex != cursorQ {
		t.Fatal("cursor mutated by failed turn")
	}
	if len(after.Transcript) != transcriptLen {
		t.Fatal("transcript mutated by failed turn")
	}
	if len(after.Responses) != len(responses) {
		t.Fatal("responses mutated by failed turn")
	}

	// the same action retries cleanly once the collaborator recovers
	env.evaluator.fail = false
	if _, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestProcessResponseTransactionalOnSynthFailure(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	env.synth.fail = true
	if _, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer); err == nil {
		t.Fatal("expected failure")
	}

	state, _ := env.store.Get(sessionID)
	if len(state.Responses) != 0 {
		t.Fatal("response recorded despite synthesis failure")
	}
}

func TestFullInterviewCompletes(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	env.chat.reply = `{"strengths": ["clear"], "weaknesses": [], "insights": [], "recommendation": "hire"}`
	sessionID := startSession(t, env)

	var last *TurnResult
	for i := 0; i < 3; i++ {
		var err error
		last, err = env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
		if err != nil {
			t.Fatalf("turn %d failed: %v", i+1, err)
		}
	}
	if !last.IsComplete {
		t.Fatal("interview did not complete after final answer")
	}
	if last.NextQuestion != nil {
		t.Fatal("completion turn emitted a next question")
	}

	summary, err := env.orch.Complete(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if summary.OverallScore != 80 {
		t.Fatalf("overall = %d, want 80", summary.OverallScore)
	}
	if summary.TrustScore != 100 {
		t.Fatalf("trust = %d, want 100", summary.TrustScore)
	}
	if summary.Recommendation != entities.RecommendationHire {
		t.Fatalf("recommendation = %s, want hire", summary.Recommendation)
	}
	if !env.interviews.completed {
		t.Fatal("interview not marked completed")
	}

	breakdown, err := summary.DecodeBreakdown()
	if err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if breakdown["tech"] != 80 || breakdown["comm"] != 80 {
		t.Fatalf("breakdown = %v", breakdown)
	}
}

func TestCompleteIdempotent(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)
	for i := 0; i < 3; i++ {
		if _, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer); err != nil {
			t.Fatalf("turn failed: %v", err)
		}
	}

	first, err := env.orch.Complete(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	second, err := env.orch.Complete(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("second complete failed: %v", err)
	}

	if env.summaries.saveCalls != 1 {
		t.Fatalf("summary saved %d times, want 1", env.summaries.saveCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated completion returned a different summary")
	}
}

func TestCompleteNarrativeFallback(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)
	for i := 0; i < 3; i++ {
		if _, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer); err != nil {
			t.Fatalf("turn failed: %v", err)
		}
	}

	// a chat outage at completion must not block the summary
	env.chat.fail = true
	summary, err := env.orch.Complete(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if summary.Recommendation != entities.RecommendationMaybe {
		t.Fatalf("recommendation = %s, want maybe fallback", summary.Recommendation)
	}
	if summary.Narrative != narrativeFallback {
		t.Fatalf("narrative = %q, want fallback text", summary.Narrative)
	}
	if summary.OverallScore != 80 {
		t.Fatalf("numeric scores must survive the outage, overall = %d", summary.OverallScore)
	}
}

func TestRespondAfterCompletionRejected(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)
	for i := 0; i < 3; i++ {
		if _, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer); err != nil {
			t.Fatalf("turn failed: %v", err)
		}
	}

	_, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if !errors.Is(err, uerrors.ErrSessionComplete) {
		t.Fatalf("err = %v, want ErrSessionComplete", err)
	}
}

func TestInterruptAndResume(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)
	turn, err := env.orch.ProcessResponse(context.Background(), sessionID, longAnswer)
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	env.orch.Interrupt(sessionID, "candidate disconnected")
	state, _ := env.store.Get(sessionID)
	if state.State != entities.SessionStateInterrupted {
		t.Fatalf("state = %s, want interrupted", state.State)
	}
	beforeTranscript := len(state.Transcript)

	result, err := env.orch.Resume(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if result.NextQuestion == nil || result.NextQuestion.ID != "q2" {
		t.Fatalf("resume question = %+v, want q2 at stored cursor", result.NextQuestion)
	}
	// the candidate hears the same wording again, not the raw template text
	if result.NextQuestion.Text != turn.NextQuestion.Text {
		t.Fatalf("resume replayed %q, originally spoke %q", result.NextQuestion.Text, turn.NextQuestion.Text)
	}

	state, _ = env.store.Get(sessionID)
	if state.State != entities.SessionStateActive {
		t.Fatalf("state = %s, want active", state.State)
	}
	if len(state.Transcript) != beforeTranscript {
		t.Fatal("resume must not lose or grow the transcript")
	}
}

func TestCancelIsTerminal(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	if err := env.orch.Cancel(context.Background(), sessionID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if env.interviews.status != entities.InterviewStatusCancelled {
		t.Fatalf("status = %s, want cancelled", env.interviews.status)
	}
	if _, err := env.orch.Resume(context.Background(), sessionID); !errors.Is(err, uerrors.ErrSessionNotFound) {
		t.Fatalf("resume after cancel err = %v, want ErrSessionNotFound", err)
	}
}

func TestRecordProctorEvent(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})
	sessionID := startSession(t, env)

	if _, err := env.orch.RecordProctorEvent(sessionID, entities.ProctorEventTabSwitch, entities.ProctorSeverityLow, 0); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := env.orch.RecordProctorEvent(sessionID, entities.ProctorEventTabSwitch, entities.ProctorSeverityLow, 0); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	trust, err := env.orch.RecordProctorEvent(sessionID, entities.ProctorEventFullscreenExit, entities.ProctorSeverityHigh, 0)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if trust != 84 {
		t.Fatalf("trust = %d, want 84", trust)
	}
}

func TestProcessResponseUnknownSession(t *testing.T) {
	env := newTestEnv(t, twoAssessmentTemplate(t), []*entities.Evaluation{goodEval(80)})

	_, err := env.orch.ProcessResponse(context.Background(), uuid.New(), longAnswer)
	if !errors.Is(err, uerrors.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}
