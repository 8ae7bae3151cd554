package entities

// QuestionPlan is the immutable, per-session view of a template: ordered
// assessments, each with ordered questions. Derived once at session creation.
type QuestionPlan struct {
	TemplateID  string
	Assessments []PlanAssessment
}

// PlanAssessment is one weighted assessment in the plan
type PlanAssessment struct {
	ID        string
	Name      string
	Weight    int
	Questions []PlanQuestion
}

// PlanQuestion is one question in the plan
type PlanQuestion struct {
	ID               string
	Text             string
	Type             QuestionType
	TimeLimitSeconds int
	ScoringKeyPoints []string
}

// NewQuestionPlan builds a plan from a template. Assessment weights must
// sum to 100. Assessments without questions are dropped; an entirely empty
// plan is an error.
func NewQuestionPlan(tmpl *InterviewTemplate) (*QuestionPlan, error) {
	specs, err := tmpl.DecodeAssessments()
	if err != nil {
		return nil, err
	}

	weightSum := 0
	for _, spec := range specs {
		weightSum += spec.Weight
	}
	if weightSum != 100 {
		return nil, ErrInvalidWeights
	}

	plan := &QuestionPlan{TemplateID: tmpl.ID.String()}
	for _, spec := range specs {
		if len(spec.Questions) == 0 {
			continue
		}
		assessment := PlanAssessment{
			ID:     spec.ID,
			Name:   spec.Name,
			Weight: spec.Weight,
		}
		for _, q := range spec.Questions {
			assessment.Questions = append(assessment.Questions, PlanQuestion{
				ID:               q.ID,
				Text:             q.Text,
				Type:             q.Type,
				TimeLimitSeconds: q.TimeLimitSeconds,
				ScoringKeyPoints: q.ScoringKeyPoints,
			})
		}
		plan.Assessments = append(plan.Assessments, assessment)
	}

	if plan.TotalQuestions() == 0 {
		return nil, ErrEmptyPlan
	}
	return plan, nil
}

// TotalQuestions returns the number of questions across all assessments
func (p *QuestionPlan) TotalQuestions() int {
	total := 0
	for _, a := range p.Assessments {
		total += len(a.Questions)
	}
	return total
}

// QuestionAt returns the question at the (assessment, question) cursor,
// or false if the cursor is past the end of the plan.
func (p *QuestionPlan) QuestionAt(assessmentIdx, questionIdx int) (PlanAssessment, PlanQuestion, bool) {
	if assessmentIdx < 0 || assessmentIdx >= len(p.Assessments) {
		return PlanAssessment{}, PlanQuestion{}, false
	}
	a := p.Assessments[assessmentIdx]
	if questionIdx < 0 || questionIdx >= len(a.Questions) {
		return PlanAssessment{}, PlanQuestion{}, false
	}
	return a, a.Questions[questionIdx], true
}

// NextCursor advances the cursor by one question. crossedAssessment is true
// when the new cursor landed on the first question of a later assessment;
// done is true when the cursor moved past the end of the plan.
func (p *QuestionPlan) NextCursor(assessmentIdx, questionIdx int) (nextA, nextQ int, crossedAssessment, done bool) {
	nextA, nextQ = assessmentIdx, questionIdx+1
	if assessmentIdx >= len(p.Assessments) {
		return assessmentIdx, questionIdx, false, true
	}
	if nextQ >= len(p.Assessments[assessmentIdx].Questions) {
		nextA, nextQ = assessmentIdx+1, 0
		if nextA >= len(p.Assessments) {
			return nextA, nextQ, false, true
		}
		return nextA, nextQ, true, false
	}
	return nextA, nextQ, false, false
}

// QuestionNumber returns the 1-based ordinal of the cursor position across
// the whole plan, for display progress.
func (p *QuestionPlan) QuestionNumber(assessmentIdx, questionIdx int) int {
	n := 0
	for i := 0; i < assessmentIdx && i < len(p.Assessments); i++ {
		n += len(p.Assessments[i].Questions)
	}
	return n + questionIdx + 1
}
