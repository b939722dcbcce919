package assessment

import (
	"errors"
	"fmt"
	"time"

	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/model"
)

var (
	ErrInvalidStage      = errors.New("invalid stage")
	ErrStageLocked       = errors.New("stage is locked")
	ErrQuestionHidden    = errors.New("question is not visible")
	ErrStageNotCompleted = errors.New("stage has not been completed")
)

// Session drives one user's AssessmentData against a catalog.
// It is not safe for concurrent use.
type Session struct {
	data    *model.AssessmentData
	catalog *catalog.Catalog
	policy  Policy
	now     func() time.Time
}

// NewSession wraps data, which must not be nil
func NewSession(data *model.AssessmentData, cat *catalog.Catalog, policy Policy) *Session {
	return &Session{
		data:    data,
		catalog: cat,
		policy:  policy,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Data returns the wrapped state
func (s *Session) Data() *model.AssessmentData {
	return s.data
}

func (s *Session) touch() {
	s.data.UpdatedAt = s.now().UTC()
}

// View renders a stage for the session's user
func (s *Session) View(stage model.Stage) (*model.StageView, error) {
	if !stage.Valid() {
		return nil, ErrInvalidStage
	}
	questions := s.catalog.Questions(stage)
	prior := s.data.PriorAnswers(stage)
	answers := s.data.Answers(stage)

	visible := ResolveVisibleQuestions(questions, s.data.Role, prior, answers)
	res := Evaluate(stage, questions, s.data.Role, prior, answers, s.policy)

	view := &model.StageView{
		Stage:      stage,
		Locked:     !s.data.Unlocked(stage),
		Empty:      res.Empty,
		Questions:  make([]model.VisibleQuestion, 0, len(visible)),
		Answered:   res.Answered,
		Total:      res.Total,
		Score:      res.Score,
		MaxScore:   res.MaxScore,
		Percentage: res.Percentage,
	}
	if def, ok := s.catalog.Stage(stage); ok {
		view.Title = def.Title
	}

	for _, q := range visible {
		vq := model.VisibleQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Criteria: q.Criteria,
			Options:  q.Options,
		}
		if a, ok := FindAnswer(answers, q.ID); ok {
			a = PruneSubAnswers(q, a)
			vq.Answer = &a
			vq.SubQuestions = ResolveVisibleSubQuestions(q, a.Value)
		}
		view.Questions = append(view.Questions, vq)
	}
	return view, nil
}

// Answer records a response to one question of stage and drops every later
// answer that the change made invisible.
func (s *Session) Answer(stage model.Stage, in model.AnswerInput) (*model.StageView, error) {
	if err := s.checkWritable(stage); err != nil {
		return nil, err
	}
	q, err := s.question(stage, in.QuestionID)
	if err != nil {
		return nil, err
	}

	prior := s.data.PriorAnswers(stage)
	current := s.data.Answers(stage)
	if !RuleFor(*q).Holds(Env{Role: s.data.Role, Answers: IndexAnswers(prior, current)}) {
		return nil, fmt.Errorf("%w: %s", ErrQuestionHidden, q.ID)
	}

	a, err := BuildAnswer(*q, in.Value, in.SubAnswers)
	if err != nil {
		return nil, err
	}
	s.data.SetAnswers(stage, ApplyAnswer(current, a, q))
	s.reconcileFrom(stage)
	s.touch()
	return s.View(stage)
}

// SetStageAnswers replaces every answer of stage. Inputs are applied in
// order; later inputs for the same question win and answers left hidden by
// the final state are dropped.
func (s *Session) SetStageAnswers(stage model.Stage, inputs []model.AnswerInput) (*model.StageView, error) {
	if err := s.checkWritable(stage); err != nil {
		return nil, err
	}
	answers := []model.Answer{}
	for _, in := range inputs {
		q, err := s.question(stage, in.QuestionID)
		if err != nil {
			return nil, err
		}
		a, err := BuildAnswer(*q, in.Value, in.SubAnswers)
		if err != nil {
			return nil, err
		}
		answers = ApplyAnswer(answers, a, q)
	}
	s.data.SetAnswers(stage, answers)
	s.reconcileFrom(stage)
	s.touch()
	return s.View(stage)
}

// Result scores stage without changing any state
func (s *Session) Result(stage model.Stage) (model.StageResult, error) {
	if !stage.Valid() {
		return model.StageResult{}, ErrInvalidStage
	}
	return Evaluate(stage, s.catalog.Questions(stage), s.data.Role,
		s.data.PriorAnswers(stage), s.data.Answers(stage), s.policy), nil
}

// CompleteStage scores stage and, when it passes and is the stage the user
// is on, moves CurrentStage forward. Completing an earlier stage again never
// moves the pointer back.
func (s *Session) CompleteStage(stage model.Stage) (model.StageResult, error) {
	if !stage.Valid() {
		return model.StageResult{}, ErrInvalidStage
	}
	if !s.data.Unlocked(stage) {
		return model.StageResult{}, fmt.Errorf("%w: %s", ErrStageLocked, stage)
	}
	res, _ := s.Result(stage)
	s.data.MarkCompleted(stage)
	if res.Eligible && stage == s.data.CurrentStage {
		s.data.CurrentStage = stage.Next()
	}
	s.touch()
	return res, nil
}

// Record builds the persisted shape of stage as it stands
func (s *Session) Record(stage model.Stage) (*model.AssessmentRecord, error) {
	res, err := s.Result(stage)
	if err != nil {
		return nil, err
	}
	prior := s.data.PriorAnswers(stage)
	answers := s.data.Answers(stage)
	visible := ResolveVisibleQuestions(s.catalog.Questions(stage), s.data.Role, prior, answers)
	return BuildRecord(s.data.UserID, s.data.Role, visible, answers, res, s.now().UTC()), nil
}

// Final aggregates the stages the user has reached. Scores and maxima of
// unlocked stages are summed without weighting and the overall tier table
// applies; locked stages are reported but do not count.
func (s *Session) Final() model.FinalResult {
	out := model.FinalResult{
		UserID:      s.data.UserID,
		Role:        s.data.Role,
		Stages:      make([]model.StageResult, 0, len(model.Stages)),
		Completed:   s.data.Completed(),
		GeneratedAt: s.now().UTC(),
	}
	for _, stage := range model.Stages {
		res, _ := s.Result(stage)
		out.Stages = append(out.Stages, res)
		if !s.data.Unlocked(stage) {
			continue
		}
		out.TotalScore += res.Score
		out.MaxScore += res.MaxScore
	}
	out.Percentage = NormalizedPercentage(out.TotalScore, out.MaxScore)
	out.Tier = ClassifyOverall(Percentage(out.TotalScore, out.MaxScore))
	return out
}

// Reset clears every answer and returns the user to stage 1
func (s *Session) Reset() {
	*s.data = *model.NewAssessmentData(s.data.UserID, s.data.Role, s.now().UTC())
}

func (s *Session) checkWritable(stage model.Stage) error {
	if !stage.Valid() {
		return ErrInvalidStage
	}
	if !s.data.Unlocked(stage) {
		return fmt.Errorf("%w: %s", ErrStageLocked, stage)
	}
	return nil
}

func (s *Session) question(stage model.Stage, id string) (*model.Question, error) {
	q, qs, ok := s.catalog.Question(id)
	if !ok || qs != stage {
		return nil, fmt.Errorf("%w: %s in stage %s", ErrUnknownQuestion, id, stage)
	}
	return q, nil
}

// reconcileFrom re-filters stage and every later stage against the answers
// that now precede them
func (s *Session) reconcileFrom(stage model.Stage) {
	for _, st := range model.Stages {
		if st < stage {
			continue
		}
		kept := Reconcile(s.catalog.Questions(st), s.data.Role, s.data.PriorAnswers(st), s.data.Answers(st))
		s.data.SetAnswers(st, kept)
	}
}
