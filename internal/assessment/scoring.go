package assessment

import (
	"math"

	"rspo-readiness/internal/model"
)

// DefaultEligibilityThreshold is the share of the stage maximum needed to move on
const DefaultEligibilityThreshold = 0.5

// Policy holds the tunable scoring parameters
type Policy struct {
	EligibilityThreshold float64
}

// DefaultPolicy returns the standard scoring policy
func DefaultPolicy() Policy {
	return Policy{EligibilityThreshold: DefaultEligibilityThreshold}
}

func (p Policy) threshold() float64 {
	if p.EligibilityThreshold <= 0 || p.EligibilityThreshold > 1 {
		return DefaultEligibilityThreshold
	}
	return p.EligibilityThreshold
}

// StageScore sums every answer's score and its sub-answers' scores
func StageScore(answers []model.Answer) int {
	total := 0
	for _, a := range answers {
		total += a.Total()
	}
	return total
}

// QuestionMaxScore is the best achievable score of q given the branch taken
// by parentValue: its own best option plus the best option of each triggered
// sub-question.
func QuestionMaxScore(q model.Question, parentValue string) int {
	best := model.MaxOptionScore(q.Options)
	for _, sub := range ResolveVisibleSubQuestions(q, parentValue) {
		best += model.MaxOptionScore(sub.Options)
	}
	return best
}

// StageMaxScore is the maximum achievable score of a stage for this user:
// every visible question counts, answered or not, together with the
// sub-questions its recorded answer triggers. Questions hidden by role or by
// an unmet dependency are left out, so a user is never scored against
// questions they cannot be asked.
func StageMaxScore(questions []model.Question, role model.Role, prior, answers []model.Answer) int {
	return maxOf(ResolveVisibleQuestions(questions, role, prior, answers), answers)
}

func maxOf(visible []model.Question, answers []model.Answer) int {
	total := 0
	for _, q := range visible {
		value := ""
		if a, ok := FindAnswer(answers, q.ID); ok {
			value = a.Value
		}
		total += QuestionMaxScore(q, value)
	}
	return total
}

// Percentage is raw/max*100 clamped to [0,100]; 0 when max is not positive
func Percentage(raw, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	pct := float64(raw) / float64(maxScore) * 100
	return math.Min(100, math.Max(0, pct))
}

// NormalizedPercentage is Percentage rounded to the nearest integer
func NormalizedPercentage(raw, maxScore int) int {
	return int(math.Round(Percentage(raw, maxScore)))
}

// IsEligibleForNextStage reports whether raw reaches threshold of maxScore
func IsEligibleForNextStage(raw, maxScore int, threshold float64) bool {
	if maxScore <= 0 {
		return false
	}
	return float64(raw)/float64(maxScore) >= threshold
}

// Evaluate scores one stage. Answers to unknown or hidden questions, and
// sub-answers that are not triggered, are ignored. A stage with no visible
// question is reported as empty and lets the user through.
func Evaluate(stage model.Stage, questions []model.Question, role model.Role, prior, answers []model.Answer, policy Policy) model.StageResult {
	visible := ResolveVisibleQuestions(questions, role, prior, answers)
	scored := scoredAnswers(visible, answers)

	raw := StageScore(scored)
	maxScore := maxOf(visible, answers)
	res := model.StageResult{
		Stage:      stage,
		Score:      raw,
		MaxScore:   maxScore,
		Percentage: NormalizedPercentage(raw, maxScore),
		Answered:   len(scored),
		Total:      len(visible),
	}
	res.Tier = ClassifyStage(Percentage(raw, maxScore))

	if len(visible) == 0 {
		res.Empty = true
		res.Eligible = true
	} else {
		res.Eligible = IsEligibleForNextStage(raw, maxScore, policy.threshold())
	}
	if res.Eligible {
		res.NextStage = stage.Next()
	}
	return res
}

func scoredAnswers(visible []model.Question, answers []model.Answer) []model.Answer {
	out := make([]model.Answer, 0, len(visible))
	for _, q := range visible {
		if a, ok := FindAnswer(answers, q.ID); ok {
			out = append(out, PruneSubAnswers(q, a))
		}
	}
	return out
}
