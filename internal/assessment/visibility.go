// Package assessment is the questionnaire engine: which questions a user sees,
// how answers replace each other, and how stages are scored and classified.
// Everything here is a pure function of its inputs.
package assessment

import "rspo-readiness/internal/model"

// PredicateKind tags a visibility predicate
type PredicateKind string

const (
	PredicateAlways       PredicateKind = "always"
	PredicateRoleEquals   PredicateKind = "role_equals"
	PredicateAnswerEquals PredicateKind = "answer_equals"
)

// Predicate is one visibility condition
type Predicate struct {
	Kind       PredicateKind `json:"kind"`
	Role       model.Role    `json:"role,omitempty"`
	QuestionID string        `json:"questionId,omitempty"`
	Value      string        `json:"value,omitempty"`
}

// Always holds for every user
func Always() Predicate {
	return Predicate{Kind: PredicateAlways}
}

// RoleEquals holds when the respondent has role r
func RoleEquals(r model.Role) Predicate {
	return Predicate{Kind: PredicateRoleEquals, Role: r}
}

// AnswerEquals holds when some recorded answer to questionID has value
func AnswerEquals(questionID, value string) Predicate {
	return Predicate{Kind: PredicateAnswerEquals, QuestionID: questionID, Value: value}
}

// AnswerLookup answers "has questionID been answered with value?"
type AnswerLookup interface {
	Matches(questionID, value string) bool
}

// Env is what predicates are evaluated against
type Env struct {
	Role    model.Role
	Answers AnswerLookup
}

// Holds evaluates p in env
func (p Predicate) Holds(env Env) bool {
	switch p.Kind {
	case PredicateAlways:
		return true
	case PredicateRoleEquals:
		return env.Role == p.Role
	case PredicateAnswerEquals:
		return env.Answers != nil && env.Answers.Matches(p.QuestionID, p.Value)
	}
	return false
}

// Rule is a conjunction of predicates
type Rule []Predicate

// Holds reports whether every predicate holds
func (r Rule) Holds(env Env) bool {
	for _, p := range r {
		if !p.Holds(env) {
			return false
		}
	}
	return true
}

// RuleFor derives the visibility rule of a catalog question
func RuleFor(q model.Question) Rule {
	rule := Rule{Always()}
	if q.RoleSpecific != "" {
		rule = append(rule, RoleEquals(q.RoleSpecific))
	}
	if q.DependsOn != nil {
		rule = append(rule, AnswerEquals(q.DependsOn.QuestionID, q.DependsOn.RequiredValue))
	}
	return rule
}

// AnswerIndex maps a question or sub-question id to every value recorded for it
type AnswerIndex map[string][]string

// IndexAnswers flattens answer lists, sub-answers included, into an index.
// Earlier lists are indexed first.
func IndexAnswers(lists ...[]model.Answer) AnswerIndex {
	ix := make(AnswerIndex)
	for _, list := range lists {
		for _, a := range list {
			ix.add(a)
		}
	}
	return ix
}

func (ix AnswerIndex) add(a model.Answer) {
	ix[a.QuestionID] = append(ix[a.QuestionID], a.Value)
	for _, sub := range a.SubAnswers {
		ix[sub.QuestionID] = append(ix[sub.QuestionID], sub.Value)
	}
}

// Matches implements AnswerLookup
func (ix AnswerIndex) Matches(questionID, value string) bool {
	for _, v := range ix[questionID] {
		if v == value {
			return true
		}
	}
	return false
}

// ResolveVisibleQuestions returns, in catalog order, the questions of a stage
// that apply to role given the prior stages' answers and the stage's own
// in-progress answers.
func ResolveVisibleQuestions(questions []model.Question, role model.Role, prior, current []model.Answer) []model.Question {
	env := Env{Role: role, Answers: IndexAnswers(prior, current)}
	visible := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if RuleFor(q).Holds(env) {
			visible = append(visible, q)
		}
	}
	return visible
}

// IsTriggered reports whether parentValue activates sub
func IsTriggered(q model.Question, sub model.SubQuestion, parentValue string) bool {
	if parentValue == "" {
		return false
	}
	if sub.TriggerValue != "" {
		return sub.TriggerValue == parentValue
	}
	return q.TriggerSubQuestions != "" && q.TriggerSubQuestions == parentValue
}

// ResolveVisibleSubQuestions returns every sub-question of q activated by parentValue
func ResolveVisibleSubQuestions(q model.Question, parentValue string) []model.SubQuestion {
	var visible []model.SubQuestion
	for _, sub := range q.SubQuestions {
		if IsTriggered(q, sub, parentValue) {
			visible = append(visible, sub)
		}
	}
	return visible
}
