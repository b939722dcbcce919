package assessment

import (
	"errors"
	"fmt"

	"rspo-readiness/internal/model"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option value")
)

// FindAnswer returns the answer recorded for questionID
func FindAnswer(answers []model.Answer, questionID string) (model.Answer, bool) {
	for i := len(answers) - 1; i >= 0; i-- {
		if answers[i].QuestionID == questionID {
			return answers[i], true
		}
	}
	return model.Answer{}, false
}

// ApplyAnswer replaces any answer to the same question with newAnswer.
// When q is known, sub-answers no longer triggered by the new value are
// dropped. current is left untouched.
func ApplyAnswer(current []model.Answer, newAnswer model.Answer, q *model.Question) []model.Answer {
	if q != nil {
		newAnswer = PruneSubAnswers(*q, newAnswer)
	}
	out := make([]model.Answer, 0, len(current)+1)
	for _, a := range current {
		if a.QuestionID != newAnswer.QuestionID {
			out = append(out, a)
		}
	}
	return append(out, newAnswer)
}

// PruneSubAnswers keeps one sub-answer (the last given) per sub-question
// triggered by a.Value, in catalog order.
func PruneSubAnswers(q model.Question, a model.Answer) model.Answer {
	if len(a.SubAnswers) == 0 {
		a.SubAnswers = nil
		return a
	}
	latest := make(map[string]model.Answer, len(a.SubAnswers))
	for _, sub := range a.SubAnswers {
		latest[sub.QuestionID] = sub
	}
	var kept []model.Answer
	for _, sub := range ResolveVisibleSubQuestions(q, a.Value) {
		if s, ok := latest[sub.ID]; ok {
			kept = append(kept, s)
		}
	}
	a.SubAnswers = kept
	return a
}

// BuildAnswer turns a client selection into an Answer with catalog scores.
// Selections for sub-questions the value does not trigger are discarded.
func BuildAnswer(q model.Question, value string, subs []model.SubAnswerInput) (model.Answer, error) {
	opt, ok := q.Option(value)
	if !ok {
		return model.Answer{}, fmt.Errorf("%w: %q for %s", ErrUnknownOption, value, q.ID)
	}

	a := model.Answer{QuestionID: q.ID, Value: value, Score: model.Points(opt.Score)}
	for _, in := range subs {
		sub, ok := q.SubQuestion(in.QuestionID)
		if !ok {
			return model.Answer{}, fmt.Errorf("%w: %s is not a sub-question of %s", ErrUnknownQuestion, in.QuestionID, q.ID)
		}
		if !IsTriggered(q, *sub, value) {
			continue
		}
		subOpt, ok := sub.Option(in.Value)
		if !ok {
			return model.Answer{}, fmt.Errorf("%w: %q for %s", ErrUnknownOption, in.Value, sub.ID)
		}
		a.SubAnswers = append(a.SubAnswers, model.Answer{
			QuestionID: sub.ID,
			Value:      in.Value,
			Score:      model.Points(subOpt.Score),
		})
	}
	return PruneSubAnswers(q, a), nil
}

// Reconcile drops answers whose question is no longer visible, or unknown,
// after an upstream answer changed. Dependencies only point backwards in the
// catalog, so one ordered pass reaches a fixed point.
func Reconcile(questions []model.Question, role model.Role, prior, answers []model.Answer) []model.Answer {
	last := make(map[string]int, len(answers))
	for i, a := range answers {
		last[a.QuestionID] = i
	}

	ix := IndexAnswers(prior)
	keep := make(map[string]model.Answer, len(answers))
	for _, q := range questions {
		i, ok := last[q.ID]
		if !ok {
			continue
		}
		if !RuleFor(q).Holds(Env{Role: role, Answers: ix}) {
			continue
		}
		a := PruneSubAnswers(q, answers[i])
		keep[q.ID] = a
		ix.add(a)
	}

	out := make([]model.Answer, 0, len(keep))
	for i, a := range answers {
		if k, ok := keep[a.QuestionID]; ok && last[a.QuestionID] == i {
			out = append(out, k)
		}
	}
	return out
}
