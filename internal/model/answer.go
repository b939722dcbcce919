package model

import (
	"math"
	"strconv"
	"strings"
)

// Points is a score value that never fails to decode: missing, non-numeric
// and negative values become 0.
type Points int

// UnmarshalJSON coerces numbers and numeric strings; anything else is 0
func (p *Points) UnmarshalJSON(b []byte) error {
	*p = 0
	raw := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	*p = Points(math.Round(f))
	return nil
}

// Int returns the value as a non-negative int
func (p Points) Int() int {
	if p < 0 {
		return 0
	}
	return int(p)
}

// Answer is one recorded response. At most one Answer per QuestionID exists
// in a stage's answer list.
type Answer struct {
	QuestionID string   `json:"questionId" bson:"questionId"`
	Value      string   `json:"value" bson:"value"`
	Score      Points   `json:"score" bson:"score"`
	SubAnswers []Answer `json:"subAnswers,omitempty" bson:"subAnswers,omitempty"`
}

// Total is the answer's own score plus its sub-answers
func (a Answer) Total() int {
	total := a.Score.Int()
	for _, sub := range a.SubAnswers {
		total += sub.Score.Int()
	}
	return total
}

// SubAnswerInput selects an option of a sub-question
type SubAnswerInput struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// AnswerInput is what a client submits; scores are always resolved from the catalog
type AnswerInput struct {
	QuestionID string           `json:"questionId"`
	Value      string           `json:"value"`
	SubAnswers []SubAnswerInput `json:"subAnswers,omitempty"`
}

// SetStageAnswersRequest replaces a stage's answers in one call
type SetStageAnswersRequest struct {
	Answers []AnswerInput `json:"answers"`
}
