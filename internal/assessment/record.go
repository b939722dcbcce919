package assessment

import (
	"time"

	"rspo-readiness/internal/model"
)

// BuildRecord produces the persisted shape of a completed stage, keyed by
// question and sub-question id.
func BuildRecord(userID string, role model.Role, visible []model.Question, answers []model.Answer, res model.StageResult, completedAt time.Time) *model.AssessmentRecord {
	entries := make(map[string]model.AnswerEntry)
	for _, q := range visible {
		a, ok := FindAnswer(answers, q.ID)
		if !ok {
			continue
		}
		a = PruneSubAnswers(q, a)
		entries[q.ID] = model.AnswerEntry{
			Answer:   a.Value,
			Score:    a.Score.Int(),
			MaxScore: model.MaxOptionScore(q.Options),
		}
		for _, sa := range a.SubAnswers {
			sub, _ := q.SubQuestion(sa.QuestionID)
			entries[sa.QuestionID] = model.AnswerEntry{
				Answer:   sa.Value,
				Score:    sa.Score.Int(),
				MaxScore: model.MaxOptionScore(sub.Options),
			}
		}
	}

	return &model.AssessmentRecord{
		UserID:      userID,
		Role:        role,
		Stage:       res.Stage,
		Answers:     entries,
		TotalScore:  res.Score,
		MaxScore:    res.MaxScore,
		Percentage:  res.Percentage,
		Tier:        res.Tier.Label,
		Eligible:    res.Eligible,
		CompletedAt: completedAt,
	}
}
