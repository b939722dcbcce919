package assessment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/model"
)

var (
	ynp = []model.Option{
		{Value: "ya", Label: "Ya", Score: 2},
		{Value: "proses", Label: "Proses", Score: 1},
		{Value: "tidak", Label: "Tidak", Score: 0},
	}
	yn = []model.Option{
		{Value: "ya", Label: "Ya", Score: 2},
		{Value: "tidak", Label: "Tidak", Score: 0},
	}
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func catalogQuestion(t *testing.T, id string) model.Question {
	t.Helper()
	q, _, ok := defaultCatalog(t).Question(id)
	require.True(t, ok, "question %s", id)
	return *q
}

func ans(id, value string, score int, subs ...model.Answer) model.Answer {
	return model.Answer{QuestionID: id, Value: value, Score: model.Points(score), SubAnswers: subs}
}

func ids(questions []model.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}
