package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rspo-readiness/internal/model"
)

func TestResolveVisibleQuestionsByRole(t *testing.T) {
	questions := defaultCatalog(t).Questions(model.StageEligibility)

	petani := ids(ResolveVisibleQuestions(questions, model.RolePetani, nil, nil))
	assert.Len(t, petani, 12)
	assert.NotContains(t, petani, "q11")
	assert.NotContains(t, petani, "q12")

	manajer := ids(ResolveVisibleQuestions(questions, model.RoleManajer, nil, nil))
	assert.Len(t, manajer, 14)
	assert.Contains(t, manajer, "q11")
	assert.Equal(t, "q1", manajer[0], "catalog order is kept")
}

func TestResolveVisibleQuestionsDependsOnPriorStage(t *testing.T) {
	questions := defaultCatalog(t).Questions(model.StageMilestoneA)

	tests := []struct {
		name    string
		prior   []model.Answer
		visible bool
	}{
		{"no prior answer", nil, false},
		{"required value", []model.Answer{ans("q14", "ya", 2)}, true},
		{"other value", []model.Answer{ans("q14", "tidak", 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := ids(ResolveVisibleQuestions(questions, model.RolePetani, tt.prior, nil))
			if tt.visible {
				assert.Contains(t, visible, "q15")
			} else {
				assert.NotContains(t, visible, "q15")
			}
		})
	}
}

func TestResolveVisibleQuestionsDependsOnCurrentStage(t *testing.T) {
	questions := []model.Question{
		{ID: "a1", Options: yn},
		{ID: "a2", Options: yn, DependsOn: &model.Dependency{QuestionID: "a1", RequiredValue: "ya"}},
	}

	assert.Equal(t, []string{"a1"}, ids(ResolveVisibleQuestions(questions, model.RolePetani, nil, nil)))
	assert.Equal(t, []string{"a1", "a2"},
		ids(ResolveVisibleQuestions(questions, model.RolePetani, nil, []model.Answer{ans("a1", "ya", 2)})))
}

func TestResolveVisibleQuestionsMatchesSubAnswers(t *testing.T) {
	questions := []model.Question{
		{ID: "b1", Options: yn, DependsOn: &model.Dependency{QuestionID: "a1_sub1", RequiredValue: "ya"}},
	}
	prior := []model.Answer{ans("a1", "tidak", 0, ans("a1_sub1", "ya", 2))}

	assert.Equal(t, []string{"b1"}, ids(ResolveVisibleQuestions(questions, model.RolePetani, prior, nil)))
}

func TestPredicateHolds(t *testing.T) {
	env := Env{Role: model.RoleManajer, Answers: IndexAnswers([]model.Answer{ans("q1", "ya", 2)})}

	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"always", Always(), true},
		{"role match", RoleEquals(model.RoleManajer), true},
		{"role mismatch", RoleEquals(model.RolePetani), false},
		{"answer match", AnswerEquals("q1", "ya"), true},
		{"answer other value", AnswerEquals("q1", "tidak"), false},
		{"unanswered", AnswerEquals("q2", "ya"), false},
		{"unknown kind", Predicate{Kind: "sometimes"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Holds(env))
		})
	}

	assert.False(t, AnswerEquals("q1", "ya").Holds(Env{}), "no answers recorded")
}

func TestRuleFor(t *testing.T) {
	q := model.Question{
		ID:           "x",
		RoleSpecific: model.RoleManajer,
		DependsOn:    &model.Dependency{QuestionID: "q9", RequiredValue: "ya"},
	}
	rule := RuleFor(q)

	assert.Equal(t, Rule{Always(), RoleEquals(model.RoleManajer), AnswerEquals("q9", "ya")}, rule)
	assert.Equal(t, Rule{Always()}, RuleFor(model.Question{ID: "y"}))
}

func TestIsTriggered(t *testing.T) {
	legacy := model.Question{ID: "p", Options: ynp, TriggerSubQuestions: "tidak"}
	own := model.SubQuestion{ID: "p_sub", TriggerValue: "ya"}
	inherited := model.SubQuestion{ID: "p_sub2"}

	assert.False(t, IsTriggered(legacy, inherited, ""), "unanswered parent")
	assert.True(t, IsTriggered(legacy, inherited, "tidak"))
	assert.False(t, IsTriggered(legacy, inherited, "ya"))
	assert.True(t, IsTriggered(legacy, own, "ya"), "own trigger wins")
	assert.False(t, IsTriggered(legacy, own, "tidak"))
	assert.False(t, IsTriggered(model.Question{ID: "n"}, inherited, "ya"), "no trigger at all")
}

func TestResolveVisibleSubQuestions(t *testing.T) {
	q9 := catalogQuestion(t, "q9")

	tests := []struct {
		value string
		want  []string
	}{
		{"ya", []string{"q9_sub1", "q9_sub2"}},
		{"proses", []string{"q9_sub3"}},
		{"tidak", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var got []string
			for _, sub := range ResolveVisibleSubQuestions(q9, tt.value) {
				got = append(got, sub.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexAnswers(t *testing.T) {
	ix := IndexAnswers(
		[]model.Answer{ans("q7", "tidak", 0, ans("q7_sub1", "ya", 2))},
		[]model.Answer{ans("q14", "ya", 2)},
	)

	assert.True(t, ix.Matches("q7", "tidak"))
	assert.True(t, ix.Matches("q7_sub1", "ya"))
	assert.True(t, ix.Matches("q14", "ya"))
	assert.False(t, ix.Matches("q14", "tidak"))
	assert.False(t, ix.Matches("q1", "ya"))
}
