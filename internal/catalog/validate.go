package catalog

import (
	"fmt"
	"strings"

	"rspo-readiness/internal/model"
)

// ValidationError lists every problem found in a rejected catalog
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "catalog rejected: " + strings.Join(e.Problems, "; ")
}

type validator struct {
	problems []string
	seen     map[string]string         // id -> where it was first declared
	declared map[string][]model.Option // ids usable as a dependsOn target
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) claim(id, where string) {
	if first, ok := v.seen[id]; ok {
		v.addf("duplicate id %q (%s and %s)", id, first, where)
		return
	}
	v.seen[id] = where
}

func (v *validator) checkOptions(id string, options []model.Option) {
	values := make(map[string]bool, len(options))
	for _, o := range options {
		if values[o.Value] {
			v.addf("%s: duplicate option value %q", id, o.Value)
		}
		values[o.Value] = true
		if o.Score < 0 {
			v.addf("%s: option %q has negative score", id, o.Value)
		}
	}
}

// validate enforces the rules the schema cannot express: id uniqueness,
// resolvable dependencies and reachable sub-question triggers.
func validate(doc document) error {
	v := &validator{
		seen:     make(map[string]string),
		declared: make(map[string][]model.Option),
	}

	for i, st := range doc.Stages {
		if want := model.Stage(i + 1); st.Stage != want {
			v.addf("stages must be listed in order 1, 2, 3 (found stage %d at position %d)", st.Stage, i+1)
		}

		for _, q := range st.Questions {
			where := fmt.Sprintf("stage %d question %s", st.Stage, q.ID)
			v.claim(q.ID, where)
			v.checkOptions(q.ID, q.Options)

			if q.RoleSpecific != "" && !q.RoleSpecific.Valid() {
				v.addf("%s: unknown role %q", q.ID, q.RoleSpecific)
			}
			if dep := q.DependsOn; dep != nil {
				target, ok := v.declared[dep.QuestionID]
				switch {
				case !ok:
					v.addf("%s depends on %s which is not declared before it", q.ID, dep.QuestionID)
				case !hasOption(target, dep.RequiredValue):
					v.addf("%s requires %s=%q which is not one of its options", q.ID, dep.QuestionID, dep.RequiredValue)
				}
			}
			if q.TriggerSubQuestions != "" && !hasOption(q.Options, q.TriggerSubQuestions) {
				v.addf("%s: triggerSubQuestions %q is not one of its options", q.ID, q.TriggerSubQuestions)
			}

			v.declared[q.ID] = q.Options
			for _, sub := range q.SubQuestions {
				v.claim(sub.ID, fmt.Sprintf("stage %d sub-question %s of %s", st.Stage, sub.ID, q.ID))
				v.checkOptions(sub.ID, sub.Options)

				trigger := sub.TriggerValue
				if trigger == "" {
					trigger = q.TriggerSubQuestions
				}
				switch {
				case trigger == "":
					v.addf("sub-question %s has no trigger value", sub.ID)
				case !hasOption(q.Options, trigger):
					v.addf("sub-question %s is triggered by %q which %s does not offer", sub.ID, trigger, q.ID)
				}
				v.declared[sub.ID] = sub.Options
			}
		}
	}

	if len(doc.Stages) != len(model.Stages) {
		v.addf("expected %d stages, found %d", len(model.Stages), len(doc.Stages))
	}

	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

func hasOption(options []model.Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}
