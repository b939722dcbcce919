package model

// Role is the respondent category that gates role-specific questions
type Role string

const (
	RolePetani  Role = "petani"  // Independent smallholder
	RoleManajer Role = "manajer" // Group manager
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RolePetani || r == RoleManajer
}

// Option is one selectable answer of a question
type Option struct {
	Value string `json:"value" bson:"value" yaml:"value"`
	Label string `json:"label" bson:"label" yaml:"label"`
	Score int    `json:"score" bson:"score" yaml:"score"`
}

// Dependency gates a question on an earlier answer
type Dependency struct {
	QuestionID    string `json:"questionId" bson:"questionId" yaml:"questionId"`
	RequiredValue string `json:"requiredValue" bson:"requiredValue" yaml:"requiredValue"`
}

// SubQuestion is a follow-up shown when the parent answer matches its trigger
type SubQuestion struct {
	ID           string   `json:"id" bson:"id" yaml:"id"`
	Text         string   `json:"text" bson:"text" yaml:"text"`
	Options      []Option `json:"options" bson:"options" yaml:"options"`
	TriggerValue string   `json:"triggerValue,omitempty" bson:"triggerValue,omitempty" yaml:"triggerValue,omitempty"`
}

// Question is a static catalog entry
type Question struct {
	ID                  string        `json:"id" bson:"id" yaml:"id"`
	Text                string        `json:"text" bson:"text" yaml:"text"`
	Criteria            string        `json:"criteria,omitempty" bson:"criteria,omitempty" yaml:"criteria,omitempty"` // e.g. "criteria_4_3"
	Options             []Option      `json:"options" bson:"options" yaml:"options"`
	SubQuestions        []SubQuestion `json:"subQuestions,omitempty" bson:"subQuestions,omitempty" yaml:"subQuestions,omitempty"`
	TriggerSubQuestions string        `json:"triggerSubQuestions,omitempty" bson:"triggerSubQuestions,omitempty" yaml:"triggerSubQuestions,omitempty"` // legacy trigger for sub-questions without their own
	RoleSpecific        Role          `json:"roleSpecific,omitempty" bson:"roleSpecific,omitempty" yaml:"roleSpecific,omitempty"`
	DependsOn           *Dependency   `json:"dependsOn,omitempty" bson:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// Option returns the option with the given value
func (q *Question) Option(value string) (Option, bool) {
	return findOption(q.Options, value)
}

// Option returns the option with the given value
func (s *SubQuestion) Option(value string) (Option, bool) {
	return findOption(s.Options, value)
}

// SubQuestion returns the sub-question with the given id
func (q *Question) SubQuestion(id string) (*SubQuestion, bool) {
	for i := range q.SubQuestions {
		if q.SubQuestions[i].ID == id {
			return &q.SubQuestions[i], true
		}
	}
	return nil, false
}

// MaxOptionScore is the best score any single option of the list awards
func MaxOptionScore(options []Option) int {
	best := 0
	for _, o := range options {
		if o.Score > best {
			best = o.Score
		}
	}
	return best
}

func findOption(options []Option, value string) (Option, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Clone returns a deep copy of q
func (q Question) Clone() Question {
	out := q
	out.Options = append([]Option(nil), q.Options...)
	if q.SubQuestions != nil {
		out.SubQuestions = make([]SubQuestion, len(q.SubQuestions))
		for i, sub := range q.SubQuestions {
			sub.Options = append([]Option(nil), sub.Options...)
			out.SubQuestions[i] = sub
		}
	}
	if q.DependsOn != nil {
		dep := *q.DependsOn
		out.DependsOn = &dep
	}
	return out
}
