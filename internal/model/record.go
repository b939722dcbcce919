package model

import "time"

// AnswerEntry is the stored shape of one answered question
type AnswerEntry struct {
	Answer   string `json:"answer" bson:"answer"`
	Score    int    `json:"score" bson:"score"`
	MaxScore int    `json:"max_score" bson:"max_score"`
}

// AssessmentRecord is what gets persisted when a stage is completed.
// Answers is keyed by question or sub-question id.
type AssessmentRecord struct {
	ID          string                 `json:"id" bson:"_id,omitempty"`
	UserID      string                 `json:"userId" bson:"userId"`
	Role        Role                   `json:"role" bson:"role"`
	Stage       Stage                  `json:"stage" bson:"stage"`
	Answers     map[string]AnswerEntry `json:"answers" bson:"answers"`
	TotalScore  int                    `json:"totalScore" bson:"totalScore"`
	MaxScore    int                    `json:"maxScore" bson:"maxScore"`
	Percentage  int                    `json:"percentage" bson:"percentage"`
	Tier        string                 `json:"tier" bson:"tier"`
	Eligible    bool                   `json:"eligible" bson:"eligible"`
	CompletedAt time.Time              `json:"completedAt" bson:"completedAt"`
}
