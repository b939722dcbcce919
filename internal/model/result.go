package model

import "time"

// VisibleQuestion is a question as presented to one user: only the
// sub-questions triggered by the current answer are included.
type VisibleQuestion struct {
	ID           string        `json:"id"`
	Text         string        `json:"text"`
	Criteria     string        `json:"criteria,omitempty"`
	Options      []Option      `json:"options"`
	SubQuestions []SubQuestion `json:"subQuestions,omitempty"`
	Answer       *Answer       `json:"answer,omitempty"`
}

// StageView is everything the UI needs to render one stage
type StageView struct {
	Stage      Stage             `json:"stage"`
	Title      string            `json:"title"`
	Locked     bool              `json:"locked"`
	Empty      bool              `json:"empty"` // no question applies to this role
	Questions  []VisibleQuestion `json:"questions"`
	Answered   int               `json:"answered"`
	Total      int               `json:"total"`
	Score      int               `json:"score"`
	MaxScore   int               `json:"maxScore"`
	Percentage int               `json:"percentage"`
}

// StageResult is the scored outcome of one stage
type StageResult struct {
	Stage      Stage `json:"stage"`
	Score      int   `json:"score"`
	MaxScore   int   `json:"maxScore"`
	Percentage int   `json:"percentage"`
	Tier       Tier  `json:"tier"`
	Eligible   bool  `json:"eligible"`
	Empty      bool  `json:"empty"`
	Answered   int   `json:"answered"`
	Total      int   `json:"total"`
	NextStage  Stage `json:"nextStage,omitempty"`
}

// FinalResult aggregates all stages without weighting
type FinalResult struct {
	UserID      string        `json:"userId"`
	Role        Role          `json:"role"`
	Stages      []StageResult `json:"stages"`
	TotalScore  int           `json:"totalScore"`
	MaxScore    int           `json:"maxScore"`
	Percentage  int           `json:"percentage"`
	Tier        Tier          `json:"tier"`
	Completed   bool          `json:"completed"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Progress is the stored state together with a live score of every stage
type Progress struct {
	Assessment *AssessmentData `json:"assessment"`
	Stages     []StageResult   `json:"stages"`
}
