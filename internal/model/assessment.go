package model

import "time"

// AssessmentData is the per-user questionnaire state: one answer list per
// stage and a pointer to the stage the user may work on. CompletedStages
// lists every stage completion was requested for, passed or not.
type AssessmentData struct {
	UserID          string    `json:"userId" bson:"userId"`
	Role            Role      `json:"role" bson:"role"`
	Stage1          []Answer  `json:"stage1" bson:"stage1"`
	Stage2          []Answer  `json:"stage2" bson:"stage2"`
	Stage3          []Answer  `json:"stage3" bson:"stage3"`
	CurrentStage    Stage     `json:"currentStage" bson:"currentStage"`
	CompletedStages []Stage   `json:"completedStages" bson:"completedStages"`
	StartedAt       time.Time `json:"startedAt" bson:"startedAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewAssessmentData creates an empty assessment positioned at stage 1
func NewAssessmentData(userID string, role Role, now time.Time) *AssessmentData {
	return &AssessmentData{
		UserID:          userID,
		Role:            role,
		Stage1:          []Answer{},
		Stage2:          []Answer{},
		Stage3:          []Answer{},
		CurrentStage:    StageEligibility,
		CompletedStages: []Stage{},
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

// Answers returns the answer list of a stage
func (d *AssessmentData) Answers(stage Stage) []Answer {
	switch stage {
	case StageEligibility:
		return d.Stage1
	case StageMilestoneA:
		return d.Stage2
	case StageMilestoneB:
		return d.Stage3
	}
	return nil
}

// SetAnswers replaces the answer list of a stage
func (d *AssessmentData) SetAnswers(stage Stage, answers []Answer) {
	if answers == nil {
		answers = []Answer{}
	}
	switch stage {
	case StageEligibility:
		d.Stage1 = answers
	case StageMilestoneA:
		d.Stage2 = answers
	case StageMilestoneB:
		d.Stage3 = answers
	}
}

// PriorAnswers concatenates the answers of every stage before stage
func (d *AssessmentData) PriorAnswers(stage Stage) []Answer {
	var prior []Answer
	for _, s := range Stages {
		if s >= stage {
			break
		}
		prior = append(prior, d.Answers(s)...)
	}
	return prior
}

// Unlocked reports whether the user may answer stage
func (d *AssessmentData) Unlocked(stage Stage) bool {
	return stage.Valid() && stage <= d.CurrentStage
}

// Completed reports whether every stage has been passed
func (d *AssessmentData) Completed() bool {
	return d.CurrentStage == StageCompleted
}

// MarkCompleted records that stage has been completed at least once
func (d *AssessmentData) MarkCompleted(stage Stage) {
	if !d.HasCompleted(stage) {
		d.CompletedStages = append(d.CompletedStages, stage)
	}
}

// HasCompleted reports whether stage has been completed, passed or not
func (d *AssessmentData) HasCompleted(stage Stage) bool {
	for _, s := range d.CompletedStages {
		if s == stage {
			return true
		}
	}
	return false
}
