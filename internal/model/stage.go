package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage is one of the three sequential questionnaire phases.
// StageCompleted marks an assessment whose last stage has been passed.
type Stage int

const (
	StageEligibility Stage = 1 // Kelayakan
	StageMilestoneA  Stage = 2
	StageMilestoneB  Stage = 3
	StageCompleted   Stage = 4
)

const completedLabel = "completed"

// Stages lists the answerable stages in order
var Stages = []Stage{StageEligibility, StageMilestoneA, StageMilestoneB}

// Valid reports whether s is an answerable stage
func (s Stage) Valid() bool {
	return s >= StageEligibility && s <= StageMilestoneB
}

// Next returns the stage that follows s
func (s Stage) Next() Stage {
	if s >= StageMilestoneB {
		return StageCompleted
	}
	return s + 1
}

func (s Stage) String() string {
	if s == StageCompleted {
		return completedLabel
	}
	return strconv.Itoa(int(s))
}

// ParseStage accepts "1", "2", "3" or "completed"
func ParseStage(raw string) (Stage, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, completedLabel) {
		return StageCompleted, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !Stage(n).Valid() {
		return 0, fmt.Errorf("invalid stage %q", raw)
	}
	return Stage(n), nil
}

// MarshalJSON writes answerable stages as numbers and the completed marker as "completed"
func (s Stage) MarshalJSON() ([]byte, error) {
	if s == StageCompleted {
		return []byte(`"` + completedLabel + `"`), nil
	}
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON accepts 1, "1" or "completed"; 0 and null leave the stage unset
func (s *Stage) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "0" || raw == "null" || raw == "" {
		*s = 0
		return nil
	}
	parsed, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
