package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/model"
)

// answersFile maps a stage number to the answers given in it, e.g.
// {"1": [{"questionId": "q1", "value": "ya"}]}
type answersFile map[string][]model.AnswerInput

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answers file offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, role, err := stageAndRole(cmd)
		if err != nil {
			return err
		}
		if role == "" {
			return fmt.Errorf("--role is required")
		}
		path, _ := cmd.Flags().GetString("answers")
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read answers: %w", err)
		}
		var file answersFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parse answers: %w", err)
		}
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		data := model.NewAssessmentData("offline", role, time.Now().UTC())
		data.CurrentStage = model.StageMilestoneB
		session := assessment.NewSession(data, cat, assessment.Policy{EligibilityThreshold: threshold})

		keys := make([]string, 0, len(file))
		for k := range file {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			st, err := model.ParseStage(k)
			if err != nil {
				return err
			}
			if _, err := session.SetStageAnswers(st, file[k]); err != nil {
				return fmt.Errorf("stage %s: %w", st, err)
			}
		}

		res, err := session.Result(stage)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	scoreCmd.Flags().Int("stage", 1, "Stage (1-3)")
	scoreCmd.Flags().String("role", "", "Respondent role (petani or manajer)")
	scoreCmd.Flags().String("answers", "", "JSON file of answers keyed by stage")
	scoreCmd.Flags().Float64("threshold", assessment.DefaultEligibilityThreshold, "Eligibility threshold (0-1]")
	scoreCmd.MarkFlagRequired("answers")
}
