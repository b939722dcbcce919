package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the question catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the catalog and report every problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "catalog v%d ok: %d questions\n", cat.Version(), cat.Size())
		for _, st := range cat.Stages() {
			fmt.Fprintf(out, "  stage %s %-12s %d questions\n", st.Stage, st.Title, len(st.Questions))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the questions of a stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, role, err := stageAndRole(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, q := range cat.Questions(stage) {
			if role != "" && q.RoleSpecific != "" && q.RoleSpecific != role {
				continue
			}
			var tags []string
			if q.RoleSpecific != "" {
				tags = append(tags, "role="+string(q.RoleSpecific))
			}
			if q.DependsOn != nil {
				tags = append(tags, fmt.Sprintf("if %s=%s", q.DependsOn.QuestionID, q.DependsOn.RequiredValue))
			}
			suffix := ""
			if len(tags) > 0 {
				suffix = " [" + strings.Join(tags, ", ") + "]"
			}
			fmt.Fprintf(out, "%-5s max %d  %s%s\n", q.ID, assessment.QuestionMaxScore(q, ""), q.Text, suffix)
			for _, sub := range q.SubQuestions {
				trigger := sub.TriggerValue
				if trigger == "" {
					trigger = q.TriggerSubQuestions
				}
				fmt.Fprintf(out, "  %-9s when %s: %s\n", sub.ID, trigger, sub.Text)
			}
		}
		return nil
	},
}

func init() {
	catalogShowCmd.Flags().Int("stage", 1, "Stage (1-3)")
	catalogShowCmd.Flags().String("role", "", "Filter by role (petani or manajer)")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}

func stageAndRole(cmd *cobra.Command) (model.Stage, model.Role, error) {
	n, _ := cmd.Flags().GetInt("stage")
	stage := model.Stage(n)
	if !stage.Valid() {
		return 0, "", fmt.Errorf("invalid stage %d", n)
	}
	raw, _ := cmd.Flags().GetString("role")
	role := model.Role(raw)
	if raw != "" && !role.Valid() {
		return 0, "", fmt.Errorf("invalid role %q", raw)
	}
	return stage, role, nil
}
