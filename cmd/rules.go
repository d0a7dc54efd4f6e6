package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainready/app"
	"github.com/kilianp07/trainready/pkg/export"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Evaluate eligibility rules for every vehicle",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(rulesFormat); err != nil {
			return err
		}
		return withService(func(_ context.Context, svc *app.Service) error {
			evals := svc.Engine.Evaluate()
			if rulesFormat == formatCSV {
				return export.WriteEvaluationsCSV(cmd.OutOrStdout(), evals)
			}
			return printJSON(cmd.OutOrStdout(), evals)
		})
	},
}

func init() {
	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", formatJSON, "output format: json or csv")
	rootCmd.AddCommand(rulesCmd)
}
