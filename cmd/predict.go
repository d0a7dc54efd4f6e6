package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainready/app"
	"github.com/kilianp07/trainready/pkg/export"
)

var predictFormat string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate days to failure from mileage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(predictFormat); err != nil {
			return err
		}
		return withService(func(_ context.Context, svc *app.Service) error {
			preds := svc.Engine.Predict()
			if predictFormat == formatCSV {
				return export.WritePredictionsCSV(cmd.OutOrStdout(), preds)
			}
			return printJSON(cmd.OutOrStdout(), preds)
		})
	},
}

func init() {
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", formatJSON, "output format: json or csv")
	rootCmd.AddCommand(predictCmd)
}
