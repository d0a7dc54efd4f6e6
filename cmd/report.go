package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainready/app"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fleet reports",
}

var reportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Eligible versus blocked vehicles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(_ context.Context, svc *app.Service) error {
			return printJSON(cmd.OutOrStdout(), svc.Engine.StatusReport())
		})
	},
}

var reportAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Alert reasons by frequency",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(_ context.Context, svc *app.Service) error {
			return printJSON(cmd.OutOrStdout(), svc.Engine.AlertReport())
		})
	},
}

var whatIfOpts struct {
	k              int
	brandingWeight float64
	stablingWeight float64
}

var reportWhatIfCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Compare baseline and what-if selections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(_ context.Context, svc *app.Service) error {
			k, w, err := selection(cmd, svc.Config().Ranking, whatIfOpts.k, whatIfOpts.brandingWeight, whatIfOpts.stablingWeight)
			if err != nil {
				return err
			}
			rep, err := svc.Engine.WhatIfReport(k, w)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		})
	},
}

func init() {
	f := reportWhatIfCmd.Flags()
	f.IntVarP(&whatIfOpts.k, "k", "k", 0, "number of vehicles to select (default ranking.default_k)")
	f.Float64Var(&whatIfOpts.brandingWeight, "branding-weight", 0, "what-if branding weight")
	f.Float64Var(&whatIfOpts.stablingWeight, "stabling-weight", 0, "what-if stabling weight")
	reportCmd.AddCommand(reportStatusCmd, reportAlertsCmd, reportWhatIfCmd)
	rootCmd.AddCommand(reportCmd)
}
