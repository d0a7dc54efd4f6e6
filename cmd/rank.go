package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainready/app"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/pkg/export"
)

var rankOpts struct {
	policy         string
	k              int
	brandingWeight float64
	stablingWeight float64
	format         string
	publish        bool
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Select the top-k vehicles for induction",
	RunE:  runRank,
}

func init() {
	f := rankCmd.Flags()
	f.StringVarP(&rankOpts.policy, "policy", "p", ranking.PolicyBaseline, "ranking policy: baseline or what-if")
	f.IntVarP(&rankOpts.k, "k", "k", 0, "number of vehicles to select (default ranking.default_k)")
	f.Float64Var(&rankOpts.brandingWeight, "branding-weight", 0, "what-if branding weight (default ranking.what_if)")
	f.Float64Var(&rankOpts.stablingWeight, "stabling-weight", 0, "what-if stabling weight (default ranking.what_if)")
	f.StringVarP(&rankOpts.format, "format", "f", formatJSON, "output format: json or csv")
	f.BoolVar(&rankOpts.publish, "publish", false, "publish the selection as an induction plan")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if err := checkFormat(rankOpts.format); err != nil {
		return err
	}
	return withService(func(ctx context.Context, svc *app.Service) error {
		k, w, err := selection(cmd, svc.Config().Ranking, rankOpts.k, rankOpts.brandingWeight, rankOpts.stablingWeight)
		if err != nil {
			return err
		}
		policy, err := ranking.ParsePolicy(rankOpts.policy, w)
		if err != nil {
			return err
		}

		ranked := svc.Engine.Rank(policy, k)
		if rankOpts.publish {
			plan, err := svc.PublishPlan(ctx, policy.Name(), k, ranked)
			if err != nil {
				return fmt.Errorf("publish plan: %w", err)
			}
			cmd.PrintErrf("published plan %s\n", plan.PlanID)
		}
		if rankOpts.format == formatCSV {
			return export.WriteCSV(cmd.OutOrStdout(), ranked)
		}
		return export.WriteJSON(cmd.OutOrStdout(), ranked)
	})
}
