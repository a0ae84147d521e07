package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/model"
)

var (
	researchTrade    string
	researchCity     string
	researchState    string
	researchMinBond  int64
	researchKeywords []string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run one research task and print the ranked results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req := model.ResearchRequest{
			Trade:    researchTrade,
			City:     researchCity,
			State:    researchState,
			MinBond:  researchMinBond,
			Keywords: researchKeywords,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		result, err := p.Execute(ctx, req)
		if err != nil {
			return eris.Wrap(err, "research run")
		}

		zap.L().Info("research complete",
			zap.String("trade", req.Trade),
			zap.Int("candidates", result.CandidatesFound),
			zap.Int("profiles", len(result.Profiles)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	researchCmd.Flags().StringVar(&researchTrade, "trade", "", "trade to search for, e.g. electrical (required)")
	researchCmd.Flags().StringVar(&researchCity, "city", "", "target city (required)")
	researchCmd.Flags().StringVar(&researchState, "state", "", "two-letter state abbreviation (required)")
	researchCmd.Flags().Int64Var(&researchMinBond, "min-bond", 0, "minimum bonding capacity in dollars (required)")
	researchCmd.Flags().StringSliceVar(&researchKeywords, "keyword", nil, "additional search keywords")
	_ = researchCmd.MarkFlagRequired("trade")
	_ = researchCmd.MarkFlagRequired("city")
	_ = researchCmd.MarkFlagRequired("state")
	_ = researchCmd.MarkFlagRequired("min-bond")
	rootCmd.AddCommand(researchCmd)
}
