package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "subrecon",
	Short: "Subcontractor discovery and ranking pipeline",
	Long:  "Discovers candidate subcontractors from web search, extracts business profiles from their sites, verifies licenses against a state registry, scans for recent in-region project history, and ranks by composite suitability score.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
