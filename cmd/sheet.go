package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sheetPeriod     string
	sheetDependency string
)

// sheetCmd ingests one referenced document out of band.
var sheetCmd = &cobra.Command{
	Use:   "sheet <source-id>",
	Short: "Sync a single referenced document",
	Long: `Fetches one referenced statistics document by its spreadsheet id and
reconciles it for the given dependency and period. The operation is skipped
when that (dependency, period) pair is already reconciled.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := setupApp(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.logger.Sync()

		result := app.service.SyncSingleSheet(ctx, args[0], sheetPeriod, sheetDependency)
		if !result.Success {
			app.logger.Fatal("Single sheet sync failed", zap.String("message", result.Message))
		}
		app.logger.Info("Single sheet sync done", zap.String("message", result.Message))
	},
}

func init() {
	sheetCmd.Flags().StringVar(&sheetPeriod, "period", "", "period in YYYYMM form (required)")
	sheetCmd.Flags().StringVar(&sheetDependency, "dependency", "", "dependency name (required)")
	_ = sheetCmd.MarkFlagRequired("period")
	_ = sheetCmd.MarkFlagRequired("dependency")
	RootCmd.AddCommand(sheetCmd)
}
