package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncSheets []string

// syncCmd runs a full sync from the command line.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a full sync of all valid sheets",
	Long: `Discovers valid data sheets in the configured workbook, fetches and
parses each one, and reconciles the extracted statistics into the store.
Use --sheet to restrict the run to specific sheets.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := setupApp(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.logger.Sync()

		result, err := app.service.Run(ctx, syncSheets)
		if err != nil {
			app.logger.Fatal("Sync aborted", zap.Error(err))
		}

		for _, msg := range result.Errors {
			app.logger.Warn("Sync error", zap.String("detail", msg))
		}
		app.logger.Info("Sync finished",
			zap.String("run_id", result.RunID),
			zap.Int("processed", result.Processed),
			zap.Int("inserted", result.Inserted),
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
			zap.Int("errors", len(result.Errors)))
	},
}

func init() {
	syncCmd.Flags().StringArrayVar(&syncSheets, "sheet", nil, "restrict the run to the named sheet (repeatable)")
	RootCmd.AddCommand(syncCmd)
}
