package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/common/bootstrap"
)

var stagesForce bool

var stagesCmd = &cobra.Command{
	Use:   "recompute-stages <bill-id>...",
	Short: "Recompute bill pipeline stages",
	Long: `Recompute-stages rescans each bill's votes, committee meetings and
proposals and derives its position in the legislative pipeline.

By default a bill's stage only advances on signals newer than its current
stage date. With --force the scan restarts from the first-Knesset epoch, so
stages derived from since-corrected data can move backwards.

Examples:
  # Recompute one bill
  ./knesset recompute-stages 2842

  # Reset and recompute after fixing bad source data
  ./knesset recompute-stages --force 2842`,
	Args: cobra.MinimumNArgs(1),
	Run:  runStages,
}

func init() {
	rootCmd.AddCommand(stagesCmd)

	stagesCmd.Flags().BoolVar(&stagesForce, "force", false, "Rescan each bill from the first-Knesset epoch")
}

func runStages(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	components, err := bootstrap.Setup(ctx, "knesset-stages", bootstrap.WithoutQueue())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, arg := range args {
		billID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			components.Logger.Error("invalid bill id", "arg", arg)
			failed++
			continue
		}

		if err := serviceContainer.StageEngine.Recompute(ctx, billID, stagesForce); err != nil {
			components.Logger.Error("stage recompute failed", "bill_id", billID, "error", err)
			failed++
			continue
		}
		components.Logger.Info("stage recomputed", "bill_id", billID)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
