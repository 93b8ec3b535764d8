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

var classifyCmd = &cobra.Command{
	Use:   "classify <vote-id>...",
	Short: "Classify votes against party and bloc stands",
	Long: `Classify recomputes the deviation flags and aggregate counters of the
given votes.

Per-member affiliations are resolved at each vote's date, party and bloc
stands are derived from the majority rule, and every action is re-flagged.
Classification is idempotent; rerunning it converges to the same result.

Examples:
  # Reclassify a single vote
  ./knesset classify 8751

  # Reclassify several votes
  ./knesset classify 8751 8752 8753`,
	Args: cobra.MinimumNArgs(1),
	Run:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	components, err := bootstrap.Setup(ctx, "knesset-classify", bootstrap.WithoutQueue())
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
		voteID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			components.Logger.Error("invalid vote id", "arg", arg)
			failed++
			continue
		}

		if err := serviceContainer.Classifier.Classify(ctx, voteID); err != nil {
			components.Logger.Error("classification failed", "vote_id", voteID, "error", err)
			failed++
			continue
		}
		components.Logger.Info("vote classified", "vote_id", voteID)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
