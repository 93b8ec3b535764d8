package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/service"
	"github.com/karopastal/Open-Knesset/common/bootstrap"
	"github.com/karopastal/Open-Knesset/common/models"
)

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest <vote-id>...",
	Short: "Reparse member votes from a scraped votes page",
	Long: `Ingest replays the member rows of a vote's protocol page: missing vote
actions are created, rows naming unknown members are logged and skipped,
and each vote is reclassified afterwards.

The rows file is the JSON emitted by the votes-page scraper, one object
per member row:

  [{"vote_id": 9914, "member_id": 730, "party": "העבודה", "vote": "for"}]

Examples:
  # Reparse one vote from a scraped page
  ./knesset ingest --file votes_9914.json 9914

  # Reparse several votes from one scrape batch
  ./knesset ingest --file batch.json 9914 9915`,
	Args: cobra.MinimumNArgs(1),
	Run:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Path to the scraped votes-page rows (JSON)")
	ingestCmd.MarkFlagRequired("file")
}

func runIngest(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	components, err := bootstrap.Setup(ctx, "knesset-ingest", bootstrap.WithoutQueue())
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

	source, err := newFileVotesSource(ingestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load rows file: %v\n", err)
		os.Exit(1)
	}
	ingestor := serviceContainer.NewIngestor(source)

	failed := 0
	for _, arg := range args {
		voteID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			components.Logger.Error("invalid vote id", "arg", arg)
			failed++
			continue
		}

		if err := ingestor.ReparseMembersFromVotesPage(ctx, voteID); err != nil {
			components.Logger.Error("ingestion failed", "vote_id", voteID, "error", err)
			failed++
			continue
		}
		components.Logger.Info("vote ingested", "vote_id", voteID)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// voteRow is one scraped member row in the --file JSON
type voteRow struct {
	VoteID   int64  `json:"vote_id"`
	MemberID int64  `json:"member_id"`
	Party    string `json:"party"`
	Vote     string `json:"vote"`
}

// fileVotesSource serves scraped votes-page rows from a local JSON file.
// A batch file may carry rows for several votes; each read filters by the
// requested vote.
type fileVotesSource struct {
	rows []voteRow
}

func newFileVotesSource(path string) (*fileVotesSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rows file: %w", err)
	}

	var rows []voteRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse rows file %s: %w", path, err)
	}
	return &fileVotesSource{rows: rows}, nil
}

func (s *fileVotesSource) ReadMemberVotes(ctx context.Context, vote *models.Vote) ([]service.MemberVoteRow, error) {
	var out []service.MemberVoteRow
	for _, row := range s.rows {
		if row.VoteID != vote.ID {
			continue
		}

		direction, err := parseVoteDirection(row.Vote)
		if err != nil {
			return nil, fmt.Errorf("vote %d member %d: %w", row.VoteID, row.MemberID, err)
		}
		out = append(out, service.MemberVoteRow{
			MemberID:  row.MemberID,
			PartyName: row.Party,
			Direction: direction,
		})
	}
	return out, nil
}

func parseVoteDirection(s string) (models.VoteActionType, error) {
	switch s {
	case "for":
		return models.VoteFor, nil
	case "against":
		return models.VoteAgainst, nil
	case "abstain":
		return models.VoteAbstain, nil
	case "no-vote":
		return models.VoteNoVote, nil
	}
	return "", fmt.Errorf("unknown vote direction %q", s)
}
