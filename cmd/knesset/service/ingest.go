package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/karopastal/Open-Knesset/common/logger"
	"github.com/karopastal/Open-Knesset/common/models"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// MemberVoteRow is one parsed row from a Knesset votes page
type MemberVoteRow struct {
	MemberID  int64
	PartyName string
	Direction models.VoteActionType
}

// VotesPageSource supplies the parsed member rows of a vote's protocol
// page. Downloading and parsing live outside this service.
type VotesPageSource interface {
	ReadMemberVotes(ctx context.Context, vote *models.Vote) ([]MemberVoteRow, error)
}

// Ingestor turns parsed votes-page rows into vote actions and hands the
// vote to the classifier.
type Ingestor struct {
	source     VotesPageSource
	votes      VoteStore
	members    MemberStore
	classifier *Classifier
	log        *logger.Logger
}

// NewIngestor creates a votes-page ingestor
func NewIngestor(source VotesPageSource, votes VoteStore, members MemberStore, classifier *Classifier, log *logger.Logger) *Ingestor {
	return &Ingestor{
		source:     source,
		votes:      votes,
		members:    members,
		classifier: classifier,
		log:        log,
	}
}

// ReparseMembersFromVotesPage re-reads the vote's protocol page, creates
// any missing vote actions, then reclassifies the vote. A row referencing
// an unknown member is logged and skipped; one bad row must not abort the
// batch.
func (i *Ingestor) ReparseMembersFromVotesPage(ctx context.Context, voteID int64) error {
	vote, err := i.votes.GetVote(ctx, voteID)
	if err != nil {
		return fmt.Errorf("load vote %d: %w", voteID, err)
	}

	rows, err := i.source.ReadMemberVotes(ctx, vote)
	if err != nil {
		return fmt.Errorf("read member votes for vote %d: %w", voteID, err)
	}

	created := 0
	for _, row := range rows {
		member, err := i.members.GetMember(ctx, row.MemberID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				i.log.Error("votes page row references unknown member",
					"vote_id", voteID, "member_id", row.MemberID, "party", row.PartyName)
				continue
			}
			return fmt.Errorf("load member %d: %w", row.MemberID, err)
		}

		_, wasCreated, err := i.votes.GetOrCreateAction(ctx, voteID, member.ID, row.Direction, member.CurrentPartyID)
		if err != nil {
			return fmt.Errorf("record action for member %d: %w", member.ID, err)
		}
		if wasCreated {
			created++
		}
	}

	i.log.Info("votes page reparsed",
		"vote_id", voteID, "rows", len(rows), "created", created)

	return i.classifier.Classify(ctx, voteID)
}
