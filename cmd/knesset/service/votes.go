package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/karopastal/Open-Knesset/common/logger"
)

// Title prefixes on the Knesset vote pages that identify a vote's role for
// a bill.
const (
	approvalTitlePrefix  = "אישור"
	firstVoteTitlePrefix = "להעביר את"
)

// BillService assigns roles to the votes attached to a bill's proposals
// and keeps the bill's stage current.
type BillService struct {
	bills     BillStore
	votes     VoteStore
	proposals ProposalStore
	stage     *StageEngine
	log       *logger.Logger
}

// NewBillService creates a bill service
func NewBillService(bills BillStore, votes VoteStore, proposals ProposalStore, stage *StageEngine, log *logger.Logger) *BillService {
	return &BillService{
		bills:     bills,
		votes:     votes,
		proposals: proposals,
		stage:     stage,
		log:       log,
	}
}

// UpdateVoteRoles scans every vote attached to the bill's proposals and
// assigns each to a role: approval vote, first vote, or pre-vote. A vote is
// matched to at most one role. Ends with a stage recompute.
func (s *BillService) UpdateVoteRoles(ctx context.Context, billID int64) error {
	used := make(map[int64]bool)

	gov, err := s.proposals.GovProposal(ctx, billID)
	if err != nil {
		return fmt.Errorf("load gov proposal: %w", err)
	}
	if gov != nil {
		votes, err := s.votes.GetVotes(ctx, gov.VoteIDs)
		if err != nil {
			return fmt.Errorf("load gov proposal votes: %w", err)
		}
		for _, v := range votes {
			if strings.HasPrefix(v.Title, approvalTitlePrefix) {
				if err := s.bills.SetApprovalVote(ctx, billID, v.ID); err != nil {
					return fmt.Errorf("set approval vote %d: %w", v.ID, err)
				}
				used[v.ID] = true
			}
			if strings.HasPrefix(v.Title, firstVoteTitlePrefix) {
				if err := s.bills.SetFirstVote(ctx, billID, v.ID); err != nil {
					return fmt.Errorf("set first vote %d: %w", v.ID, err)
				}
			}
		}
	}

	knesset, err := s.proposals.KnessetProposal(ctx, billID)
	if err != nil {
		return fmt.Errorf("load knesset proposal: %w", err)
	}
	if knesset != nil {
		votes, err := s.votes.GetVotes(ctx, knesset.VoteIDs)
		if err != nil {
			return fmt.Errorf("load knesset proposal votes: %w", err)
		}
		for _, v := range votes {
			if strings.HasPrefix(v.Title, approvalTitlePrefix) {
				if err := s.bills.SetApprovalVote(ctx, billID, v.ID); err != nil {
					return fmt.Errorf("set approval vote %d: %w", v.ID, err)
				}
				used[v.ID] = true
			}
			if strings.HasPrefix(v.Title, firstVoteTitlePrefix) {
				// A transfer vote after the proposal was issued is the first
				// reading; before it, a pre-vote.
				if v.Date().After(knesset.Date) {
					if err := s.bills.SetFirstVote(ctx, billID, v.ID); err != nil {
						return fmt.Errorf("set first vote %d: %w", v.ID, err)
					}
				} else {
					if err := s.bills.AddPreVote(ctx, billID, v.ID); err != nil {
						return fmt.Errorf("add pre-vote %d: %w", v.ID, err)
					}
				}
				used[v.ID] = true
			}
		}
	}

	private, err := s.proposals.PrivateProposals(ctx, billID)
	if err != nil {
		return fmt.Errorf("load private proposals: %w", err)
	}
	for _, pp := range private {
		votes, err := s.votes.GetVotes(ctx, pp.VoteIDs)
		if err != nil {
			return fmt.Errorf("load private proposal votes: %w", err)
		}
		for _, v := range votes {
			if !used[v.ID] {
				if err := s.bills.AddPreVote(ctx, billID, v.ID); err != nil {
					return fmt.Errorf("add pre-vote %d: %w", v.ID, err)
				}
			}
		}
	}

	return s.stage.Recompute(ctx, billID, false)
}
