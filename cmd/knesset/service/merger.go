package service

import (
	"context"
	"fmt"

	"github.com/karopastal/Open-Knesset/common/logger"
)

// Merger folds duplicate bill (and law) records together, reassigning every
// cross-reference from the source onto the target. Reassignments that would
// violate a uniqueness constraint are silently dropped. The one unresolvable
// conflict, both bills carrying a Knesset proposal, aborts the merge as a
// logged no-op.
type Merger struct {
	bills     BillStore
	proposals ProposalStore
	social    SocialStore
	laws      LawStore
	stage     *StageEngine
	log       *logger.Logger
}

// NewMerger creates a bill/law merger
func NewMerger(bills BillStore, proposals ProposalStore, social SocialStore, laws LawStore, stage *StageEngine, log *logger.Logger) *Merger {
	return &Merger{
		bills:     bills,
		proposals: proposals,
		social:    social,
		laws:      laws,
		stage:     stage,
		log:       log,
	}
}

// MergeBills merges the source bill into the target bill, deletes the
// source and recomputes the target's stage.
func (m *Merger) MergeBills(ctx context.Context, targetID, sourceID int64) error {
	if targetID == sourceID {
		m.log.Debug("abort merging bill into itself", "bill_id", targetID)
		return nil
	}

	target, err := m.bills.GetBill(ctx, targetID)
	if err != nil {
		return fmt.Errorf("load target bill %d: %w", targetID, err)
	}
	source, err := m.bills.GetBill(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("load source bill %d: %w", sourceID, err)
	}

	targetKP, err := m.proposals.KnessetProposal(ctx, targetID)
	if err != nil {
		return fmt.Errorf("load target knesset proposal: %w", err)
	}
	sourceKP, err := m.proposals.KnessetProposal(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("load source knesset proposal: %w", err)
	}
	if targetKP != nil && sourceKP != nil {
		m.log.Warn("abort merge, both bills have knesset proposals",
			"target_id", targetID, "source_id", sourceID)
		return nil
	}

	m.log.Info("merging bills", "source_id", sourceID, "target_id", targetID)

	for _, voteID := range source.PreVoteIDs {
		if err := m.bills.AddPreVote(ctx, targetID, voteID); err != nil {
			return fmt.Errorf("reassign pre-vote %d: %w", voteID, err)
		}
	}
	for _, meetingID := range source.FirstMeetingIDs {
		if err := m.bills.AddFirstMeeting(ctx, targetID, meetingID); err != nil {
			return fmt.Errorf("reassign first meeting %d: %w", meetingID, err)
		}
	}
	for _, meetingID := range source.SecondMeetingIDs {
		if err := m.bills.AddSecondMeeting(ctx, targetID, meetingID); err != nil {
			return fmt.Errorf("reassign second meeting %d: %w", meetingID, err)
		}
	}

	if target.FirstVoteID == nil && source.FirstVoteID != nil {
		if err := m.bills.SetFirstVote(ctx, targetID, *source.FirstVoteID); err != nil {
			return fmt.Errorf("reassign first vote: %w", err)
		}
	}
	if target.ApprovalVoteID == nil && source.ApprovalVoteID != nil {
		if err := m.bills.SetApprovalVote(ctx, targetID, *source.ApprovalVoteID); err != nil {
			return fmt.Errorf("reassign approval vote: %w", err)
		}
	}

	for _, memberID := range source.ProposerIDs {
		if err := m.bills.AddProposer(ctx, targetID, memberID); err != nil {
			return fmt.Errorf("reassign proposer %d: %w", memberID, err)
		}
	}

	if err := m.proposals.ReassignPrivateProposals(ctx, sourceID, targetID); err != nil {
		return fmt.Errorf("reassign private proposals: %w", err)
	}
	if sourceKP != nil {
		if err := m.proposals.SetKnessetProposalBill(ctx, sourceKP.ID, targetID); err != nil {
			return fmt.Errorf("reassign knesset proposal: %w", err)
		}
	}

	if err := m.reassignSocial(ctx, sourceID, targetID); err != nil {
		return err
	}

	if err := m.bills.DeleteBill(ctx, sourceID); err != nil {
		return fmt.Errorf("delete merged bill %d: %w", sourceID, err)
	}

	return m.stage.Recompute(ctx, targetID, false)
}

// reassignSocial moves follows, tag-votes, comments, user votes, budget
// estimates and agenda links. Conflicting records are dropped, not merged.
func (m *Merger) reassignSocial(ctx context.Context, sourceID, targetID int64) error {
	if err := m.social.ReassignComments(ctx, sourceID, targetID); err != nil {
		return fmt.Errorf("reassign comments: %w", err)
	}

	type conflictable struct {
		name string
		fn   func(context.Context, int64, int64) (int, error)
	}
	for _, r := range []conflictable{
		{"user votes", m.social.ReassignUserVotes},
		{"follows", m.social.ReassignFollows},
		{"tags", m.social.ReassignTags},
		{"agenda links", m.social.ReassignAgendaLinks},
		{"budget estimations", m.social.ReassignBudgetEstimations},
	} {
		skipped, err := r.fn(ctx, sourceID, targetID)
		if err != nil {
			return fmt.Errorf("reassign %s: %w", r.name, err)
		}
		if skipped > 0 {
			m.log.Debug("dropped conflicting records during merge",
				"kind", r.name, "skipped", skipped,
				"source_id", sourceID, "target_id", targetID)
		}
	}

	return nil
}

// MergeLaws merges the source law into the target: private and Knesset
// proposals and bills move over, and the source is marked merged rather
// than deleted.
func (m *Merger) MergeLaws(ctx context.Context, targetID, sourceID int64) error {
	if targetID == sourceID {
		m.log.Debug("abort merging law into itself", "law_id", targetID)
		return nil
	}

	if _, err := m.laws.GetLaw(ctx, targetID); err != nil {
		return fmt.Errorf("load target law %d: %w", targetID, err)
	}
	if _, err := m.laws.GetLaw(ctx, sourceID); err != nil {
		return fmt.Errorf("load source law %d: %w", sourceID, err)
	}

	m.log.Info("merging laws", "source_id", sourceID, "target_id", targetID)

	if err := m.laws.ReassignLawProposals(ctx, sourceID, targetID); err != nil {
		return fmt.Errorf("reassign law proposals: %w", err)
	}
	if err := m.laws.ReassignLawBills(ctx, sourceID, targetID); err != nil {
		return fmt.Errorf("reassign law bills: %w", err)
	}

	if err := m.laws.MarkMerged(ctx, sourceID, targetID); err != nil {
		return fmt.Errorf("mark law %d merged: %w", sourceID, err)
	}

	return nil
}
