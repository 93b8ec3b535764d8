package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/karopastal/Open-Knesset/common/logger"
	"github.com/karopastal/Open-Knesset/common/models"
)

// BillData is the snapshot of everything reachable from a bill that its
// stage depends on.
type BillData struct {
	Bill *models.Bill

	ApprovalVote *models.Vote
	FirstVote    *models.Vote
	PreVotes     []*models.Vote

	FirstMeetings  []*models.CommitteeMeeting
	SecondMeetings []*models.CommitteeMeeting

	Private []*models.PrivateProposal
	Knesset *models.KnessetProposal
	Gov     *models.GovProposal

	Decisions []*models.GovDecision
}

// StageEngine derives a bill's legislative stage and stage-entry date from
// its reachable votes, proposals and committee meetings. Recompute is
// deterministic and idempotent; later stages are checked first and
// short-circuit, so an earlier-stage signal can never downgrade a bill past
// a terminal milestone.
type StageEngine struct {
	bills     BillStore
	votes     VoteStore
	meetings  MeetingStore
	proposals ProposalStore
	activity  ActivityStore
	log       *logger.Logger
}

// NewStageEngine creates a bill stage engine
func NewStageEngine(bills BillStore, votes VoteStore, meetings MeetingStore, proposals ProposalStore, activity ActivityStore, log *logger.Logger) *StageEngine {
	return &StageEngine{
		bills:     bills,
		votes:     votes,
		meetings:  meetings,
		proposals: proposals,
		activity:  activity,
		log:       log,
	}
}

// Recompute re-derives the bill's stage from all current data and persists
// it. With force, the current stage date is assumed wrong and reset to the
// first-Knesset sentinel before scanning.
func (e *StageEngine) Recompute(ctx context.Context, billID int64, force bool) error {
	data, err := e.Load(ctx, billID)
	if err != nil {
		return fmt.Errorf("load bill %d: %w", billID, err)
	}

	stage, stageDate, terminal := computeStage(data, force)

	if err := e.bills.SaveStage(ctx, billID, stage, stageDate); err != nil {
		return fmt.Errorf("save stage for bill %d: %w", billID, err)
	}

	e.log.Info("bill stage recomputed",
		"bill_id", billID,
		"stage", stage,
		"stage_date", stageDate.Format("2006-01-02"),
		"forced", force,
	)

	if terminal {
		return nil
	}

	// Regenerate the derived activity timeline
	data.Bill.Stage = stage
	data.Bill.StageDate = &stageDate
	entries := buildTimeline(data)
	if err := e.activity.ReplaceStream(ctx, billID, entries); err != nil {
		return fmt.Errorf("replace activity stream for bill %d: %w", billID, err)
	}

	return nil
}

// Load assembles the stage-relevant snapshot for a bill
func (e *StageEngine) Load(ctx context.Context, billID int64) (*BillData, error) {
	bill, err := e.bills.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	data := &BillData{Bill: bill}

	if bill.ApprovalVoteID != nil {
		if data.ApprovalVote, err = e.votes.GetVote(ctx, *bill.ApprovalVoteID); err != nil {
			return nil, fmt.Errorf("approval vote: %w", err)
		}
	}
	if bill.FirstVoteID != nil {
		if data.FirstVote, err = e.votes.GetVote(ctx, *bill.FirstVoteID); err != nil {
			return nil, fmt.Errorf("first vote: %w", err)
		}
	}
	if data.PreVotes, err = e.votes.GetVotes(ctx, bill.PreVoteIDs); err != nil {
		return nil, fmt.Errorf("pre-votes: %w", err)
	}
	if data.FirstMeetings, err = e.meetings.GetMeetings(ctx, bill.FirstMeetingIDs); err != nil {
		return nil, fmt.Errorf("first committee meetings: %w", err)
	}
	if data.SecondMeetings, err = e.meetings.GetMeetings(ctx, bill.SecondMeetingIDs); err != nil {
		return nil, fmt.Errorf("second committee meetings: %w", err)
	}
	if data.Private, err = e.proposals.PrivateProposals(ctx, billID); err != nil {
		return nil, fmt.Errorf("private proposals: %w", err)
	}
	if data.Knesset, err = e.proposals.KnessetProposal(ctx, billID); err != nil {
		return nil, fmt.Errorf("knesset proposal: %w", err)
	}
	if data.Gov, err = e.proposals.GovProposal(ctx, billID); err != nil {
		return nil, fmt.Errorf("gov proposal: %w", err)
	}
	if data.Decisions, err = e.proposals.GovDecisions(ctx, billID); err != nil {
		return nil, fmt.Errorf("gov decisions: %w", err)
	}

	return data, nil
}

// computeStage runs the fixed-precedence scan. It returns the derived stage
// and stage date plus whether a terminal check short-circuited the scan
// (terminal stages skip timeline regeneration).
func computeStage(d *BillData, force bool) (models.BillStage, time.Time, bool) {
	stage := d.Bill.Stage

	var stageDate time.Time
	if d.Bill.StageDate != nil && !force {
		stageDate = *d.Bill.StageDate
	} else {
		// Might be empty if the bill is new
		stageDate = models.FirstKnessetStart
	}

	// An approval vote decides the bill regardless of earlier artifacts
	if d.ApprovalVote != nil {
		if d.ApprovalVote.Passed() {
			stage = models.StageApproved
		} else {
			stage = models.StageFailedApproval
		}
		return stage, d.ApprovalVote.Date(), true
	}

	for _, cm := range d.SecondMeetings {
		if !cm.Date.Before(stageDate) {
			stage = models.StageCommitteeCorrections
			stageDate = cm.Date
		}
	}
	if stage == models.StageCommitteeCorrections {
		return stage, stageDate, true
	}

	if d.FirstVote != nil {
		if d.FirstVote.Passed() {
			stage = models.StageFirstVote
		} else {
			stage = models.StageFailedFirstVote
		}
		return stage, d.FirstVote.Date(), true
	}

	if d.Knesset != nil && !d.Knesset.Date.Before(stageDate) {
		stage = models.StageInCommittee
		stageDate = d.Knesset.Date
	}
	if d.Gov != nil && !d.Gov.Date.Before(stageDate) {
		stage = models.StageInCommittee
		stageDate = d.Gov.Date
	}

	for _, cm := range d.FirstMeetings {
		if !cm.Date.Before(stageDate) {
			// A committee seeing a bill that was converted to discussion
			// doesn't mean much.
			if stage != models.StageConvertedToDiscussion {
				stage = models.StageInCommittee
				stageDate = cm.Date
			}
		}
	}

	for _, v := range d.PreVotes {
		if !v.Date().Before(stageDate) && models.IsConvertToDiscussion(v.Title) {
			stage = models.StageConvertedToDiscussion
			stageDate = v.Date()
		}
	}

	for _, v := range d.PreVotes {
		if models.IsConvertToDiscussion(v.Title) {
			// A discussion transfer is not a pre-approval vote
			continue
		}
		if !v.Date().Before(stageDate) {
			if v.Passed() {
				stage = models.StagePreApproved
			} else {
				stage = models.StageFailedPreApproval
			}
			stageDate = v.Date()
		}
	}

	for _, pp := range d.Private {
		if !pp.Date.Before(stageDate) {
			stage = models.StageProposed
			stageDate = pp.Date
		}
	}

	return stage, stageDate, false
}

// buildTimeline derives the bill's activity stream from every proposal,
// vote, committee meeting and government decision reachable from it.
func buildTimeline(d *BillData) []*models.ActivityEntry {
	var entries []*models.ActivityEntry

	add := func(verb models.ActivityVerb, targetType string, targetID int64, ts time.Time, description string) {
		entries = append(entries, &models.ActivityEntry{
			ID:          uuid.New(),
			BillID:      d.Bill.ID,
			Verb:        verb,
			TargetType:  targetType,
			TargetID:    targetID,
			Timestamp:   ts,
			Description: description,
		})
	}

	for _, pp := range d.Private {
		add(models.VerbProposed, models.TargetProposal, pp.ID, pp.Date, pp.Title)
	}
	if d.Gov != nil {
		add(models.VerbProposed, models.TargetProposal, d.Gov.ID, d.Gov.Date, d.Gov.Title)
	}
	if d.Knesset != nil {
		add(models.VerbKnessetProposed, models.TargetProposal, d.Knesset.ID, d.Knesset.Date, d.Knesset.Title)
	}

	for _, v := range d.PreVotes {
		if models.IsConvertToDiscussion(v.Title) {
			add(models.VerbConvertedToDiscussion, models.TargetVote, v.ID, v.Time, "")
		} else {
			add(models.VerbPreVoted, models.TargetVote, v.ID, v.Time, strconv.FormatBool(v.Passed()))
		}
	}

	if d.FirstVote != nil {
		add(models.VerbFirstVoted, models.TargetVote, d.FirstVote.ID, d.FirstVote.Time, strconv.FormatBool(d.FirstVote.Passed()))
	}
	if d.ApprovalVote != nil {
		add(models.VerbApprovalVoted, models.TargetVote, d.ApprovalVote.ID, d.ApprovalVote.Time, strconv.FormatBool(d.ApprovalVote.Passed()))
	}

	for _, cm := range d.FirstMeetings {
		add(models.VerbFirstDiscussed, models.TargetMeeting, cm.ID, cm.Date, cm.CommitteeName)
	}
	for _, cm := range d.SecondMeetings {
		add(models.VerbSecondDiscussed, models.TargetMeeting, cm.ID, cm.Date, cm.CommitteeName)
	}

	for _, g := range d.Decisions {
		if g.Date == nil {
			continue
		}
		add(models.VerbGovVoted, models.TargetDecision, g.ID, *g.Date, strconv.Itoa(g.Stand))
	}

	return entries
}
