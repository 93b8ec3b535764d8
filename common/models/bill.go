package models

import (
	"time"
)

// BillStage is a bill's position in the legislative pipeline
type BillStage string

const (
	StageUnknown               BillStage = "UNKNOWN"
	StageFrozen                BillStage = "FROZEN"
	StageProposed              BillStage = "PROPOSED"
	StagePreApproved           BillStage = "PRE_APPROVED"
	StageFailedPreApproval     BillStage = "FAILED_PRE_APPROVAL"
	StageConvertedToDiscussion BillStage = "CONVERTED_TO_DISCUSSION"
	StageInCommittee           BillStage = "IN_COMMITTEE"
	StageCommitteeCorrections  BillStage = "COMMITTEE_CORRECTIONS"
	StageFirstVote             BillStage = "FIRST_VOTE"
	StageFailedFirstVote       BillStage = "FAILED_FIRST_VOTE"
	StageApproved              BillStage = "APPROVED"
	StageFailedApproval        BillStage = "FAILED_APPROVAL"
)

// stageOrder lists stages in pipeline order, for past-stage queries
var stageOrder = []BillStage{
	StageUnknown,
	StageFrozen,
	StageProposed,
	StagePreApproved,
	StageFailedPreApproval,
	StageConvertedToDiscussion,
	StageInCommittee,
	StageCommitteeCorrections,
	StageFirstVote,
	StageFailedFirstVote,
	StageApproved,
	StageFailedApproval,
}

// Bill is a tracked piece of legislation.
// Maps to: bill table + relation tables (bill_pre_vote, bill_first_meeting,
// bill_second_meeting, bill_proposer, bill_joiner)
type Bill struct {
	ID          int64  `db:"bill_id" json:"bill_id"`
	Title       string `db:"title" json:"title"`
	FullTitle   string `db:"full_title" json:"full_title,omitempty"`
	Slug        string `db:"slug" json:"slug"`
	PopularName string `db:"popular_name" json:"popular_name,omitempty"`

	LawID *int64 `db:"law_id" json:"law_id,omitempty"`

	Stage BillStage `db:"stage" json:"stage"`
	// Date of entry into the current stage
	StageDate *time.Time `db:"stage_date" json:"stage_date,omitempty"`

	FirstVoteID    *int64 `db:"first_vote_id" json:"first_vote_id,omitempty"`
	ApprovalVoteID *int64 `db:"approval_vote_id" json:"approval_vote_id,omitempty"`

	// Weak relations, loaded on demand
	PreVoteIDs       []int64 `db:"-" json:"pre_vote_ids,omitempty"`
	FirstMeetingIDs  []int64 `db:"-" json:"first_meeting_ids,omitempty"`
	SecondMeetingIDs []int64 `db:"-" json:"second_meeting_ids,omitempty"`

	// Superset of proposers/joiners across all private proposals
	ProposerIDs []int64 `db:"-" json:"proposer_ids,omitempty"`
	JoinerIDs   []int64 `db:"-" json:"joiner_ids,omitempty"`
}

// IsPastStage reports whether the bill has reached (or passed) the given
// stage in pipeline order.
func (b *Bill) IsPastStage(stage BillStage) bool {
	reached := false
	for _, s := range stageOrder {
		if s == stage {
			reached = true
		}
		if s == b.Stage {
			break
		}
	}
	return reached
}

// Frozen reports whether the bill was frozen by the house committee
func (b *Bill) Frozen() bool {
	return b.Stage == StageFrozen
}

// Law groups bills amending the same statute. Laws found to be duplicates
// are merged; MergedIntoID marks the survivor.
type Law struct {
	ID           int64  `db:"law_id" json:"law_id"`
	Title        string `db:"title" json:"title"`
	MergedIntoID *int64 `db:"merged_into_id" json:"merged_into_id,omitempty"`
}

// GovDecision is a government legislation committee decision about a bill.
type GovDecision struct {
	ID        int64      `db:"decision_id" json:"decision_id"`
	BillID    *int64     `db:"bill_id" json:"bill_id,omitempty"`
	Title     string     `db:"title" json:"title"`
	Subtitle  string     `db:"subtitle" json:"subtitle,omitempty"`
	Date      *time.Time `db:"date" json:"date,omitempty"`
	SourceURL string     `db:"source_url" json:"source_url,omitempty"`
	// Government stand: positive supports, negative opposes
	Stand  int  `db:"stand" json:"stand"`
	Number *int `db:"number" json:"number,omitempty"`
}
