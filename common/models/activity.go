package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityVerb names a bill timeline event
type ActivityVerb string

const (
	VerbProposed              ActivityVerb = "was-proposed"
	VerbKnessetProposed       ActivityVerb = "was-knesset-proposed"
	VerbPreVoted              ActivityVerb = "was-pre-voted"
	VerbConvertedToDiscussion ActivityVerb = "was-converted-to-discussion"
	VerbFirstVoted            ActivityVerb = "was-first-voted"
	VerbApprovalVoted         ActivityVerb = "was-approval-voted"
	VerbFirstDiscussed        ActivityVerb = "was-discussed-1"
	VerbSecondDiscussed       ActivityVerb = "was-discussed-2"
	VerbGovVoted              ActivityVerb = "was-voted-on-gov"
)

// Target types for activity entries
const (
	TargetProposal = "proposal"
	TargetVote     = "vote"
	TargetMeeting  = "committee-meeting"
	TargetDecision = "gov-decision"
)

// ActivityEntry is one record of a bill's derived activity timeline. The
// whole stream is cleared and regenerated on every stage recompute.
// Maps to: bill_activity table
type ActivityEntry struct {
	ID          uuid.UUID    `db:"entry_id" json:"entry_id"`
	BillID      int64        `db:"bill_id" json:"bill_id"`
	Verb        ActivityVerb `db:"verb" json:"verb"`
	TargetType  string       `db:"target_type" json:"target_type"`
	TargetID    int64        `db:"target_id" json:"target_id"`
	Timestamp   time.Time    `db:"timestamp" json:"timestamp"`
	Description string       `db:"description" json:"description,omitempty"`
}
