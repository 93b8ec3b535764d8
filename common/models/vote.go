package models

import (
	"strings"
	"time"
)

// VoteActionType is one member's cast action on a vote
type VoteActionType string

const (
	VoteFor     VoteActionType = "for"
	VoteAgainst VoteActionType = "against"
	VoteAbstain VoteActionType = "abstain"
	VoteNoVote  VoteActionType = "no-vote"
)

// VoteType classifies a vote by its protocol title
type VoteType string

const (
	VoteTypeUnknown         VoteType = ""
	VoteTypeLawApprove      VoteType = "law-approve"
	VoteTypeSecondCall      VoteType = "second-call"
	VoteTypeDemurrer        VoteType = "demurrer"
	VoteTypeNoConfidence    VoteType = "no-confidence"
	VoteTypePassToCommittee VoteType = "pass-to-committee"
	VoteTypeContinuation    VoteType = "continuation"
)

// Title prefixes used on the Knesset vote pages
var voteTypePrefixes = []struct {
	Type   VoteType
	Prefix string
}{
	{VoteTypeLawApprove, "אישור החוק"},
	{VoteTypeSecondCall, "קריאה שנייה"},
	{VoteTypeDemurrer, "הסתייגות"},
	{VoteTypeNoConfidence, "הצעת אי-אמון"},
	{VoteTypePassToCommittee, "להעביר את "},
	{VoteTypeContinuation, "להחיל דין רציפות"},
}

// VoteTypeForTitle derives the vote type from a protocol title
func VoteTypeForTitle(title string) VoteType {
	for _, vt := range voteTypePrefixes {
		if strings.HasPrefix(title, vt.Prefix) {
			return vt.Type
		}
	}
	return VoteTypeUnknown
}

// ConvertToDiscussionMarkers are the title phrases marking a pre-vote that
// converted a bill to a general discussion instead of advancing it.
var ConvertToDiscussionMarkers = []string{
	"להעביר את הנושא",
	"העברת הנושא",
}

// IsConvertToDiscussion reports whether a vote title carries one of the
// convert-to-discussion marker phrases.
func IsConvertToDiscussion(title string) bool {
	for _, marker := range ConvertToDiscussionMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

// Vote is one roll-call vote. The aggregate counters are denormalized
// projections over its VoteActions, recomputed by the classifier and never
// set by hand.
// Maps to: vote table
type Vote struct {
	ID            int64  `db:"vote_id" json:"vote_id"`
	MeetingNumber *int   `db:"meeting_number" json:"meeting_number,omitempty"`
	VoteNumber    *int   `db:"vote_number" json:"vote_number,omitempty"`
	SrcID         *int64 `db:"src_id" json:"src_id,omitempty"`
	SrcURL        string `db:"src_url" json:"src_url,omitempty"`

	Title    string    `db:"title" json:"title"`
	VoteType VoteType  `db:"vote_type" json:"vote_type"`
	Time     time.Time `db:"time" json:"time"`

	VotesCount        int `db:"votes_count" json:"votes_count"`
	ForVotesCount     int `db:"for_votes_count" json:"for_votes_count"`
	AgainstVotesCount int `db:"against_votes_count" json:"against_votes_count"`
	AbstainVotesCount int `db:"abstain_votes_count" json:"abstain_votes_count"`

	Controversy       int `db:"controversy" json:"controversy"`
	AgainstParty      int `db:"against_party" json:"against_party"`
	AgainstCoalition  int `db:"against_coalition" json:"against_coalition"`
	AgainstOpposition int `db:"against_opposition" json:"against_opposition"`
	AgainstOwnBill    int `db:"against_own_bill" json:"against_own_bill"`

	Summary     string `db:"summary" json:"summary,omitempty"`
	FullTextURL string `db:"full_text_url" json:"full_text_url,omitempty"`
}

// Passed reports whether the vote carried
func (v *Vote) Passed() bool {
	return v.ForVotesCount > v.AgainstVotesCount
}

// Date returns the calendar date of the vote, used for temporal party
// resolution.
func (v *Vote) Date() time.Time {
	return time.Date(v.Time.Year(), v.Time.Month(), v.Time.Day(), 0, 0, 0, 0, v.Time.Location())
}

// VoteAction is one member's cast action on one vote, tagged with the party
// resolved at vote time and the four deviation flags. Exactly one exists per
// (member, vote) pair; flags are fully recomputed on every classification.
// Maps to: vote_action table
type VoteAction struct {
	ID       int64          `db:"action_id" json:"action_id"`
	VoteID   int64          `db:"vote_id" json:"vote_id"`
	MemberID int64          `db:"member_id" json:"member_id"`
	PartyID  int64          `db:"party_id" json:"party_id"`
	Type     VoteActionType `db:"type" json:"type"`

	AgainstParty      bool `db:"against_party" json:"against_party"`
	AgainstCoalition  bool `db:"against_coalition" json:"against_coalition"`
	AgainstOpposition bool `db:"against_opposition" json:"against_opposition"`
	AgainstOwnBill    bool `db:"against_own_bill" json:"against_own_bill"`
}
