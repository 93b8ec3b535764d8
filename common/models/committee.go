package models

import (
	"time"
)

// Committee is a parliamentary committee
type Committee struct {
	ID   int64  `db:"committee_id" json:"committee_id"`
	Name string `db:"name" json:"name"`
}

// CommitteeMeeting is one meeting of a committee. Bills reference meetings
// before and after their first vote; a meeting's lifecycle is independent
// of any bill referencing it.
type CommitteeMeeting struct {
	ID          int64     `db:"meeting_id" json:"meeting_id"`
	CommitteeID int64     `db:"committee_id" json:"committee_id"`
	Date        time.Time `db:"date" json:"date"`
	Topics      string    `db:"topics" json:"topics,omitempty"`

	// Denormalized committee name for activity descriptions
	CommitteeName string `db:"committee_name" json:"committee_name,omitempty"`
}
