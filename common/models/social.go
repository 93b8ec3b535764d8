package models

import (
	"time"
)

// The social-engagement records below are opaque to the core engines; they
// matter only as reassignment targets during a bill merge, where unique
// constraints decide whether a record moves or is dropped.

// Follow is a user following a bill. Unique per (user, bill).
type Follow struct {
	ID     int64 `db:"follow_id" json:"follow_id"`
	UserID int64 `db:"user_id" json:"user_id"`
	BillID int64 `db:"bill_id" json:"bill_id"`
}

// Comment is a user comment on a bill.
type Comment struct {
	ID     int64     `db:"comment_id" json:"comment_id"`
	UserID int64     `db:"user_id" json:"user_id"`
	BillID int64     `db:"bill_id" json:"bill_id"`
	Body   string    `db:"body" json:"body"`
	Posted time.Time `db:"posted" json:"posted"`
}

// UserVote is a site user's up/down vote on a bill. Unique per (user, bill).
type UserVote struct {
	ID     int64 `db:"user_vote_id" json:"user_vote_id"`
	UserID int64 `db:"user_id" json:"user_id"`
	BillID int64 `db:"bill_id" json:"bill_id"`
	Value  int   `db:"value" json:"value"`
}

// TaggedItem links a tag to a bill. Unique per (tag, bill).
type TaggedItem struct {
	ID     int64  `db:"tagged_item_id" json:"tagged_item_id"`
	Tag    string `db:"tag" json:"tag"`
	BillID int64  `db:"bill_id" json:"bill_id"`
}

// AgendaLink ascribes a bill to an agenda. Unique per (agenda, bill).
type AgendaLink struct {
	ID       int64 `db:"agenda_link_id" json:"agenda_link_id"`
	AgendaID int64 `db:"agenda_id" json:"agenda_id"`
	BillID   int64 `db:"bill_id" json:"bill_id"`
}

// BudgetEstimation is a user's cost estimate for a bill, in thousands NIS.
// Unique per (bill, estimator).
type BudgetEstimation struct {
	ID          int64     `db:"estimation_id" json:"estimation_id"`
	BillID      int64     `db:"bill_id" json:"bill_id"`
	EstimatorID int64     `db:"estimator_id" json:"estimator_id"`
	OneTimeGov  *int      `db:"one_time_gov" json:"one_time_gov,omitempty"`
	YearlyGov   *int      `db:"yearly_gov" json:"yearly_gov,omitempty"`
	OneTimeExt  *int      `db:"one_time_ext" json:"one_time_ext,omitempty"`
	YearlyExt   *int      `db:"yearly_ext" json:"yearly_ext,omitempty"`
	Time        time.Time `db:"time" json:"time"`
	Summary     string    `db:"summary" json:"summary,omitempty"`
}
