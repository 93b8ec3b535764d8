package models

import (
	"time"
)

// ProposalKind discriminates the three origin forms of a bill proposal
type ProposalKind string

const (
	ProposalPrivate ProposalKind = "private"
	ProposalKnesset ProposalKind = "knesset"
	ProposalGov     ProposalKind = "gov"
)

// BillProposal holds the fields common to all proposal origin forms. Each
// proposal links to the votes and committee meetings that preceded the
// bill's formal creation.
type BillProposal struct {
	ID        int64      `db:"proposal_id" json:"proposal_id"`
	Kind      ProposalKind `db:"kind" json:"kind"`
	BillID    *int64     `db:"bill_id" json:"bill_id,omitempty"`
	LawID     *int64     `db:"law_id" json:"law_id,omitempty"`
	KnessetID *int       `db:"knesset_id" json:"knesset_id,omitempty"`
	Title     string     `db:"title" json:"title"`
	Date      time.Time  `db:"date" json:"date"`
	SourceURL string     `db:"source_url" json:"source_url,omitempty"`

	VoteIDs    []int64 `db:"-" json:"vote_ids,omitempty"`
	MeetingIDs []int64 `db:"-" json:"meeting_ids,omitempty"`
}

// PrivateProposal is a member-initiated proposal. A bill may have many.
type PrivateProposal struct {
	BillProposal

	// External proposal number on the Knesset site
	ExternalID *int `db:"external_id" json:"external_id,omitempty"`

	ProposerIDs []int64 `db:"-" json:"proposer_ids,omitempty"`
	JoinerIDs   []int64 `db:"-" json:"joiner_ids,omitempty"`
}

// KnessetProposal is the committee-issued form. At most one per bill.
type KnessetProposal struct {
	BillProposal

	CommitteeID   *int64 `db:"committee_id" json:"committee_id,omitempty"`
	BookletNumber *int   `db:"booklet_number" json:"booklet_number,omitempty"`

	// Private proposals folded into this one
	OriginalIDs []int64 `db:"-" json:"original_ids,omitempty"`
}

// GovProposal is the government-issued form. At most one per bill.
type GovProposal struct {
	BillProposal

	BookletNumber *int `db:"booklet_number" json:"booklet_number,omitempty"`
}
