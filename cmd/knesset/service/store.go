package service

import (
	"context"
	"time"

	"github.com/karopastal/Open-Knesset/common/models"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// The services are written against the narrow store interfaces below.
// common/repository provides the pgx implementations; tests use in-memory
// fakes.

// MemberStore reads members with their affiliation history
type MemberStore interface {
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	GetMembers(ctx context.Context, ids []int64) (map[int64]*models.Member, error)
}

// PartyStore reads parties with their coalition history
type PartyStore interface {
	GetParty(ctx context.Context, id int64) (*models.Party, error)
	ListParties(ctx context.Context) ([]*models.Party, error)
}

// KnessetStore reads parliamentary terms
type KnessetStore interface {
	CurrentKnesset(ctx context.Context) (*models.Knesset, error)
}

// VoteStore reads and writes votes and their actions. The write methods
// only persist recomputed projections; aggregate fields have no setters
// anywhere else.
type VoteStore interface {
	GetVote(ctx context.Context, id int64) (*models.Vote, error)
	GetVotes(ctx context.Context, ids []int64) ([]*models.Vote, error)
	ListActions(ctx context.Context, voteID int64) ([]*models.VoteAction, error)
	SaveActionFlags(ctx context.Context, action *models.VoteAction) error
	SaveAggregates(ctx context.Context, vote *models.Vote) error
	GetOrCreateAction(ctx context.Context, voteID, memberID int64, typ models.VoteActionType, partyID int64) (*models.VoteAction, bool, error)
}

// BillStore reads and writes bills and their weak relations
type BillStore interface {
	GetBill(ctx context.Context, id int64) (*models.Bill, error)
	// BillsForVote returns every bill referencing the vote as a pre-vote,
	// first vote or approval vote.
	BillsForVote(ctx context.Context, voteID int64) ([]*models.Bill, error)
	SaveStage(ctx context.Context, billID int64, stage models.BillStage, stageDate time.Time) error
	AddPreVote(ctx context.Context, billID, voteID int64) error
	AddFirstMeeting(ctx context.Context, billID, meetingID int64) error
	AddSecondMeeting(ctx context.Context, billID, meetingID int64) error
	SetFirstVote(ctx context.Context, billID, voteID int64) error
	SetApprovalVote(ctx context.Context, billID, voteID int64) error
	AddProposer(ctx context.Context, billID, memberID int64) error
	DeleteBill(ctx context.Context, billID int64) error
}

// MeetingStore reads committee meetings
type MeetingStore interface {
	GetMeetings(ctx context.Context, ids []int64) ([]*models.CommitteeMeeting, error)
}

// ProposalStore reads proposals and reassigns them between bills
type ProposalStore interface {
	PrivateProposals(ctx context.Context, billID int64) ([]*models.PrivateProposal, error)
	// KnessetProposal returns nil when the bill has none
	KnessetProposal(ctx context.Context, billID int64) (*models.KnessetProposal, error)
	// GovProposal returns nil when the bill has none
	GovProposal(ctx context.Context, billID int64) (*models.GovProposal, error)
	ReassignPrivateProposals(ctx context.Context, fromBillID, toBillID int64) error
	SetKnessetProposalBill(ctx context.Context, proposalID, billID int64) error
	GovDecisions(ctx context.Context, billID int64) ([]*models.GovDecision, error)
}

// ActivityStore is the activity-feed sink. The stream for a bill is cleared
// and regenerated wholesale.
type ActivityStore interface {
	ReplaceStream(ctx context.Context, billID int64, entries []*models.ActivityEntry) error
}

// SocialStore reassigns social-engagement records during a merge. Methods
// returning a skipped count silently drop records whose move would violate
// a uniqueness constraint.
type SocialStore interface {
	ReassignComments(ctx context.Context, fromBillID, toBillID int64) error
	ReassignUserVotes(ctx context.Context, fromBillID, toBillID int64) (skipped int, err error)
	ReassignFollows(ctx context.Context, fromBillID, toBillID int64) (skipped int, err error)
	ReassignTags(ctx context.Context, fromBillID, toBillID int64) (skipped int, err error)
	ReassignAgendaLinks(ctx context.Context, fromBillID, toBillID int64) (skipped int, err error)
	ReassignBudgetEstimations(ctx context.Context, fromBillID, toBillID int64) (skipped int, err error)
}

// LawStore reads and merges laws
type LawStore interface {
	GetLaw(ctx context.Context, id int64) (*models.Law, error)
	ReassignLawProposals(ctx context.Context, fromLawID, toLawID int64) error
	ReassignLawBills(ctx context.Context, fromLawID, toLawID int64) error
	MarkMerged(ctx context.Context, lawID, intoLawID int64) error
}

// StatsStore counts persisted vote actions
type StatsStore interface {
	CountActions(ctx context.Context, f repository.ActionFilter) (int, error)
}
