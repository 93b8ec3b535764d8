package service

import (
	"context"
	"fmt"
	"time"

	"github.com/karopastal/Open-Knesset/common/logger"
	"github.com/karopastal/Open-Knesset/common/models"
	"github.com/karopastal/Open-Knesset/common/repository"
)

func testLogger() *logger.Logger {
	return logger.New("error", "json")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// fakeStore is an in-memory implementation of every store interface,
// shared by the service tests.
type fakeStore struct {
	members    map[int64]*models.Member
	parties    map[int64]*models.Party
	partyOrder []int64
	knesset    *models.Knesset
	votes      map[int64]*models.Vote
	actions    map[int64][]*models.VoteAction
	bills      map[int64]*models.Bill
	meetings   map[int64]*models.CommitteeMeeting
	private    map[int64][]*models.PrivateProposal
	knessetPs  map[int64]*models.KnessetProposal
	govPs      map[int64]*models.GovProposal
	decisions  map[int64][]*models.GovDecision
	laws       map[int64]*models.Law

	streams map[int64][]*models.ActivityEntry

	savedFlags      int
	savedAggregates int
	nextActionID    int64
	deletedBills    []int64

	comments       map[int64]int
	socialSkips    map[string]int
	socialBilled   map[string][]int64
	mergedLawPairs [][2]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:      make(map[int64]*models.Member),
		parties:      make(map[int64]*models.Party),
		votes:        make(map[int64]*models.Vote),
		actions:      make(map[int64][]*models.VoteAction),
		bills:        make(map[int64]*models.Bill),
		meetings:     make(map[int64]*models.CommitteeMeeting),
		private:      make(map[int64][]*models.PrivateProposal),
		knessetPs:    make(map[int64]*models.KnessetProposal),
		govPs:        make(map[int64]*models.GovProposal),
		decisions:    make(map[int64][]*models.GovDecision),
		laws:         make(map[int64]*models.Law),
		streams:      make(map[int64][]*models.ActivityEntry),
		comments:     make(map[int64]int),
		socialSkips:  make(map[string]int),
		socialBilled: make(map[string][]int64),
		nextActionID: 1000,
	}
}

// MemberStore

func (f *fakeStore) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, fmt.Errorf("member %d: %w", id, repository.ErrNotFound)
	}
	return m, nil
}

func (f *fakeStore) GetMembers(ctx context.Context, ids []int64) (map[int64]*models.Member, error) {
	out := make(map[int64]*models.Member)
	for _, id := range ids {
		if m, ok := f.members[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

// PartyStore

func (f *fakeStore) GetParty(ctx context.Context, id int64) (*models.Party, error) {
	p, ok := f.parties[id]
	if !ok {
		return nil, fmt.Errorf("party %d: %w", id, repository.ErrNotFound)
	}
	return p, nil
}

func (f *fakeStore) ListParties(ctx context.Context) ([]*models.Party, error) {
	var out []*models.Party
	for _, id := range f.partyOrder {
		out = append(out, f.parties[id])
	}
	return out, nil
}

func (f *fakeStore) addParty(p *models.Party) {
	f.parties[p.ID] = p
	f.partyOrder = append(f.partyOrder, p.ID)
}

// KnessetStore

func (f *fakeStore) CurrentKnesset(ctx context.Context) (*models.Knesset, error) {
	if f.knesset == nil {
		return nil, fmt.Errorf("current knesset: %w", repository.ErrNotFound)
	}
	return f.knesset, nil
}

// VoteStore

func (f *fakeStore) GetVote(ctx context.Context, id int64) (*models.Vote, error) {
	v, ok := f.votes[id]
	if !ok {
		return nil, fmt.Errorf("vote %d: %w", id, repository.ErrNotFound)
	}
	return v, nil
}

func (f *fakeStore) GetVotes(ctx context.Context, ids []int64) ([]*models.Vote, error) {
	var out []*models.Vote
	for _, id := range ids {
		if v, ok := f.votes[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActions(ctx context.Context, voteID int64) ([]*models.VoteAction, error) {
	return f.actions[voteID], nil
}

func (f *fakeStore) SaveActionFlags(ctx context.Context, action *models.VoteAction) error {
	f.savedFlags++
	return nil
}

func (f *fakeStore) SaveAggregates(ctx context.Context, vote *models.Vote) error {
	f.savedAggregates++
	return nil
}

func (f *fakeStore) GetOrCreateAction(ctx context.Context, voteID, memberID int64, typ models.VoteActionType, partyID int64) (*models.VoteAction, bool, error) {
	for _, a := range f.actions[voteID] {
		if a.MemberID == memberID {
			return a, false, nil
		}
	}
	f.nextActionID++
	a := &models.VoteAction{ID: f.nextActionID, VoteID: voteID, MemberID: memberID, PartyID: partyID, Type: typ}
	f.actions[voteID] = append(f.actions[voteID], a)
	return a, true, nil
}

// BillStore

func (f *fakeStore) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, fmt.Errorf("bill %d: %w", id, repository.ErrNotFound)
	}
	return b, nil
}

func (f *fakeStore) BillsForVote(ctx context.Context, voteID int64) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range f.bills {
		if b.FirstVoteID != nil && *b.FirstVoteID == voteID {
			out = append(out, b)
			continue
		}
		if b.ApprovalVoteID != nil && *b.ApprovalVoteID == voteID {
			out = append(out, b)
			continue
		}
		for _, id := range b.PreVoteIDs {
			if id == voteID {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) SaveStage(ctx context.Context, billID int64, stage models.BillStage, stageDate time.Time) error {
	b, ok := f.bills[billID]
	if !ok {
		return fmt.Errorf("bill %d: %w", billID, repository.ErrNotFound)
	}
	b.Stage = stage
	b.StageDate = &stageDate
	return nil
}

func (f *fakeStore) AddPreVote(ctx context.Context, billID, voteID int64) error {
	b := f.bills[billID]
	for _, id := range b.PreVoteIDs {
		if id == voteID {
			return nil
		}
	}
	b.PreVoteIDs = append(b.PreVoteIDs, voteID)
	return nil
}

func (f *fakeStore) AddFirstMeeting(ctx context.Context, billID, meetingID int64) error {
	b := f.bills[billID]
	for _, id := range b.FirstMeetingIDs {
		if id == meetingID {
			return nil
		}
	}
	b.FirstMeetingIDs = append(b.FirstMeetingIDs, meetingID)
	return nil
}

func (f *fakeStore) AddSecondMeeting(ctx context.Context, billID, meetingID int64) error {
	b := f.bills[billID]
	for _, id := range b.SecondMeetingIDs {
		if id == meetingID {
			return nil
		}
	}
	b.SecondMeetingIDs = append(b.SecondMeetingIDs, meetingID)
	return nil
}

func (f *fakeStore) SetFirstVote(ctx context.Context, billID, voteID int64) error {
	f.bills[billID].FirstVoteID = &voteID
	return nil
}

func (f *fakeStore) SetApprovalVote(ctx context.Context, billID, voteID int64) error {
	f.bills[billID].ApprovalVoteID = &voteID
	return nil
}

func (f *fakeStore) AddProposer(ctx context.Context, billID, memberID int64) error {
	b := f.bills[billID]
	for _, id := range b.ProposerIDs {
		if id == memberID {
			return nil
		}
	}
	b.ProposerIDs = append(b.ProposerIDs, memberID)
	return nil
}

func (f *fakeStore) DeleteBill(ctx context.Context, billID int64) error {
	delete(f.bills, billID)
	f.deletedBills = append(f.deletedBills, billID)
	return nil
}

// MeetingStore

func (f *fakeStore) GetMeetings(ctx context.Context, ids []int64) ([]*models.CommitteeMeeting, error) {
	var out []*models.CommitteeMeeting
	for _, id := range ids {
		if m, ok := f.meetings[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// ProposalStore

func (f *fakeStore) PrivateProposals(ctx context.Context, billID int64) ([]*models.PrivateProposal, error) {
	return f.private[billID], nil
}

func (f *fakeStore) KnessetProposal(ctx context.Context, billID int64) (*models.KnessetProposal, error) {
	return f.knessetPs[billID], nil
}

func (f *fakeStore) GovProposal(ctx context.Context, billID int64) (*models.GovProposal, error) {
	return f.govPs[billID], nil
}

func (f *fakeStore) ReassignPrivateProposals(ctx context.Context, fromBillID, toBillID int64) error {
	f.private[toBillID] = append(f.private[toBillID], f.private[fromBillID]...)
	delete(f.private, fromBillID)
	return nil
}

func (f *fakeStore) SetKnessetProposalBill(ctx context.Context, proposalID, billID int64) error {
	for from, kp := range f.knessetPs {
		if kp.ID == proposalID {
			delete(f.knessetPs, from)
			kp.BillID = &billID
			f.knessetPs[billID] = kp
			return nil
		}
	}
	return fmt.Errorf("knesset proposal %d: %w", proposalID, repository.ErrNotFound)
}

func (f *fakeStore) GovDecisions(ctx context.Context, billID int64) ([]*models.GovDecision, error) {
	return f.decisions[billID], nil
}

// ActivityStore

func (f *fakeStore) ReplaceStream(ctx context.Context, billID int64, entries []*models.ActivityEntry) error {
	f.streams[billID] = entries
	return nil
}

// SocialStore

func (f *fakeStore) ReassignComments(ctx context.Context, fromBillID, toBillID int64) error {
	f.comments[toBillID] += f.comments[fromBillID]
	delete(f.comments, fromBillID)
	return nil
}

func (f *fakeStore) reassignSocialKind(kind string, fromBillID, toBillID int64) (int, error) {
	f.socialBilled[kind] = append(f.socialBilled[kind], fromBillID, toBillID)
	return f.socialSkips[kind], nil
}

func (f *fakeStore) ReassignUserVotes(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return f.reassignSocialKind("user_votes", fromBillID, toBillID)
}

func (f *fakeStore) ReassignFollows(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return f.reassignSocialKind("follows", fromBillID, toBillID)
}

func (f *fakeStore) ReassignTags(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return f.reassignSocialKind("tags", fromBillID, toBillID)
}

func (f *fakeStore) ReassignAgendaLinks(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return f.reassignSocialKind("agenda_links", fromBillID, toBillID)
}

func (f *fakeStore) ReassignBudgetEstimations(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return f.reassignSocialKind("budget_estimations", fromBillID, toBillID)
}

// LawStore

func (f *fakeStore) GetLaw(ctx context.Context, id int64) (*models.Law, error) {
	l, ok := f.laws[id]
	if !ok {
		return nil, fmt.Errorf("law %d: %w", id, repository.ErrNotFound)
	}
	return l, nil
}

func (f *fakeStore) ReassignLawProposals(ctx context.Context, fromLawID, toLawID int64) error {
	return nil
}

func (f *fakeStore) ReassignLawBills(ctx context.Context, fromLawID, toLawID int64) error {
	for _, b := range f.bills {
		if b.LawID != nil && *b.LawID == fromLawID {
			b.LawID = &toLawID
		}
	}
	return nil
}

func (f *fakeStore) MarkMerged(ctx context.Context, lawID, intoLawID int64) error {
	l, ok := f.laws[lawID]
	if !ok {
		return fmt.Errorf("law %d: %w", lawID, repository.ErrNotFound)
	}
	l.MergedIntoID = &intoLawID
	f.mergedLawPairs = append(f.mergedLawPairs, [2]int64{lawID, intoLawID})
	return nil
}

// StatsStore backed by the recorded actions; matches the filter the way the
// SQL implementation does.
func (f *fakeStore) CountActions(ctx context.Context, flt repository.ActionFilter) (int, error) {
	count := 0
	for voteID, actions := range f.actions {
		vote := f.votes[voteID]
		for _, a := range actions {
			if flt.MemberID != nil && a.MemberID != *flt.MemberID {
				continue
			}
			if flt.MemberIDs != nil && !containsID(flt.MemberIDs, a.MemberID) {
				continue
			}
			if flt.CurrentPartyID != nil {
				m, ok := f.members[a.MemberID]
				if !ok || m.CurrentPartyID != *flt.CurrentPartyID {
					continue
				}
			}
			if flt.From != nil && (vote == nil || !vote.Time.After(*flt.From)) {
				continue
			}
			if flt.AgainstParty && !a.AgainstParty {
				continue
			}
			if flt.AgainstCoalition && !a.AgainstCoalition {
				continue
			}
			if flt.AgainstOpposition && !a.AgainstOpposition {
				continue
			}
			if flt.ExcludeNoVote && a.Type == models.VoteNoVote {
				continue
			}
			count++
		}
	}
	return count, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
