package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karopastal/Open-Knesset/common/models"
)

func newMergerFixture() (*fakeStore, *Merger) {
	f := newFakeStore()
	stage := NewStageEngine(f, f, f, f, f, testLogger())
	m := NewMerger(f, f, f, f, stage, testLogger())
	return f, m
}

func TestMergeBills(t *testing.T) {
	f, m := newMergerFixture()

	f.votes[1] = &models.Vote{ID: 1, Title: "הצעת חוק", Time: day(2020, time.March, 1), ForVotesCount: 10}
	f.votes[2] = &models.Vote{ID: 2, Time: day(2021, time.March, 1), ForVotesCount: 10}
	f.meetings[5] = &models.CommitteeMeeting{ID: 5, Date: day(2020, time.June, 1)}

	f.bills[10] = &models.Bill{ID: 10, Stage: models.StageProposed}
	f.bills[20] = &models.Bill{
		ID:              20,
		Stage:           models.StagePreApproved,
		PreVoteIDs:      []int64{1},
		FirstMeetingIDs: []int64{5},
		FirstVoteID:     ptr(int64(2)),
		ProposerIDs:     []int64{7, 8},
	}
	f.private[20] = []*models.PrivateProposal{
		{BillProposal: models.BillProposal{ID: 3, Kind: models.ProposalPrivate, BillID: ptr(int64(20)), Date: day(2020, time.January, 1)}},
	}
	f.comments[20] = 4

	require.NoError(t, m.MergeBills(context.Background(), 10, 20))

	_, exists := f.bills[20]
	assert.False(t, exists)
	assert.Equal(t, []int64{20}, f.deletedBills)

	target := f.bills[10]
	assert.Equal(t, []int64{1}, target.PreVoteIDs)
	assert.Equal(t, []int64{5}, target.FirstMeetingIDs)
	assert.Equal(t, []int64{7, 8}, target.ProposerIDs)
	require.NotNil(t, target.FirstVoteID)
	assert.Equal(t, int64(2), *target.FirstVoteID)

	assert.Len(t, f.private[10], 1)
	assert.Equal(t, 4, f.comments[10])

	// Stage recomputed for the survivor: the inherited first vote passed
	assert.Equal(t, models.StageFirstVote, target.Stage)
}

func TestMergeBillsKeepsTargetVotes(t *testing.T) {
	f, m := newMergerFixture()

	f.votes[1] = &models.Vote{ID: 1, Time: day(2020, time.March, 1), ForVotesCount: 10}
	f.votes[2] = &models.Vote{ID: 2, Time: day(2021, time.March, 1), ForVotesCount: 10}

	f.bills[10] = &models.Bill{ID: 10, Stage: models.StageFirstVote, FirstVoteID: ptr(int64(1))}
	f.bills[20] = &models.Bill{ID: 20, Stage: models.StageFirstVote, FirstVoteID: ptr(int64(2))}

	require.NoError(t, m.MergeBills(context.Background(), 10, 20))

	// The target's own first vote wins over the source's
	assert.Equal(t, int64(1), *f.bills[10].FirstVoteID)
}

func TestMergeBillsIntoItself(t *testing.T) {
	f, m := newMergerFixture()
	f.bills[10] = &models.Bill{ID: 10, Stage: models.StageProposed}

	require.NoError(t, m.MergeBills(context.Background(), 10, 10))

	_, exists := f.bills[10]
	assert.True(t, exists)
	assert.Empty(t, f.deletedBills)
}

func TestMergeBillsBothKnessetProposalsAborts(t *testing.T) {
	f, m := newMergerFixture()

	f.bills[10] = &models.Bill{ID: 10, Stage: models.StageInCommittee}
	f.bills[20] = &models.Bill{ID: 20, Stage: models.StageInCommittee, ProposerIDs: []int64{7}}
	f.knessetPs[10] = &models.KnessetProposal{BillProposal: models.BillProposal{ID: 1, Kind: models.ProposalKnesset}}
	f.knessetPs[20] = &models.KnessetProposal{BillProposal: models.BillProposal{ID: 2, Kind: models.ProposalKnesset}}

	require.NoError(t, m.MergeBills(context.Background(), 10, 20))

	// Logged no-op: both bills intact, nothing moved
	_, exists := f.bills[20]
	assert.True(t, exists)
	assert.Empty(t, f.deletedBills)
	assert.Empty(t, f.bills[10].ProposerIDs)
}

func TestMergeBillsMovesKnessetProposal(t *testing.T) {
	f, m := newMergerFixture()

	f.bills[10] = &models.Bill{ID: 10, Stage: models.StageProposed}
	f.bills[20] = &models.Bill{ID: 20, Stage: models.StageInCommittee}
	f.knessetPs[20] = &models.KnessetProposal{
		BillProposal: models.BillProposal{ID: 2, Kind: models.ProposalKnesset, BillID: ptr(int64(20)), Date: day(2020, time.May, 1)},
	}

	require.NoError(t, m.MergeBills(context.Background(), 10, 20))

	require.NotNil(t, f.knessetPs[10])
	assert.Equal(t, int64(10), *f.knessetPs[10].BillID)
}

func TestMergeBillsReportsSkippedSocialRecords(t *testing.T) {
	f, m := newMergerFixture()

	f.bills[10] = &models.Bill{ID: 10, Stage: models.StageProposed}
	f.bills[20] = &models.Bill{ID: 20, Stage: models.StageProposed}
	f.socialSkips["follows"] = 2

	// Conflicting follows are dropped silently; the merge still succeeds
	require.NoError(t, m.MergeBills(context.Background(), 10, 20))
	assert.Equal(t, []int64{20, 10}, f.socialBilled["follows"])
	assert.Equal(t, []int64{20}, f.deletedBills)
}

func TestMergeLaws(t *testing.T) {
	f, m := newMergerFixture()

	f.laws[1] = &models.Law{ID: 1, Title: "חוק הביטוח הלאומי"}
	f.laws[2] = &models.Law{ID: 2, Title: "חוק הביטוח הלאומי (נוסח משולב)"}
	f.bills[10] = &models.Bill{ID: 10, LawID: ptr(int64(2))}

	require.NoError(t, m.MergeLaws(context.Background(), 1, 2))

	require.NotNil(t, f.laws[2].MergedIntoID)
	assert.Equal(t, int64(1), *f.laws[2].MergedIntoID)
	assert.Equal(t, int64(1), *f.bills[10].LawID)

	// The merged law is kept as a tombstone, not deleted
	_, exists := f.laws[2]
	assert.True(t, exists)
}

func TestMergeLawsIntoItself(t *testing.T) {
	f, m := newMergerFixture()
	f.laws[1] = &models.Law{ID: 1}

	require.NoError(t, m.MergeLaws(context.Background(), 1, 1))
	assert.Nil(t, f.laws[1].MergedIntoID)
}
