package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karopastal/Open-Knesset/common/models"
)

func addMember(f *fakeStore, id, partyID int64, since time.Time) {
	f.members[id] = &models.Member{
		ID:             id,
		CurrentPartyID: partyID,
		ServiceStart:   since,
		Memberships: []models.PartyMembership{
			{MemberID: id, PartyID: partyID, Since: since},
		},
	}
}

// splitVoteFixture builds the canonical split vote: party A (coalition,
// members 1-9) casts 8 for and 1 against; party B (opposition, members
// 10-15) casts 2 for and 4 against.
func splitVoteFixture() *fakeStore {
	f := newFakeStore()
	start := day(2019, time.April, 30)

	f.addParty(&models.Party{
		ID: 1, Name: "A", Seats: 30, IsCoalition: true,
		CoalitionSpans: []models.CoalitionSpan{{PartyID: 1, IsCoalition: true, Since: start}},
	})
	f.addParty(&models.Party{
		ID: 2, Name: "B", Seats: 20, IsCoalition: false,
	})

	for id := int64(1); id <= 9; id++ {
		addMember(f, id, 1, start)
	}
	for id := int64(10); id <= 15; id++ {
		addMember(f, id, 2, start)
	}

	f.votes[100] = &models.Vote{ID: 100, Title: "some title", Time: day(2021, time.March, 10)}

	cast := func(memberID int64, typ models.VoteActionType) {
		f.actions[100] = append(f.actions[100], &models.VoteAction{
			ID: memberID, VoteID: 100, MemberID: memberID, Type: typ,
		})
	}
	for id := int64(1); id <= 8; id++ {
		cast(id, models.VoteFor)
	}
	cast(9, models.VoteAgainst)
	cast(10, models.VoteFor)
	cast(11, models.VoteFor)
	for id := int64(12); id <= 15; id++ {
		cast(id, models.VoteAgainst)
	}

	return f
}

func TestClassifySplitVote(t *testing.T) {
	f := splitVoteFixture()
	c := NewClassifier(f, f, f, f, 0.5, testLogger())

	require.NoError(t, c.Classify(context.Background(), 100))

	vote := f.votes[100]
	assert.Equal(t, 15, vote.VotesCount)
	assert.Equal(t, 10, vote.ForVotesCount)
	assert.Equal(t, 5, vote.AgainstVotesCount)
	assert.Equal(t, 0, vote.AbstainVotesCount)
	assert.Equal(t, 5, vote.Controversy)

	// Party A stands for (8 of 9), party B stands against (4 of 6).
	// Deviators: member 9 against A's stand, members 10 and 11 against B's.
	assert.Equal(t, 3, vote.AgainstParty)

	byMember := make(map[int64]*models.VoteAction)
	for _, a := range f.actions[100] {
		byMember[a.MemberID] = a
	}
	assert.True(t, byMember[9].AgainstParty)
	assert.True(t, byMember[10].AgainstParty)
	assert.True(t, byMember[11].AgainstParty)
	assert.False(t, byMember[1].AgainstParty)
	assert.False(t, byMember[12].AgainstParty)

	// Coalition (A) stands for: member 9 also deviates from the coalition.
	// Opposition (B) stands against: members 10 and 11 deviate from it.
	assert.Equal(t, 1, vote.AgainstCoalition)
	assert.Equal(t, 2, vote.AgainstOpposition)
	assert.True(t, byMember[9].AgainstCoalition)
	assert.False(t, byMember[9].AgainstOpposition)
	assert.True(t, byMember[10].AgainstOpposition)
	assert.False(t, byMember[10].AgainstCoalition)

	assert.Equal(t, 1, f.savedAggregates)
	assert.Equal(t, 15, f.savedFlags)
}

func TestClassifyIdempotent(t *testing.T) {
	f := splitVoteFixture()
	c := NewClassifier(f, f, f, f, 0.5, testLogger())

	require.NoError(t, c.Classify(context.Background(), 100))
	first := *f.votes[100]

	require.NoError(t, c.Classify(context.Background(), 100))
	assert.Equal(t, first, *f.votes[100])
}

func TestClassifyEvenSplitTakesNoStand(t *testing.T) {
	f := newFakeStore()
	start := day(2019, time.April, 30)
	f.addParty(&models.Party{ID: 1, Name: "A", Seats: 4})
	for id := int64(1); id <= 4; id++ {
		addMember(f, id, 1, start)
	}

	f.votes[100] = &models.Vote{ID: 100, Time: day(2021, time.March, 10)}
	f.actions[100] = []*models.VoteAction{
		{ID: 1, VoteID: 100, MemberID: 1, Type: models.VoteFor},
		{ID: 2, VoteID: 100, MemberID: 2, Type: models.VoteFor},
		{ID: 3, VoteID: 100, MemberID: 3, Type: models.VoteAgainst},
		{ID: 4, VoteID: 100, MemberID: 4, Type: models.VoteAgainst},
	}

	c := NewClassifier(f, f, f, f, 0.5, testLogger())
	require.NoError(t, c.Classify(context.Background(), 100))

	// 2 for of 4 does not strictly exceed half: no stand, no deviators
	assert.Equal(t, 0, f.votes[100].AgainstParty)
	assert.Equal(t, 2, f.votes[100].Controversy)
}

func TestClassifyNoVotesIgnoredInTallies(t *testing.T) {
	f := newFakeStore()
	start := day(2019, time.April, 30)
	f.addParty(&models.Party{ID: 1, Name: "A", Seats: 5})
	for id := int64(1); id <= 5; id++ {
		addMember(f, id, 1, start)
	}

	f.votes[100] = &models.Vote{ID: 100, Time: day(2021, time.March, 10)}
	f.actions[100] = []*models.VoteAction{
		{ID: 1, VoteID: 100, MemberID: 1, Type: models.VoteFor},
		{ID: 2, VoteID: 100, MemberID: 2, Type: models.VoteFor},
		{ID: 3, VoteID: 100, MemberID: 3, Type: models.VoteAbstain},
		{ID: 4, VoteID: 100, MemberID: 4, Type: models.VoteNoVote},
		{ID: 5, VoteID: 100, MemberID: 5, Type: models.VoteNoVote},
	}

	c := NewClassifier(f, f, f, f, 0.5, testLogger())
	require.NoError(t, c.Classify(context.Background(), 100))

	vote := f.votes[100]
	assert.Equal(t, 5, vote.VotesCount)
	assert.Equal(t, 2, vote.ForVotesCount)
	assert.Equal(t, 0, vote.AgainstVotesCount)
	assert.Equal(t, 1, vote.AbstainVotesCount)
	// 2 for, 0 against: the party stands for and nobody deviates
	assert.Equal(t, 0, vote.AgainstParty)
}

func TestClassifyAgainstOwnBill(t *testing.T) {
	f := splitVoteFixture()
	// Member 9 proposed a bill decided by this vote and voted against it
	f.bills[7] = &models.Bill{ID: 7, PreVoteIDs: []int64{100}, ProposerIDs: []int64{9}}

	c := NewClassifier(f, f, f, f, 0.5, testLogger())
	require.NoError(t, c.Classify(context.Background(), 100))

	assert.Equal(t, 1, f.votes[100].AgainstOwnBill)
	for _, a := range f.actions[100] {
		if a.MemberID == 9 {
			assert.True(t, a.AgainstOwnBill)
		} else {
			assert.False(t, a.AgainstOwnBill)
		}
	}
}

func TestClassifyUnresolvablePartyAborts(t *testing.T) {
	f := splitVoteFixture()
	// Member 9's affiliation history starts after the vote date
	f.members[9].Memberships = []models.PartyMembership{
		{MemberID: 9, PartyID: 1, Since: day(2022, time.January, 1)},
	}

	c := NewClassifier(f, f, f, f, 0.5, testLogger())
	err := c.Classify(context.Background(), 100)

	require.ErrorIs(t, err, ErrNoParty)
	assert.Equal(t, 0, f.savedFlags)
	assert.Equal(t, 0, f.savedAggregates)
}

func TestClassifyResolvesPartyAtVoteDate(t *testing.T) {
	f := splitVoteFixture()
	// Member 1 defected from A to B after the vote; the vote still counts
	// toward A.
	f.members[1].CurrentPartyID = 2
	f.members[1].Memberships = append(f.members[1].Memberships,
		models.PartyMembership{MemberID: 1, PartyID: 2, Since: day(2021, time.June, 1)})

	c := NewClassifier(f, f, f, f, 0.5, testLogger())
	require.NoError(t, c.Classify(context.Background(), 100))

	for _, a := range f.actions[100] {
		if a.MemberID == 1 {
			assert.Equal(t, int64(1), a.PartyID)
			assert.False(t, a.AgainstParty)
		}
	}
}

func TestClassifySetsVoteType(t *testing.T) {
	f := splitVoteFixture()
	f.votes[100].Title = "אישור החוק - חוק הביטוח הלאומי"

	c := NewClassifier(f, f, f, f, 0.5, testLogger())
	require.NoError(t, c.Classify(context.Background(), 100))

	assert.Equal(t, models.VoteTypeLawApprove, f.votes[100].VoteType)
}

func TestBlocStandThreshold(t *testing.T) {
	cases := []struct {
		name      string
		forCount  int
		against   int
		threshold float64
		want      Stand
	}{
		{"clear majority for", 8, 1, 0.5, StandFor},
		{"clear majority against", 2, 4, 0.5, StandAgainst},
		{"even split", 3, 3, 0.5, StandNone},
		{"no ballots", 0, 0, 0.5, StandNone},
		{"exactly at threshold", 3, 1, 0.75, StandNone},
		{"above raised threshold", 4, 1, 0.75, StandFor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, blocStand(tc.forCount, tc.against, tc.threshold))
		})
	}
}
