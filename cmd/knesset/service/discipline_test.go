package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karopastal/Open-Knesset/common/cache"
	"github.com/karopastal/Open-Knesset/common/models"
)

// disciplineFixture records votes for member 1 (party 1, coalition) and
// member 2 (party 2, opposition): member 1 cast 10 ballots of which 2 went
// against the party and 1 against the coalition, member 2 cast 4 ballots
// with no deviations. One extra vote predates the current Knesset.
func disciplineFixture() *fakeStore {
	f := newFakeStore()
	start := day(2015, time.January, 1)

	f.knesset = &models.Knesset{Number: 20, StartDate: day(2019, time.April, 30)}

	f.addParty(&models.Party{ID: 1, Name: "A", Seats: 10, IsCoalition: true})
	f.addParty(&models.Party{ID: 2, Name: "B", Seats: 5, IsCoalition: false})
	addMember(f, 1, 1, start)
	addMember(f, 2, 2, start)

	var actionID int64
	record := func(voteID int64, when time.Time, memberID int64, typ models.VoteActionType,
		againstParty, againstCoalition bool) {
		if _, ok := f.votes[voteID]; !ok {
			f.votes[voteID] = &models.Vote{ID: voteID, Time: when}
		}
		actionID++
		f.actions[voteID] = append(f.actions[voteID], &models.VoteAction{
			ID: actionID, VoteID: voteID, MemberID: memberID, Type: typ,
			AgainstParty: againstParty, AgainstCoalition: againstCoalition,
		})
	}

	for i := int64(0); i < 10; i++ {
		when := day(2020, time.January, 1+int(i))
		record(100+i, when, 1, models.VoteFor, i < 2, i < 1)
	}
	for i := int64(0); i < 4; i++ {
		when := day(2020, time.February, 1+int(i))
		record(200+i, when, 2, models.VoteAgainst, false, false)
	}

	// Before the current Knesset convened; member stats see it, party
	// stats do not.
	record(300, day(2018, time.March, 1), 1, models.VoteFor, false, false)

	// A no-vote never counts
	record(301, day(2020, time.March, 1), 1, models.VoteNoVote, false, false)

	return f
}

func newDiscipline(f *fakeStore, statsCache cache.Cache) *Discipline {
	d := NewDiscipline(f, f, f, f, statsCache, time.Hour, 3, testLogger())
	d.now = func() time.Time { return day(2020, time.June, 1) }
	return d
}

func TestMemberVotesCount(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	count, err := d.MemberVotesCount(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, count)

	from := day(2019, time.April, 30)
	count, err = d.MemberVotesCount(context.Background(), 1, &from)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestMemberVotesCountCached(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, cache.NewMemoryCache())

	count, err := d.MemberVotesCount(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Equal(t, 11, count)

	// Remove the underlying data; the cached count survives until the TTL
	f.actions = map[int64][]*models.VoteAction{}
	count, err = d.MemberVotesCount(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, count)
}

func TestMemberDiscipline(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	// 11 ballots, 2 against the party
	value, ok, err := d.MemberDiscipline(context.Background(), 1, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 81.8, value, 0.001)
}

func TestMemberDisciplineSmallSample(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	// Member 2 has 4 ballots; guard requires strictly more than 3... it has
	// exactly 4, so the percentage is computed.
	value, ok, err := d.MemberDiscipline(context.Background(), 2, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 100.0, value, 0.001)

	// Shrink to 3 ballots: below the sample floor, no value
	f.actions[203] = nil
	_, ok, err = d.MemberDiscipline(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemberCoalitionDiscipline(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	// Coalition member: flags compared against the coalition stand
	value, ok, err := d.MemberCoalitionDiscipline(context.Background(), 1, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 90.9, value, 0.001)
}

func TestMemberAverageVotesPerMonth(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	f.members[1].ServiceStart = day(2020, time.January, 2)
	// 151 days of service, 11 ballots
	value, err := d.MemberAverageVotesPerMonth(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 30.0*11.0/151.0, value, 0.001)
}

func TestPartyVotesCountBoundedByKnesset(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	// The 2018 ballot is out of term, the no-vote is excluded
	count, err := d.PartyVotesCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestPartyDiscipline(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	value, ok, err := d.PartyDiscipline(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 80.0, value, 0.001)
}

func TestPartyVotesPerSeat(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	value, err := d.PartyVotesPerSeat(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, value, 0.001)
}

func TestPartyVotesPerSeatZeroSeats(t *testing.T) {
	f := disciplineFixture()
	f.parties[1].Seats = 0
	d := newDiscipline(f, nil)

	_, err := d.PartyVotesPerSeat(context.Background(), 1)
	require.ErrorIs(t, err, ErrZeroSeats)
}

func TestListStatistics(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	members := []int64{1, 2}

	count, err := d.ListVotesCount(context.Background(), members)
	require.NoError(t, err)
	assert.Equal(t, 15, count)

	value, ok, err := d.ListDiscipline(context.Background(), members)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, round1(100.0*13.0/15.0), value, 0.001)

	perSeat, err := d.ListVotesPerSeat(context.Background(), members)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, perSeat, 0.001)
}

func TestListVotesPerSeatEmptyList(t *testing.T) {
	f := disciplineFixture()
	d := newDiscipline(f, nil)

	_, err := d.ListVotesPerSeat(context.Background(), nil)
	require.ErrorIs(t, err, ErrZeroSeats)
}
