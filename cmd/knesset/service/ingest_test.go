package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karopastal/Open-Knesset/common/models"
)

type fakeVotesPage struct {
	rows []MemberVoteRow
}

func (s *fakeVotesPage) ReadMemberVotes(ctx context.Context, vote *models.Vote) ([]MemberVoteRow, error) {
	return s.rows, nil
}

func TestReparseMembersFromVotesPage(t *testing.T) {
	f := splitVoteFixture()
	// Member 15's action is missing from the database but present on the page
	f.actions[100] = f.actions[100][:14]

	source := &fakeVotesPage{rows: []MemberVoteRow{
		{MemberID: 14, PartyName: "B", Direction: models.VoteAgainst},
		{MemberID: 15, PartyName: "B", Direction: models.VoteAgainst},
	}}

	classifier := NewClassifier(f, f, f, f, 0.5, testLogger())
	ingestor := NewIngestor(source, f, f, classifier, testLogger())

	require.NoError(t, ingestor.ReparseMembersFromVotesPage(context.Background(), 100))

	assert.Len(t, f.actions[100], 15)

	// The vote was reclassified with the recovered action
	vote := f.votes[100]
	assert.Equal(t, 15, vote.VotesCount)
	assert.Equal(t, 5, vote.AgainstVotesCount)
}

func TestReparseSkipsUnknownMembers(t *testing.T) {
	f := splitVoteFixture()

	source := &fakeVotesPage{rows: []MemberVoteRow{
		{MemberID: 999, PartyName: "?", Direction: models.VoteFor},
		{MemberID: 1, PartyName: "A", Direction: models.VoteFor},
	}}

	classifier := NewClassifier(f, f, f, f, 0.5, testLogger())
	ingestor := NewIngestor(source, f, f, classifier, testLogger())

	// The unknown member row is logged and dropped, not fatal
	require.NoError(t, ingestor.ReparseMembersFromVotesPage(context.Background(), 100))
	assert.Len(t, f.actions[100], 15)
}

func TestPartyAtSpans(t *testing.T) {
	member := &models.Member{
		ID: 1,
		Memberships: []models.PartyMembership{
			{MemberID: 1, PartyID: 10, Since: day(2015, time.January, 1)},
			{MemberID: 1, PartyID: 20, Since: day(2019, time.June, 1)},
		},
	}

	partyID, ok := member.PartyAt(day(2016, time.March, 1))
	require.True(t, ok)
	assert.Equal(t, int64(10), partyID)

	partyID, ok = member.PartyAt(day(2019, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, int64(20), partyID)

	_, ok = member.PartyAt(day(2014, time.December, 31))
	assert.False(t, ok)
}

func TestIsCoalitionAtSpans(t *testing.T) {
	party := &models.Party{
		ID: 1,
		CoalitionSpans: []models.CoalitionSpan{
			{PartyID: 1, IsCoalition: true, Since: day(2019, time.April, 30)},
			{PartyID: 1, IsCoalition: false, Since: day(2021, time.June, 13)},
		},
	}

	assert.False(t, party.IsCoalitionAt(day(2019, time.January, 1)))
	assert.True(t, party.IsCoalitionAt(day(2020, time.June, 1)))
	assert.False(t, party.IsCoalitionAt(day(2022, time.January, 1)))
}

func TestVoteTypeForTitle(t *testing.T) {
	cases := []struct {
		title string
		want  models.VoteType
	}{
		{"אישור החוק - חוק כלשהו", models.VoteTypeLawApprove},
		{"הסתייגות לסעיף 2", models.VoteTypeDemurrer},
		{"להעביר את הצעת החוק לוועדה", models.VoteTypePassToCommittee},
		{"הצעת אי-אמון בממשלה", models.VoteTypeNoConfidence},
		{"סתם כותרת", models.VoteTypeUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, models.VoteTypeForTitle(tc.title))
	}
}
