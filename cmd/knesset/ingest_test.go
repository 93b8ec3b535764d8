package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karopastal/Open-Knesset/cmd/knesset/service"
	"github.com/karopastal/Open-Knesset/common/models"
)

func writeRowsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileVotesSourceFiltersByVote(t *testing.T) {
	path := writeRowsFile(t, `[
		{"vote_id": 9914, "member_id": 730, "party": "העבודה", "vote": "for"},
		{"vote_id": 9914, "member_id": 731, "party": "הליכוד", "vote": "against"},
		{"vote_id": 9915, "member_id": 730, "party": "העבודה", "vote": "abstain"}
	]`)

	source, err := newFileVotesSource(path)
	require.NoError(t, err)

	rows, err := source.ReadMemberVotes(context.Background(), &models.Vote{ID: 9914})
	require.NoError(t, err)
	assert.Equal(t, []service.MemberVoteRow{
		{MemberID: 730, PartyName: "העבודה", Direction: models.VoteFor},
		{MemberID: 731, PartyName: "הליכוד", Direction: models.VoteAgainst},
	}, rows)

	rows, err = source.ReadMemberVotes(context.Background(), &models.Vote{ID: 9915})
	require.NoError(t, err)
	assert.Equal(t, []service.MemberVoteRow{
		{MemberID: 730, PartyName: "העבודה", Direction: models.VoteAbstain},
	}, rows)
}

func TestFileVotesSourceUnknownDirection(t *testing.T) {
	path := writeRowsFile(t, `[{"vote_id": 1, "member_id": 2, "party": "x", "vote": "maybe"}]`)

	source, err := newFileVotesSource(path)
	require.NoError(t, err)

	_, err = source.ReadMemberVotes(context.Background(), &models.Vote{ID: 1})
	assert.ErrorContains(t, err, `unknown vote direction "maybe"`)
}

func TestFileVotesSourceBadFile(t *testing.T) {
	_, err := newFileVotesSource(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeRowsFile(t, `{"not": "an array"}`)
	_, err = newFileVotesSource(path)
	assert.ErrorContains(t, err, "parse rows file")
}
