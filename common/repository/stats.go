package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// StatsRepository counts persisted vote actions for the discipline and
// activity statistics
type StatsRepository struct {
	db *db.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(database *db.DB) *StatsRepository {
	return &StatsRepository{db: database}
}

// CountActions counts vote actions matching the filter
func (r *StatsRepository) CountActions(ctx context.Context, f ActionFilter) (int, error) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.MemberID != nil {
		where = append(where, "va.member_id = "+arg(*f.MemberID))
	}
	if f.MemberIDs != nil {
		where = append(where, "va.member_id = ANY("+arg(f.MemberIDs)+")")
	}
	if f.CurrentPartyID != nil {
		where = append(where, "m.current_party_id = "+arg(*f.CurrentPartyID))
	}
	if f.From != nil {
		where = append(where, "v.time > "+arg(*f.From))
	}
	if f.AgainstParty {
		where = append(where, "va.against_party")
	}
	if f.AgainstCoalition {
		where = append(where, "va.against_coalition")
	}
	if f.AgainstOpposition {
		where = append(where, "va.against_opposition")
	}
	if f.ExcludeNoVote {
		where = append(where, "va.type <> "+arg(models.VoteNoVote))
	}

	query := `
		SELECT COUNT(*)
		FROM vote_action va
		JOIN vote v ON v.vote_id = va.vote_id
		JOIN member m ON m.member_id = va.member_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vote actions: %w", err)
	}
	return count, nil
}
