package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// MemberRepository handles database operations for members and their
// affiliation history
type MemberRepository struct {
	db *db.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(database *db.DB) *MemberRepository {
	return &MemberRepository{db: database}
}

// GetMember retrieves a member with their party membership spans
func (r *MemberRepository) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	query := `
		SELECT member_id, name, current_party_id, service_start, service_end
		FROM member
		WHERE member_id = $1
	`

	member := &models.Member{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.Name,
		&member.CurrentPartyID,
		&member.ServiceStart,
		&member.ServiceEnd,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	memberships, err := r.memberships(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	member.Memberships = memberships[id]

	return member, nil
}

// GetMembers retrieves members by ID, keyed by member ID. Missing IDs are
// simply absent from the result.
func (r *MemberRepository) GetMembers(ctx context.Context, ids []int64) (map[int64]*models.Member, error) {
	if len(ids) == 0 {
		return map[int64]*models.Member{}, nil
	}

	query := `
		SELECT member_id, name, current_party_id, service_start, service_end
		FROM member
		WHERE member_id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make(map[int64]*models.Member)
	for rows.Next() {
		member := &models.Member{}
		err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.CurrentPartyID,
			&member.ServiceStart,
			&member.ServiceEnd,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[member.ID] = member
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	memberships, err := r.memberships(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, spans := range memberships {
		if member, exists := members[id]; exists {
			member.Memberships = spans
		}
	}

	return members, nil
}

// memberships loads affiliation spans for the given members, ordered by
// effective date
func (r *MemberRepository) memberships(ctx context.Context, ids []int64) (map[int64][]models.PartyMembership, error) {
	query := `
		SELECT member_id, party_id, since
		FROM party_membership
		WHERE member_id = ANY($1)
		ORDER BY member_id, since
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.PartyMembership)
	for rows.Next() {
		var span models.PartyMembership
		if err := rows.Scan(&span.MemberID, &span.PartyID, &span.Since); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		result[span.MemberID] = append(result[span.MemberID], span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read memberships: %w", err)
	}

	return result, nil
}
