package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// PartyRepository handles database operations for parties and their
// coalition history
type PartyRepository struct {
	db *db.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(database *db.DB) *PartyRepository {
	return &PartyRepository{db: database}
}

// GetParty retrieves a party with its coalition spans
func (r *PartyRepository) GetParty(ctx context.Context, id int64) (*models.Party, error) {
	query := `
		SELECT party_id, name, seats, is_coalition
		FROM party
		WHERE party_id = $1
	`

	party := &models.Party{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&party.ID,
		&party.Name,
		&party.Seats,
		&party.IsCoalition,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("party %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}

	spans, err := r.coalitionSpans(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	party.CoalitionSpans = spans[id]

	return party, nil
}

// ListParties retrieves all parties with their coalition spans
func (r *PartyRepository) ListParties(ctx context.Context) ([]*models.Party, error) {
	query := `
		SELECT party_id, name, seats, is_coalition
		FROM party
		ORDER BY party_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	var parties []*models.Party
	var ids []int64
	for rows.Next() {
		party := &models.Party{}
		err := rows.Scan(&party.ID, &party.Name, &party.Seats, &party.IsCoalition)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
		ids = append(ids, party.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parties: %w", err)
	}

	spans, err := r.coalitionSpans(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, party := range parties {
		party.CoalitionSpans = spans[party.ID]
	}

	return parties, nil
}

func (r *PartyRepository) coalitionSpans(ctx context.Context, ids []int64) (map[int64][]models.CoalitionSpan, error) {
	if len(ids) == 0 {
		return map[int64][]models.CoalitionSpan{}, nil
	}

	query := `
		SELECT party_id, since, is_coalition
		FROM coalition_span
		WHERE party_id = ANY($1)
		ORDER BY party_id, since
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list coalition spans: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.CoalitionSpan)
	for rows.Next() {
		var span models.CoalitionSpan
		if err := rows.Scan(&span.PartyID, &span.Since, &span.IsCoalition); err != nil {
			return nil, fmt.Errorf("failed to scan coalition span: %w", err)
		}
		result[span.PartyID] = append(result[span.PartyID], span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coalition spans: %w", err)
	}

	return result, nil
}
