package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// LawRepository handles database operations for laws
type LawRepository struct {
	db *db.DB
}

// NewLawRepository creates a new law repository
func NewLawRepository(database *db.DB) *LawRepository {
	return &LawRepository{db: database}
}

// GetLaw retrieves a law
func (r *LawRepository) GetLaw(ctx context.Context, id int64) (*models.Law, error) {
	query := `SELECT law_id, title, merged_into_id FROM law WHERE law_id = $1`

	law := &models.Law{}
	err := r.db.QueryRow(ctx, query, id).Scan(&law.ID, &law.Title, &law.MergedIntoID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("law %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get law: %w", err)
	}
	return law, nil
}

// ReassignLawProposals moves all proposals from one law to another
func (r *LawRepository) ReassignLawProposals(ctx context.Context, fromLawID, toLawID int64) error {
	query := `UPDATE bill_proposal SET law_id = $2 WHERE law_id = $1`

	_, err := r.db.Exec(ctx, query, fromLawID, toLawID)
	if err != nil {
		return fmt.Errorf("failed to reassign law proposals: %w", err)
	}
	return nil
}

// ReassignLawBills moves all bills from one law to another
func (r *LawRepository) ReassignLawBills(ctx context.Context, fromLawID, toLawID int64) error {
	query := `UPDATE bill SET law_id = $2 WHERE law_id = $1`

	_, err := r.db.Exec(ctx, query, fromLawID, toLawID)
	if err != nil {
		return fmt.Errorf("failed to reassign law bills: %w", err)
	}
	return nil
}

// MarkMerged records that a law was folded into another
func (r *LawRepository) MarkMerged(ctx context.Context, lawID, intoLawID int64) error {
	query := `UPDATE law SET merged_into_id = $2 WHERE law_id = $1`

	_, err := r.db.Exec(ctx, query, lawID, intoLawID)
	if err != nil {
		return fmt.Errorf("failed to mark law merged: %w", err)
	}
	return nil
}
