package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// KnessetRepository handles database operations for Knesset terms
type KnessetRepository struct {
	db *db.DB
}

// NewKnessetRepository creates a new knesset repository
func NewKnessetRepository(database *db.DB) *KnessetRepository {
	return &KnessetRepository{db: database}
}

// CurrentKnesset returns the latest Knesset term, or ErrNotFound when no
// terms are loaded
func (r *KnessetRepository) CurrentKnesset(ctx context.Context) (*models.Knesset, error) {
	query := `
		SELECT number, start_date, end_date
		FROM knesset
		ORDER BY number DESC
		LIMIT 1
	`

	knesset := &models.Knesset{}
	err := r.db.QueryRow(ctx, query).Scan(
		&knesset.Number,
		&knesset.StartDate,
		&knesset.EndDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("current knesset: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current knesset: %w", err)
	}

	return knesset, nil
}
