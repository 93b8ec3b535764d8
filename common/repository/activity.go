package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// ActivityRepository handles database operations for bill activity streams
type ActivityRepository struct {
	db *db.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(database *db.DB) *ActivityRepository {
	return &ActivityRepository{db: database}
}

// ReplaceStream clears a bill's activity stream and writes the regenerated
// entries in one transaction
func (r *ActivityRepository) ReplaceStream(ctx context.Context, billID int64, entries []*models.ActivityEntry) error {
	return r.db.WithinTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM bill_activity WHERE bill_id = $1`, billID)
		if err != nil {
			return fmt.Errorf("failed to clear activity stream: %w", err)
		}

		batch := &pgx.Batch{}
		insert := `
			INSERT INTO bill_activity (entry_id, bill_id, verb, target_type, target_id, timestamp, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, entry := range entries {
			batch.Queue(insert,
				entry.ID,
				entry.BillID,
				entry.Verb,
				entry.TargetType,
				entry.TargetID,
				entry.Timestamp,
				entry.Description,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range entries {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert activity entry: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to flush activity batch: %w", err)
		}
		return nil
	})
}

// ListStream retrieves a bill's activity entries, oldest first
func (r *ActivityRepository) ListStream(ctx context.Context, billID int64) ([]*models.ActivityEntry, error) {
	query := `
		SELECT entry_id, bill_id, verb, target_type, target_id, timestamp, description
		FROM bill_activity
		WHERE bill_id = $1
		ORDER BY timestamp, entry_id
	`

	rows, err := r.db.Query(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity stream: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityEntry
	for rows.Next() {
		entry := &models.ActivityEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.BillID,
			&entry.Verb,
			&entry.TargetType,
			&entry.TargetID,
			&entry.Timestamp,
			&entry.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity stream: %w", err)
	}

	return entries, nil
}
