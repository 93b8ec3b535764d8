package repository

import (
	"context"
	"fmt"

	"github.com/karopastal/Open-Knesset/common/db"
)

// SocialRepository reassigns social-engagement records between bills during
// a merge
type SocialRepository struct {
	db *db.DB
}

// NewSocialRepository creates a new social repository
func NewSocialRepository(database *db.DB) *SocialRepository {
	return &SocialRepository{db: database}
}

// ReassignComments moves all comments from one bill to another. Comments
// carry no uniqueness constraint so nothing is skipped.
func (r *SocialRepository) ReassignComments(ctx context.Context, fromBillID, toBillID int64) error {
	query := `UPDATE comment SET bill_id = $2 WHERE bill_id = $1`

	_, err := r.db.Exec(ctx, query, fromBillID, toBillID)
	if err != nil {
		return fmt.Errorf("failed to reassign comments: %w", err)
	}
	return nil
}

// ReassignUserVotes moves user votes, skipping those whose owner already
// voted on the target bill
func (r *SocialRepository) ReassignUserVotes(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return r.reassignUnique(ctx, "user_vote", "user_id", fromBillID, toBillID)
}

// ReassignFollows moves follows, skipping those whose owner already follows
// the target bill
func (r *SocialRepository) ReassignFollows(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return r.reassignUnique(ctx, "follow", "user_id", fromBillID, toBillID)
}

// ReassignTags moves tag links, skipping tags already present on the target
// bill
func (r *SocialRepository) ReassignTags(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return r.reassignUnique(ctx, "tagged_item", "tag_id", fromBillID, toBillID)
}

// ReassignAgendaLinks moves agenda links, skipping agendas already linked to
// the target bill
func (r *SocialRepository) ReassignAgendaLinks(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return r.reassignUnique(ctx, "agenda_link", "agenda_id", fromBillID, toBillID)
}

// ReassignBudgetEstimations moves budget estimations, skipping those whose
// estimator already estimated the target bill
func (r *SocialRepository) ReassignBudgetEstimations(ctx context.Context, fromBillID, toBillID int64) (int, error) {
	return r.reassignUnique(ctx, "budget_estimation", "estimator_id", fromBillID, toBillID)
}

// reassignUnique moves rows from one bill to another where (bill_id, key)
// is unique, leaving conflicting rows behind. It returns the number left
// behind; the source bill's deletion cascades them away.
func (r *SocialRepository) reassignUnique(ctx context.Context, table, key string, fromBillID, toBillID int64) (int, error) {
	update := fmt.Sprintf(`
		UPDATE %[1]s src
		SET bill_id = $2
		WHERE src.bill_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM %[1]s dst
			WHERE dst.bill_id = $2 AND dst.%[2]s = src.%[2]s
		  )
	`, table, key)

	_, err := r.db.Exec(ctx, update, fromBillID, toBillID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign %s: %w", table, err)
	}

	var skipped int
	count := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE bill_id = $1`, table)
	if err := r.db.QueryRow(ctx, count, fromBillID).Scan(&skipped); err != nil {
		return 0, fmt.Errorf("failed to count skipped %s: %w", table, err)
	}
	return skipped, nil
}
