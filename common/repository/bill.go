package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// BillRepository handles database operations for bills and their weak
// relations
type BillRepository struct {
	db *db.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(database *db.DB) *BillRepository {
	return &BillRepository{db: database}
}

const billColumns = `
	bill_id, title, full_title, slug, popular_name,
	law_id, stage, stage_date, first_vote_id, approval_vote_id
`

func scanBill(row pgx.Row) (*models.Bill, error) {
	bill := &models.Bill{}
	err := row.Scan(
		&bill.ID, &bill.Title, &bill.FullTitle, &bill.Slug, &bill.PopularName,
		&bill.LawID, &bill.Stage, &bill.StageDate, &bill.FirstVoteID, &bill.ApprovalVoteID,
	)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// GetBill retrieves a bill with its weak relations loaded
func (r *BillRepository) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bill WHERE bill_id = $1`

	bill, err := scanBill(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bill %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := r.loadRelations(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// BillsForVote returns every bill referencing the vote as a pre-vote, first
// vote or approval vote
func (r *BillRepository) BillsForVote(ctx context.Context, voteID int64) ([]*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bill
		WHERE first_vote_id = $1
		   OR approval_vote_id = $1
		   OR bill_id IN (SELECT bill_id FROM bill_pre_vote WHERE vote_id = $1)
		ORDER BY bill_id
	`

	rows, err := r.db.Query(ctx, query, voteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills for vote: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bills: %w", err)
	}

	for _, bill := range bills {
		if err := r.loadRelations(ctx, bill); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func (r *BillRepository) loadRelations(ctx context.Context, bill *models.Bill) error {
	var err error
	bill.PreVoteIDs, err = r.relationIDs(ctx, "bill_pre_vote", "vote_id", bill.ID)
	if err != nil {
		return err
	}
	bill.FirstMeetingIDs, err = r.relationIDs(ctx, "bill_first_meeting", "meeting_id", bill.ID)
	if err != nil {
		return err
	}
	bill.SecondMeetingIDs, err = r.relationIDs(ctx, "bill_second_meeting", "meeting_id", bill.ID)
	if err != nil {
		return err
	}
	bill.ProposerIDs, err = r.relationIDs(ctx, "bill_proposer", "member_id", bill.ID)
	if err != nil {
		return err
	}
	bill.JoinerIDs, err = r.relationIDs(ctx, "bill_joiner", "member_id", bill.ID)
	if err != nil {
		return err
	}
	return nil
}

func (r *BillRepository) relationIDs(ctx context.Context, table, column string, billID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE bill_id = $1 ORDER BY %s`, column, table, column)

	rows, err := r.db.Query(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return ids, nil
}

// SaveStage persists a recomputed stage and stage date
func (r *BillRepository) SaveStage(ctx context.Context, billID int64, stage models.BillStage, stageDate time.Time) error {
	query := `UPDATE bill SET stage = $2, stage_date = $3 WHERE bill_id = $1`

	_, err := r.db.Exec(ctx, query, billID, stage, stageDate)
	if err != nil {
		return fmt.Errorf("failed to save bill stage: %w", err)
	}
	return nil
}

// AddPreVote links a vote to the bill as a pre-vote
func (r *BillRepository) AddPreVote(ctx context.Context, billID, voteID int64) error {
	return r.addRelation(ctx, "bill_pre_vote", "vote_id", billID, voteID)
}

// AddFirstMeeting links a committee meeting to the bill's first-reading
// preparation
func (r *BillRepository) AddFirstMeeting(ctx context.Context, billID, meetingID int64) error {
	return r.addRelation(ctx, "bill_first_meeting", "meeting_id", billID, meetingID)
}

// AddSecondMeeting links a committee meeting to the bill's post-first-vote
// corrections
func (r *BillRepository) AddSecondMeeting(ctx context.Context, billID, meetingID int64) error {
	return r.addRelation(ctx, "bill_second_meeting", "meeting_id", billID, meetingID)
}

// AddProposer links a member to the bill as a proposer
func (r *BillRepository) AddProposer(ctx context.Context, billID, memberID int64) error {
	return r.addRelation(ctx, "bill_proposer", "member_id", billID, memberID)
}

func (r *BillRepository) addRelation(ctx context.Context, table, column string, billID, targetID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (bill_id, %s)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, table, column)

	_, err := r.db.Exec(ctx, query, billID, targetID)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", table, err)
	}
	return nil
}

// SetFirstVote sets the bill's first-reading vote
func (r *BillRepository) SetFirstVote(ctx context.Context, billID, voteID int64) error {
	query := `UPDATE bill SET first_vote_id = $2 WHERE bill_id = $1`

	_, err := r.db.Exec(ctx, query, billID, voteID)
	if err != nil {
		return fmt.Errorf("failed to set first vote: %w", err)
	}
	return nil
}

// SetApprovalVote sets the bill's final approval vote
func (r *BillRepository) SetApprovalVote(ctx context.Context, billID, voteID int64) error {
	query := `UPDATE bill SET approval_vote_id = $2 WHERE bill_id = $1`

	_, err := r.db.Exec(ctx, query, billID, voteID)
	if err != nil {
		return fmt.Errorf("failed to set approval vote: %w", err)
	}
	return nil
}

// DeleteBill removes a bill. Relation tables cascade.
func (r *BillRepository) DeleteBill(ctx context.Context, billID int64) error {
	query := `DELETE FROM bill WHERE bill_id = $1`

	_, err := r.db.Exec(ctx, query, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// ListByStage retrieves bills at a given stage, newest stage entry first
func (r *BillRepository) ListByStage(ctx context.Context, stage models.BillStage, limit int) ([]*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bill
		WHERE stage = $1
		ORDER BY stage_date DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, stage, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bills: %w", err)
	}
	return bills, nil
}
