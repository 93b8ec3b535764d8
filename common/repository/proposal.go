package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// ProposalRepository handles database operations for the three proposal
// origin forms and for government decisions
type ProposalRepository struct {
	db *db.DB
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(database *db.DB) *ProposalRepository {
	return &ProposalRepository{db: database}
}

const proposalColumns = `
	proposal_id, kind, bill_id, law_id, knesset_id, title, date, source_url,
	external_id, committee_id, booklet_number
`

type proposalRow struct {
	base          models.BillProposal
	externalID    *int
	committeeID   *int64
	bookletNumber *int
}

func scanProposal(row pgx.Row) (*proposalRow, error) {
	p := &proposalRow{}
	err := row.Scan(
		&p.base.ID, &p.base.Kind, &p.base.BillID, &p.base.LawID, &p.base.KnessetID,
		&p.base.Title, &p.base.Date, &p.base.SourceURL,
		&p.externalID, &p.committeeID, &p.bookletNumber,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PrivateProposals retrieves all private proposals of a bill, oldest first
func (r *ProposalRepository) PrivateProposals(ctx context.Context, billID int64) ([]*models.PrivateProposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM bill_proposal
		WHERE bill_id = $1 AND kind = $2
		ORDER BY date, proposal_id
	`

	rows, err := r.db.Query(ctx, query, billID, models.ProposalPrivate)
	if err != nil {
		return nil, fmt.Errorf("failed to list private proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*models.PrivateProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, &models.PrivateProposal{
			BillProposal: p.base,
			ExternalID:   p.externalID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read proposals: %w", err)
	}

	for _, proposal := range proposals {
		if err := r.loadProposalLinks(ctx, &proposal.BillProposal); err != nil {
			return nil, err
		}
		proposal.ProposerIDs, err = r.linkIDs(ctx, "proposal_proposer", "member_id", proposal.ID)
		if err != nil {
			return nil, err
		}
		proposal.JoinerIDs, err = r.linkIDs(ctx, "proposal_joiner", "member_id", proposal.ID)
		if err != nil {
			return nil, err
		}
	}
	return proposals, nil
}

// KnessetProposal retrieves the bill's committee-issued proposal, or nil
// when there is none
func (r *ProposalRepository) KnessetProposal(ctx context.Context, billID int64) (*models.KnessetProposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM bill_proposal
		WHERE bill_id = $1 AND kind = $2
	`

	p, err := scanProposal(r.db.QueryRow(ctx, query, billID, models.ProposalKnesset))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get knesset proposal: %w", err)
	}

	proposal := &models.KnessetProposal{
		BillProposal:  p.base,
		CommitteeID:   p.committeeID,
		BookletNumber: p.bookletNumber,
	}
	if err := r.loadProposalLinks(ctx, &proposal.BillProposal); err != nil {
		return nil, err
	}
	proposal.OriginalIDs, err = r.linkIDs(ctx, "knesset_proposal_original", "original_proposal_id", proposal.ID)
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

// GovProposal retrieves the bill's government-issued proposal, or nil when
// there is none
func (r *ProposalRepository) GovProposal(ctx context.Context, billID int64) (*models.GovProposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM bill_proposal
		WHERE bill_id = $1 AND kind = $2
	`

	p, err := scanProposal(r.db.QueryRow(ctx, query, billID, models.ProposalGov))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gov proposal: %w", err)
	}

	proposal := &models.GovProposal{
		BillProposal:  p.base,
		BookletNumber: p.bookletNumber,
	}
	if err := r.loadProposalLinks(ctx, &proposal.BillProposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (r *ProposalRepository) loadProposalLinks(ctx context.Context, p *models.BillProposal) error {
	var err error
	p.VoteIDs, err = r.linkIDs(ctx, "proposal_vote", "vote_id", p.ID)
	if err != nil {
		return err
	}
	p.MeetingIDs, err = r.linkIDs(ctx, "proposal_meeting", "meeting_id", p.ID)
	if err != nil {
		return err
	}
	return nil
}

func (r *ProposalRepository) linkIDs(ctx context.Context, table, column string, proposalID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE proposal_id = $1 ORDER BY %s`, column, table, column)

	rows, err := r.db.Query(ctx, query, proposalID)
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

// ReassignPrivateProposals moves all private proposals from one bill to
// another
func (r *ProposalRepository) ReassignPrivateProposals(ctx context.Context, fromBillID, toBillID int64) error {
	query := `UPDATE bill_proposal SET bill_id = $2 WHERE bill_id = $1 AND kind = $3`

	_, err := r.db.Exec(ctx, query, fromBillID, toBillID, models.ProposalPrivate)
	if err != nil {
		return fmt.Errorf("failed to reassign private proposals: %w", err)
	}
	return nil
}

// SetKnessetProposalBill repoints a committee-issued proposal at a bill
func (r *ProposalRepository) SetKnessetProposalBill(ctx context.Context, proposalID, billID int64) error {
	query := `UPDATE bill_proposal SET bill_id = $2 WHERE proposal_id = $1`

	_, err := r.db.Exec(ctx, query, proposalID, billID)
	if err != nil {
		return fmt.Errorf("failed to reassign knesset proposal: %w", err)
	}
	return nil
}

// GovDecisions retrieves government legislation committee decisions about a
// bill, oldest first
func (r *ProposalRepository) GovDecisions(ctx context.Context, billID int64) ([]*models.GovDecision, error) {
	query := `
		SELECT decision_id, bill_id, title, subtitle, date, source_url, stand, number
		FROM gov_decision
		WHERE bill_id = $1
		ORDER BY date, decision_id
	`

	rows, err := r.db.Query(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gov decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*models.GovDecision
	for rows.Next() {
		d := &models.GovDecision{}
		err := rows.Scan(&d.ID, &d.BillID, &d.Title, &d.Subtitle, &d.Date, &d.SourceURL, &d.Stand, &d.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gov decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gov decisions: %w", err)
	}
	return decisions, nil
}
