package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// VoteRepository handles database operations for votes and vote actions
type VoteRepository struct {
	db *db.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(database *db.DB) *VoteRepository {
	return &VoteRepository{db: database}
}

const voteColumns = `
	vote_id, meeting_number, vote_number, src_id, src_url,
	title, vote_type, time,
	votes_count, for_votes_count, against_votes_count, abstain_votes_count,
	controversy, against_party, against_coalition, against_opposition, against_own_bill,
	summary, full_text_url
`

func scanVote(row pgx.Row) (*models.Vote, error) {
	vote := &models.Vote{}
	err := row.Scan(
		&vote.ID, &vote.MeetingNumber, &vote.VoteNumber, &vote.SrcID, &vote.SrcURL,
		&vote.Title, &vote.VoteType, &vote.Time,
		&vote.VotesCount, &vote.ForVotesCount, &vote.AgainstVotesCount, &vote.AbstainVotesCount,
		&vote.Controversy, &vote.AgainstParty, &vote.AgainstCoalition, &vote.AgainstOpposition, &vote.AgainstOwnBill,
		&vote.Summary, &vote.FullTextURL,
	)
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// GetVote retrieves a single vote
func (r *VoteRepository) GetVote(ctx context.Context, id int64) (*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM vote WHERE vote_id = $1`

	vote, err := scanVote(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("vote %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

// GetVotes retrieves votes by ID, in time order. Missing IDs are skipped.
func (r *VoteRepository) GetVotes(ctx context.Context, ids []int64) ([]*models.Vote, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + voteColumns + ` FROM vote WHERE vote_id = ANY($1) ORDER BY time`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}

	return votes, nil
}

// ListRecent retrieves the most recent votes, newest first
func (r *VoteRepository) ListRecent(ctx context.Context, limit int) ([]*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM vote ORDER BY time DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}

	return votes, nil
}

// ListActions retrieves all actions cast on a vote
func (r *VoteRepository) ListActions(ctx context.Context, voteID int64) ([]*models.VoteAction, error) {
	query := `
		SELECT action_id, vote_id, member_id, party_id, type,
		       against_party, against_coalition, against_opposition, against_own_bill
		FROM vote_action
		WHERE vote_id = $1
		ORDER BY action_id
	`

	rows, err := r.db.Query(ctx, query, voteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vote actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.VoteAction
	for rows.Next() {
		action := &models.VoteAction{}
		err := rows.Scan(
			&action.ID, &action.VoteID, &action.MemberID, &action.PartyID, &action.Type,
			&action.AgainstParty, &action.AgainstCoalition, &action.AgainstOpposition, &action.AgainstOwnBill,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote action: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote actions: %w", err)
	}

	return actions, nil
}

// SaveActionFlags persists the recomputed party and deviation flags of an
// action
func (r *VoteRepository) SaveActionFlags(ctx context.Context, action *models.VoteAction) error {
	query := `
		UPDATE vote_action
		SET party_id = $2,
		    against_party = $3,
		    against_coalition = $4,
		    against_opposition = $5,
		    against_own_bill = $6
		WHERE action_id = $1
	`

	_, err := r.db.Exec(ctx, query,
		action.ID,
		action.PartyID,
		action.AgainstParty,
		action.AgainstCoalition,
		action.AgainstOpposition,
		action.AgainstOwnBill,
	)
	if err != nil {
		return fmt.Errorf("failed to save action flags: %w", err)
	}
	return nil
}

// SaveAggregates persists the recomputed counters of a vote
func (r *VoteRepository) SaveAggregates(ctx context.Context, vote *models.Vote) error {
	query := `
		UPDATE vote
		SET vote_type = $2,
		    votes_count = $3,
		    for_votes_count = $4,
		    against_votes_count = $5,
		    abstain_votes_count = $6,
		    controversy = $7,
		    against_party = $8,
		    against_coalition = $9,
		    against_opposition = $10,
		    against_own_bill = $11
		WHERE vote_id = $1
	`

	_, err := r.db.Exec(ctx, query,
		vote.ID,
		vote.VoteType,
		vote.VotesCount,
		vote.ForVotesCount,
		vote.AgainstVotesCount,
		vote.AbstainVotesCount,
		vote.Controversy,
		vote.AgainstParty,
		vote.AgainstCoalition,
		vote.AgainstOpposition,
		vote.AgainstOwnBill,
	)
	if err != nil {
		return fmt.Errorf("failed to save vote aggregates: %w", err)
	}
	return nil
}

// GetOrCreateAction inserts an action for a (vote, member) pair, or returns
// the existing one. The second return reports whether a row was created.
func (r *VoteRepository) GetOrCreateAction(ctx context.Context, voteID, memberID int64, typ models.VoteActionType, partyID int64) (*models.VoteAction, bool, error) {
	insert := `
		INSERT INTO vote_action (vote_id, member_id, type, party_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vote_id, member_id) DO NOTHING
		RETURNING action_id
	`

	var actionID int64
	err := r.db.QueryRow(ctx, insert, voteID, memberID, typ, partyID).Scan(&actionID)
	if err == nil {
		return &models.VoteAction{
			ID:       actionID,
			VoteID:   voteID,
			MemberID: memberID,
			PartyID:  partyID,
			Type:     typ,
		}, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create vote action: %w", err)
	}

	// Already present, load it
	query := `
		SELECT action_id, vote_id, member_id, party_id, type,
		       against_party, against_coalition, against_opposition, against_own_bill
		FROM vote_action
		WHERE vote_id = $1 AND member_id = $2
	`

	action := &models.VoteAction{}
	err = r.db.QueryRow(ctx, query, voteID, memberID).Scan(
		&action.ID, &action.VoteID, &action.MemberID, &action.PartyID, &action.Type,
		&action.AgainstParty, &action.AgainstCoalition, &action.AgainstOpposition, &action.AgainstOwnBill,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get vote action: %w", err)
	}
	return action, false, nil
}
