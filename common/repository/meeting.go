package repository

import (
	"context"
	"fmt"

	"github.com/karopastal/Open-Knesset/common/db"
	"github.com/karopastal/Open-Knesset/common/models"
)

// MeetingRepository handles database operations for committee meetings
type MeetingRepository struct {
	db *db.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(database *db.DB) *MeetingRepository {
	return &MeetingRepository{db: database}
}

// GetMeetings retrieves committee meetings by ID, in date order. Missing
// IDs are skipped.
func (r *MeetingRepository) GetMeetings(ctx context.Context, ids []int64) ([]*models.CommitteeMeeting, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT m.meeting_id, m.committee_id, m.date, m.topics, c.name
		FROM committee_meeting m
		JOIN committee c ON c.committee_id = m.committee_id
		WHERE m.meeting_id = ANY($1)
		ORDER BY m.date, m.meeting_id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*models.CommitteeMeeting
	for rows.Next() {
		meeting := &models.CommitteeMeeting{}
		err := rows.Scan(
			&meeting.ID,
			&meeting.CommitteeID,
			&meeting.Date,
			&meeting.Topics,
			&meeting.CommitteeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meetings: %w", err)
	}

	return meetings, nil
}
