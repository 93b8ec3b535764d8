package models

import (
	"time"
)

// PartyMembership is one span of a member's party affiliation.
// A member's affiliation history is an ordered sequence of these;
// the affiliation at a date is the last span starting at or before it.
type PartyMembership struct {
	MemberID int64     `db:"member_id" json:"member_id"`
	PartyID  int64     `db:"party_id" json:"party_id"`
	Since    time.Time `db:"since" json:"since"`
}

// Member is a legislator.
// Maps to: member table + party_membership spans
type Member struct {
	// External Knesset member ID, also the primary key
	ID int64 `db:"member_id" json:"member_id"`

	Name string `db:"name" json:"name"`

	// Current party, denormalized from the latest membership span
	CurrentPartyID int64 `db:"current_party_id" json:"current_party_id"`

	// Service span; End is nil for sitting members
	ServiceStart time.Time  `db:"service_start" json:"service_start"`
	ServiceEnd   *time.Time `db:"service_end" json:"service_end,omitempty"`

	// Affiliation history, ordered by Since ascending
	Memberships []PartyMembership `db:"-" json:"memberships,omitempty"`
}

// PartyAt returns the ID of the party the member belonged to at the given
// date, or false if the date precedes every membership span.
func (m *Member) PartyAt(date time.Time) (int64, bool) {
	var partyID int64
	found := false
	for _, span := range m.Memberships {
		if span.Since.After(date) {
			break
		}
		partyID = span.PartyID
		found = true
	}
	return partyID, found
}

// ServiceTimeDays returns the number of days the member has served as of
// the given instant. Returns 0 for a member whose service has not started.
func (m *Member) ServiceTimeDays(now time.Time) float64 {
	end := now
	if m.ServiceEnd != nil && m.ServiceEnd.Before(now) {
		end = *m.ServiceEnd
	}
	if end.Before(m.ServiceStart) {
		return 0
	}
	return end.Sub(m.ServiceStart).Hours() / 24
}
