package service

import (
	"fmt"
	"time"

	"github.com/karopastal/Open-Knesset/common/models"
)

// PartyResolver answers temporal affiliation queries over a loaded party
// set: which party a member belonged to at a date, and whether a party sat
// in the coalition at a date. It is built once per classification run so
// every action in a vote resolves against the same snapshot.
type PartyResolver struct {
	parties map[int64]*models.Party
	ordered []*models.Party
}

// NewPartyResolver creates a resolver over the given parties
func NewPartyResolver(parties []*models.Party) *PartyResolver {
	r := &PartyResolver{
		parties: make(map[int64]*models.Party, len(parties)),
		ordered: parties,
	}
	for _, p := range parties {
		r.parties[p.ID] = p
	}
	return r
}

// Parties returns all parties in the snapshot
func (r *PartyResolver) Parties() []*models.Party {
	return r.ordered
}

// PartyAt resolves the party a member belonged to at the given date.
// Returning an error for an active member during an officially cast vote is
// a data-integrity failure, so callers treat it as fatal.
func (r *PartyResolver) PartyAt(m *models.Member, date time.Time) (*models.Party, error) {
	partyID, ok := m.PartyAt(date)
	if !ok {
		return nil, fmt.Errorf("member %d at %s: %w", m.ID, date.Format("2006-01-02"), ErrNoParty)
	}
	party, exists := r.parties[partyID]
	if !exists {
		return nil, fmt.Errorf("member %d resolved to unknown party %d: %w", m.ID, partyID, ErrNoParty)
	}
	return party, nil
}

// IsCoalitionAt returns the coalition status of a party at the given date.
// Unknown parties count as opposition.
func (r *PartyResolver) IsCoalitionAt(partyID int64, date time.Time) bool {
	party, exists := r.parties[partyID]
	if !exists {
		return false
	}
	return party.IsCoalitionAt(date)
}
