package models

import (
	"time"
)

// CoalitionSpan is one span of a party's coalition/opposition status.
type CoalitionSpan struct {
	PartyID     int64     `db:"party_id" json:"party_id"`
	IsCoalition bool      `db:"is_coalition" json:"is_coalition"`
	Since       time.Time `db:"since" json:"since"`
}

// Party is a parliamentary faction.
// Maps to: party table + coalition_span records
type Party struct {
	ID   int64  `db:"party_id" json:"party_id"`
	Name string `db:"name" json:"name"`

	// Seats held in the current Knesset
	Seats int `db:"seats" json:"seats"`

	// Current status, denormalized from the latest span
	IsCoalition bool `db:"is_coalition" json:"is_coalition"`

	// Status history, ordered by Since ascending
	CoalitionSpans []CoalitionSpan `db:"-" json:"coalition_spans,omitempty"`
}

// IsCoalitionAt returns the party's coalition status at the given date:
// the last span starting at or before it. A party with no span at the date
// is in opposition.
func (p *Party) IsCoalitionAt(date time.Time) bool {
	coalition := false
	for _, span := range p.CoalitionSpans {
		if span.Since.After(date) {
			break
		}
		coalition = span.IsCoalition
	}
	return coalition
}
