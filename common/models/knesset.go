package models

import (
	"time"
)

// FirstKnessetStart is the convening date of the first Knesset. It is the
// sentinel epoch a bill's stage date is reset to during a forced recompute.
var FirstKnessetStart = time.Date(1949, time.February, 14, 0, 0, 0, 0, time.UTC)

// Knesset is one parliamentary term. The current term's start date bounds
// party-level voting statistics.
type Knesset struct {
	Number    int        `db:"number" json:"number"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
}
