package repository

import (
	"time"
)

// ActionFilter selects vote actions for statistics counting. Nil pointer
// fields are not applied; boolean fields narrow when set.
type ActionFilter struct {
	MemberID       *int64
	MemberIDs      []int64
	CurrentPartyID *int64
	From           *time.Time

	AgainstParty      bool
	AgainstCoalition  bool
	AgainstOpposition bool
	ExcludeNoVote     bool
}
