package service

import (
	"errors"
)

var (
	// ErrNoParty means a member's party could not be resolved for a vote
	// date. Classification of the whole vote aborts on it: a missing party
	// would skew every party-stand computation downstream.
	ErrNoParty = errors.New("no resolvable party at date")

	// ErrZeroSeats means per-seat statistics were requested for an entity
	// holding no seats.
	ErrZeroSeats = errors.New("entity holds no seats")
)
