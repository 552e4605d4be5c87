package game

import "errors"

var (
	// ErrIllegalMove reports a move outside the legal set. Always a caller
	// bug: moves taken from LegalMoves never trip it.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInconsistentObservation reports a public history that contradicts
	// the deck composition, e.g. a fourth copy of a role.
	ErrInconsistentObservation = errors.New("inconsistent observation")
)
