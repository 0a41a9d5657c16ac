package searcher

import "errors"

var (
	ErrNoLegalMove     = errors.New("no legal move: the game is over")
	ErrNoExpansion     = errors.New("search budget exhausted without expanding the root")
	ErrUnboundedBudget = errors.New("search needs an iteration cap or a duration")
	ErrInvalidConfig   = errors.New("invalid search configuration")
)

// The clock is read once per this many iterations.
const timeCheckInterval = 10
