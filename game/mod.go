package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrIllegalMove     = errors.New("illegal move")
)

// Side identifies one of the two players.
type Side int8

const (
	White Side = iota
	Black
)

func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

type Move interface {
	String() string
}

// State should be immutable - operations on State always return a new copy
type State interface {
	Turn() Side
	LegalMoves() []Move
	Play(Move) (State, error)
	IsTerminal() bool
	IsCheckmate() bool
	String() string
}

// Evaluates the game state to a score between 0 and 1 indicating the winning
// chances of the reference side.
type Evaluate func(state State, reference Side) float64

// Outcome resolves a terminal state for the reference side. The side to move
// at a checkmate has lost. Any other terminal state is a draw.
func Outcome(state State, reference Side) (score float64, terminal bool) {
	if !state.IsTerminal() {
		return 0, false
	}
	if state.IsCheckmate() {
		if state.Turn().Other() == reference {
			return 1, true
		}
		return 0, true
	}
	return 0.5, true
}

// FindMove returns the legal move of the state whose notation is name.
func FindMove(state State, name string) (Move, error) {
	for _, move := range state.LegalMoves() {
		if move.String() == name {
			return move, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, name, state)
}
