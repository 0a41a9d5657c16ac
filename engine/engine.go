package engine

import "deepchess/experiments/metrics"

// MaxMoves caps a game in plies; positions carry no history, so repetition
// draws never end a game on their own.
const MaxMoves = 300

const (
	ReasonCheckmate = "checkmate"
	ReasonDraw      = "draw"
	ReasonMoveLimit = "move limit"
)

type Engine interface {
	// Run plays until the game is over or the move cap is reached
	Run() (metrics.GameMetric, []metrics.MoveMetric, error)
}
