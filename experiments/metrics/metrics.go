package metrics

import (
	"time"

	"deepchess/searcher"
)

type AgentConfig struct {
	ID   int
	Name string
	searcher.Budget
	Exploration     float64
	SelectionDepth  int
	SimulationDepth int
}

type MoveMetric struct {
	Step  int
	Side  string
	Agent string
	Move  string
	searcher.Stats
}

// GameMetric describes one finished game. Result is +1 when White won, -1 when
// Black won and 0 otherwise.
type GameMetric struct {
	White      string
	Black      string
	Result     int
	Reason     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	FinalFEN   string
	Moves      []string
}

// GameRecord is a game of a tournament. Score is the result from player 1's
// point of view.
type GameRecord struct {
	ID      string
	Player1 string
	Player2 string
	Score   int
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}
