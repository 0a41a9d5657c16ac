package engine

import (
	"fmt"
	"time"

	"deepchess/agent"
	"deepchess/experiments/metrics"
	"deepchess/game"
	"deepchess/searcher"

	"github.com/rs/zerolog"
)

type Option func(e *Local)

// Local plays two in-process agents against each other.
type Local struct {
	start    game.State
	agents   map[game.Side]agent.Agent
	budget   searcher.Budget
	maxMoves int
	logger   zerolog.Logger
}

func WithStart(state game.State) Option {
	return func(e *Local) {
		e.start = state
	}
}

func WithBudget(budget searcher.Budget) Option {
	return func(e *Local) {
		e.budget = budget
	}
}

func WithMaxMoves(maxMoves int) Option {
	return func(e *Local) {
		if maxMoves > 0 {
			e.maxMoves = maxMoves
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Local) {
		e.logger = logger
	}
}

var _ Engine = (*Local)(nil)

func NewLocal(white, black agent.Agent, options ...Option) *Local {
	e := &Local{
		start:    game.NewPosition(),
		agents:   map[game.Side]agent.Agent{game.White: white, game.Black: black},
		maxMoves: MaxMoves,
		logger:   zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// PlayGame runs one game. The result is +1 if white won, -1 if black won and
// 0 otherwise.
func PlayGame(white, black agent.Agent, options ...Option) (metrics.GameMetric, []metrics.MoveMetric, error) {
	return NewLocal(white, black, options...).Run()
}

func (e *Local) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	record := metrics.GameMetric{
		White:     e.agents[game.White].Name(),
		Black:     e.agents[game.Black].Name(),
		StartTime: time.Now(),
	}
	var moves []metrics.MoveMetric

	state := e.start
	for !state.IsTerminal() && len(record.Moves) < e.maxMoves {
		side := state.Turn()
		player := e.agents[side]

		step, err := player.Step(state, e.budget)
		if err != nil {
			return record, moves, fmt.Errorf("%s (%s) failed at move %d: %w", player.Name(), side, len(record.Moves)+1, err)
		}

		record.Moves = append(record.Moves, step.Move.String())
		moves = append(moves, metrics.MoveMetric{
			Step:  len(record.Moves),
			Side:  side.String(),
			Agent: player.Name(),
			Move:  step.Move.String(),
			Stats: step.Stats,
		})
		e.logger.Debug().Msgf("move %d: %s (%s) played %s", len(record.Moves), player.Name(), side, step.Move)
		state = step.State
	}

	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(record.StartTime)
	record.TotalMoves = len(record.Moves)
	record.FinalFEN = state.String()
	record.Result, record.Reason = result(state)

	e.logger.Info().Msgf("game over after %d moves: %s, result %d", record.TotalMoves, record.Reason, record.Result)
	return record, moves, nil
}

func result(state game.State) (int, string) {
	switch {
	case state.IsCheckmate() && state.Turn() == game.White:
		return -1, ReasonCheckmate
	case state.IsCheckmate():
		return 1, ReasonCheckmate
	case state.IsTerminal():
		return 0, ReasonDraw
	default:
		return 0, ReasonMoveLimit
	}
}
