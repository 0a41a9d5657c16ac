package agent

import (
	"deepchess/game"
	"deepchess/searcher"
)

// MCTS answers with the most visited move of a fresh search tree.
type MCTS struct {
	name   string
	config searcher.Config
}

func NewMCTS(name string, config searcher.Config) (*MCTS, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MCTS{name: name, config: config}, nil
}

func (m *MCTS) Name() string {
	return m.name
}

func (m *MCTS) Config() searcher.Config {
	return m.config
}

func (m *MCTS) Step(state game.State, budget searcher.Budget) (Step, error) {
	result, err := searcher.Search(state, m.config.WithBudget(budget))
	if err != nil {
		return Step{}, err
	}
	return Step{Move: result.Move, State: result.State, Stats: result.Stats}, nil
}
