package agent

import (
	"context"
	"time"

	"deepchess/communication"
	"deepchess/game"
	"deepchess/searcher"
)

type MoveClient interface {
	Move(ctx context.Context, engine, fen string, budget searcher.Budget) (communication.MoveResponse, error)
}

// Remote asks an engine of another server for its move and replays it
// locally, so an illegal answer is caught here.
type Remote struct {
	name   string
	client MoveClient
}

// NewRemote proxies the engine called name on the client's server.
func NewRemote(name string, client MoveClient) *Remote {
	return &Remote{name: name, client: client}
}

func (r *Remote) Name() string {
	return r.name
}

func (r *Remote) Step(state game.State, budget searcher.Budget) (Step, error) {
	if state.IsTerminal() {
		return Step{}, searcher.ErrNoLegalMove
	}

	response, err := r.client.Move(context.Background(), r.name, state.String(), budget)
	if err != nil {
		return Step{}, err
	}
	move, err := game.FindMove(state, response.Move)
	if err != nil {
		return Step{}, err
	}
	next, err := state.Play(move)
	if err != nil {
		return Step{}, err
	}
	return Step{
		Move:  move,
		State: next,
		Stats: searcher.Stats{
			StartTime:    response.Stats.StartTime,
			Duration:     time.Duration(response.Stats.SearchTime * float64(time.Second)),
			Iterations:   response.Stats.TreeSearchCount,
			NodeVisits:   response.Stats.NodeVisits,
			NodeAvgScore: response.Stats.NodeAvgScore,
		},
	}, nil
}
