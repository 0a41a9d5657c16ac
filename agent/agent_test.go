package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"deepchess/communication"
	"deepchess/game"
	"deepchess/searcher"

	"github.com/stretchr/testify/require"
)

const (
	backRankFEN  = "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
)

func mustFEN(t *testing.T, fen string) *game.Position {
	t.Helper()
	p, err := game.FromFEN(fen)
	require.NoError(t, err)
	return p
}

func TestMCTS(t *testing.T) {
	t.Run("stepping with the configured budget", func(t *testing.T) {
		a, err := NewMCTS("mcts", searcher.DefaultConfig().With(searcher.WithIterations(50), searcher.WithSeed(3)))
		require.NoError(t, err)

		step, err := a.Step(game.NewPosition(), searcher.Budget{})

		require.NoError(t, err)
		require.Equal(t, "mcts", a.Name())
		require.Equal(t, 50, step.Stats.Iterations)
		require.Equal(t, game.Black, step.State.Turn())
		_, err = game.FindMove(game.NewPosition(), step.Move.String())
		require.NoError(t, err)
	})

	t.Run("a request budget replaces the configured one", func(t *testing.T) {
		a, err := NewMCTS("mcts", searcher.DefaultConfig().With(searcher.WithSeed(3)))
		require.NoError(t, err)

		step, err := a.Step(game.NewPosition(), searcher.Budget{Iterations: 30})

		require.NoError(t, err)
		require.Equal(t, 30, step.Stats.Iterations)
		require.Equal(t, searcher.DefaultIterations, a.Config().Iterations, "The agent config should not change")
	})

	t.Run("finding mate with the default budget", func(t *testing.T) {
		a, err := NewMCTS("mcts", searcher.DefaultConfig().With(searcher.WithSeed(7)))
		require.NoError(t, err)

		step, err := a.Step(mustFEN(t, backRankFEN), searcher.Budget{})

		require.NoError(t, err)
		require.Equal(t, "a1a8", step.Move.String())
		require.True(t, step.State.IsCheckmate())
	})

	t.Run("finished game", func(t *testing.T) {
		a, err := NewMCTS("mcts", searcher.DefaultConfig())
		require.NoError(t, err)

		_, err = a.Step(mustFEN(t, foolsMateFEN), searcher.Budget{})

		require.ErrorIs(t, err, searcher.ErrNoLegalMove)
	})

	t.Run("rejecting an invalid config", func(t *testing.T) {
		_, err := NewMCTS("mcts", searcher.DefaultConfig().With(searcher.WithIterations(0)))

		require.ErrorIs(t, err, searcher.ErrUnboundedBudget)
	})
}

func TestRandom(t *testing.T) {
	t.Run("same seed plays the same game", func(t *testing.T) {
		first, second := NewRandom(11), NewRandom(11)
		state := game.State(game.NewPosition())

		for i := 0; i < 20 && !state.IsTerminal(); i++ {
			a, err := first.Step(state, searcher.Budget{})
			require.NoError(t, err)
			b, err := second.Step(state, searcher.Budget{})
			require.NoError(t, err)

			require.Equal(t, a.Move.String(), b.Move.String())
			require.Equal(t, a.State.String(), b.State.String())
			state = a.State
		}
	})

	t.Run("finished game", func(t *testing.T) {
		_, err := NewRandom(1).Step(mustFEN(t, foolsMateFEN), searcher.Budget{})

		require.ErrorIs(t, err, searcher.ErrNoLegalMove)
	})
}

type fakeClient struct {
	engine   string
	fen      string
	budget   searcher.Budget
	response communication.MoveResponse
	err      error
}

func (f *fakeClient) Move(_ context.Context, engine, fen string, budget searcher.Budget) (communication.MoveResponse, error) {
	f.engine, f.fen, f.budget = engine, fen, budget
	return f.response, f.err
}

func TestRemote(t *testing.T) {
	t.Run("replaying the remote move", func(t *testing.T) {
		client := &fakeClient{response: communication.MoveResponse{
			Status: communication.StatusSuccess,
			Move:   "a1a8",
			Stats:  communication.Stats{SearchTime: 0.5, TreeSearchCount: 200, NodeVisits: 40, NodeAvgScore: 1},
		}}
		remote := NewRemote("mcts", client)

		step, err := remote.Step(mustFEN(t, backRankFEN), searcher.Budget{Iterations: 200})

		require.NoError(t, err)
		require.Equal(t, "mcts", client.engine)
		require.Equal(t, backRankFEN, client.fen)
		require.Equal(t, 200, client.budget.Iterations)
		require.True(t, step.State.IsCheckmate())
		require.Equal(t, 200, step.Stats.Iterations)
		require.Equal(t, 500*time.Millisecond, step.Stats.Duration)
	})

	t.Run("rejecting an illegal answer", func(t *testing.T) {
		client := &fakeClient{response: communication.MoveResponse{Status: communication.StatusSuccess, Move: "e2e4"}}

		_, err := NewRemote("mcts", client).Step(mustFEN(t, backRankFEN), searcher.Budget{})

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("client failure", func(t *testing.T) {
		failure := errors.New("connection refused")

		_, err := NewRemote("mcts", &fakeClient{err: failure}).Step(game.NewPosition(), searcher.Budget{})

		require.ErrorIs(t, err, failure)
	})

	t.Run("finished game never reaches the server", func(t *testing.T) {
		client := &fakeClient{}

		_, err := NewRemote("mcts", client).Step(mustFEN(t, foolsMateFEN), searcher.Budget{})

		require.ErrorIs(t, err, searcher.ErrNoLegalMove)
		require.Empty(t, client.engine)
	})
}

func TestRegistry(t *testing.T) {
	mcts, err := NewMCTS("mcts", searcher.DefaultConfig())
	require.NoError(t, err)

	registry, err := NewRegistry(mcts, NewRandom(1))
	require.NoError(t, err)

	require.Equal(t, []string{"mcts", "random"}, registry.Names())
	got, ok := registry.Get("random")
	require.True(t, ok)
	require.Equal(t, "random", got.Name())
	_, ok = registry.Get("missing")
	require.False(t, ok)

	require.ErrorIs(t, registry.Register(NewRandom(2)), ErrDuplicateAgent)
}

func TestNamed(t *testing.T) {
	random := NewRandom(1)

	require.Equal(t, random, Named("random", random), "Matching names should not be wrapped")

	renamed := Named("monkey", random)
	require.Equal(t, "monkey", renamed.Name())
	step, err := renamed.Step(game.NewPosition(), searcher.Budget{})
	require.NoError(t, err)
	require.NotNil(t, step.Move)
}
