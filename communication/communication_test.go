package communication

import (
	"testing"
	"time"

	"deepchess/searcher"

	"github.com/stretchr/testify/require"
)

func TestMoveRequestBudget(t *testing.T) {
	t.Run("seconds become a duration", func(t *testing.T) {
		budget, err := MoveRequest{Iterations: 10, Duration: 1.5}.Budget()

		require.NoError(t, err)
		require.Equal(t, searcher.Budget{Iterations: 10, Duration: 1500 * time.Millisecond}, budget)
	})

	t.Run("empty request keeps the engine budget", func(t *testing.T) {
		budget, err := MoveRequest{FEN: "x"}.Budget()

		require.NoError(t, err)
		require.True(t, budget.IsZero())
	})

	t.Run("round trip", func(t *testing.T) {
		want := searcher.Budget{Iterations: 7, Duration: 250 * time.Millisecond}

		budget, err := NewMoveRequest("x", want).Budget()

		require.NoError(t, err)
		require.Equal(t, want, budget)
	})

	t.Run("out of range limits", func(t *testing.T) {
		for _, request := range []MoveRequest{
			{Iterations: -1},
			{Duration: -0.5},
			{Duration: MaxDuration.Seconds() + 1},
			{Duration: 1e300},
		} {
			_, err := request.Budget()
			require.ErrorIs(t, err, searcher.ErrInvalidConfig, "%+v", request)
		}
	})
}
