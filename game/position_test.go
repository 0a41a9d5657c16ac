package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	startFEN      = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	foolsMateFEN  = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN  = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	bareKingsFEN  = "8/8/8/4k3/8/8/8/4K3 w - - 0 1"
	backRankFEN   = "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
	whitePawnFEN  = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	blackPawnFEN  = "4k3/4p3/8/8/8/8/8/4K3 b - - 0 1"
	sameBishopFEN = "4k3/8/8/2b5/8/8/8/2B1K3 w - - 0 1"
)

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	p, err := FromFEN(fen)
	require.NoError(t, err)
	return p
}

func TestFromFEN(t *testing.T) {
	t.Run("parsing the starting position", func(t *testing.T) {
		p := mustFEN(t, startFEN)

		require.Equal(t, startFEN, p.String())
		require.Equal(t, NewPosition().String(), p.String())
		require.Equal(t, White, p.Turn())
	})

	t.Run("decoding underscores as spaces", func(t *testing.T) {
		p := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR_w_KQkq_-_0_1")

		require.Equal(t, startFEN, p.String())
	})

	t.Run("rejecting malformed input", func(t *testing.T) {
		for _, fen := range []string{"", "   ", "not a fen", "rnbqkbnr/pppppppp/8/8 w"} {
			_, err := FromFEN(fen)
			require.ErrorIs(t, err, ErrInvalidPosition, "fen %q", fen)
		}
	})

	t.Run("rejecting unreachable boards", func(t *testing.T) {
		for _, fen := range []string{
			"8/8/8/8/8/8/8/8 w - - 0 1",
			"4k3/8/8/8/8/8/8/4K2K w - - 0 1",
			"4k3/8/8/8/8/8/8/8 b - - 0 1",
			"4k3/8/8/8/8/8/8/4R1K1 w - - 0 1",
			"4k3/8/8/b7/8/8/8/4K3 b - - 0 1",
			"4k3/3P4/8/8/8/8/8/4K3 w - - 0 1",
			"4k3/8/8/8/8/3n4/8/4K3 b - - 0 1",
			"P3k3/8/8/8/8/8/8/4K3 w - - 0 1",
			"4k3/8/8/8/8/8/8/p3K3 b - - 0 1",
		} {
			_, err := FromFEN(fen)
			require.ErrorIs(t, err, ErrInvalidPosition, "fen %q", fen)
		}
	})

	t.Run("accepting the side to move in check", func(t *testing.T) {
		p := mustFEN(t, "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1")

		require.False(t, p.IsTerminal())
		require.NotEmpty(t, p.LegalMoves())
	})
}

func TestPositionRules(t *testing.T) {
	t.Run("starting position has twenty legal moves", func(t *testing.T) {
		p := NewPosition()

		require.Len(t, p.LegalMoves(), 20)
		require.False(t, p.IsTerminal())
		require.False(t, p.IsCheckmate())
	})

	t.Run("checkmate is terminal", func(t *testing.T) {
		p := mustFEN(t, foolsMateFEN)

		require.True(t, p.IsTerminal())
		require.True(t, p.IsCheckmate())
		require.Empty(t, p.LegalMoves())
	})

	t.Run("stalemate is terminal but not checkmate", func(t *testing.T) {
		p := mustFEN(t, stalemateFEN)

		require.True(t, p.IsTerminal())
		require.False(t, p.IsCheckmate())
	})

	t.Run("bare kings are a draw", func(t *testing.T) {
		p := mustFEN(t, bareKingsFEN)

		require.True(t, p.IsTerminal())
		require.False(t, p.IsCheckmate())
		require.Empty(t, p.LegalMoves())
	})

	t.Run("bishops on the same colour are a draw", func(t *testing.T) {
		require.True(t, mustFEN(t, sameBishopFEN).IsTerminal())
	})

	t.Run("a single pawn is enough material", func(t *testing.T) {
		require.False(t, mustFEN(t, whitePawnFEN).IsTerminal())
	})
}

func TestPositionPlay(t *testing.T) {
	t.Run("playing leaves the original position untouched", func(t *testing.T) {
		p := NewPosition()
		move, err := p.ParseMove("e2e4")
		require.NoError(t, err)

		next, err := p.Play(move)

		require.NoError(t, err)
		require.Equal(t, startFEN, p.String())
		require.Equal(t, Black, next.Turn())
		require.NotEqual(t, p.String(), next.String())
	})

	t.Run("delivering checkmate", func(t *testing.T) {
		p := mustFEN(t, backRankFEN)
		move, err := p.ParseMove("a1a8")
		require.NoError(t, err)

		next, err := p.Play(move)

		require.NoError(t, err)
		require.True(t, next.IsCheckmate())
	})

	t.Run("own moves and equal foreign moves reach the same position", func(t *testing.T) {
		p := NewPosition()
		other := NewPosition()
		foreign := other.LegalMoves()

		for i, move := range p.LegalMoves() {
			own, err := p.Play(move)
			require.NoError(t, err)
			matched, err := p.Play(foreign[i])
			require.NoError(t, err)
			require.Equal(t, own.String(), matched.String())
		}
	})

	t.Run("rejecting an illegal move", func(t *testing.T) {
		p := NewPosition()

		_, err := p.ParseMove("e2e5")
		require.ErrorIs(t, err, ErrIllegalMove)

		other, err := mustFEN(t, backRankFEN).ParseMove("a1a8")
		require.NoError(t, err)
		_, err = p.Play(other)
		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("rejecting a move on a finished game", func(t *testing.T) {
		p := mustFEN(t, foolsMateFEN)
		move, err := NewPosition().ParseMove("e2e4")
		require.NoError(t, err)

		_, err = p.Play(move)

		require.ErrorIs(t, err, ErrIllegalMove)
	})
}
