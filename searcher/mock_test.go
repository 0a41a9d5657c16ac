package searcher

import (
	"fmt"

	"deepchess/game"
)

type mockMove string

func (m mockMove) String() string {
	return string(m)
}

// mockState is a node of a hand-built game tree. Moves are named after the
// child they lead to.
type mockState struct {
	id       string
	turn     game.Side
	value    float64
	terminal bool
	children []*mockState
	plays    *int
	err      error
}

func newMock(id string, value float64, children ...*mockState) *mockState {
	return &mockState{id: id, value: value, children: children, plays: new(int)}
}

func newTerminal(id string, value float64) *mockState {
	s := newMock(id, value)
	s.terminal = true
	return s
}

func (m *mockState) Turn() game.Side {
	return m.turn
}

func (m *mockState) LegalMoves() []game.Move {
	if m.terminal {
		return nil
	}
	moves := make([]game.Move, len(m.children))
	for i, child := range m.children {
		moves[i] = mockMove(child.id)
	}
	return moves
}

func (m *mockState) Play(move game.Move) (game.State, error) {
	*m.plays++
	if m.err != nil {
		return nil, m.err
	}
	for _, child := range m.children {
		if child.id == move.String() {
			return child, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", game.ErrIllegalMove, move)
}

func (m *mockState) IsTerminal() bool {
	return m.terminal
}

func (m *mockState) IsCheckmate() bool {
	return false
}

func (m *mockState) String() string {
	return m.id
}

func mockEvaluate(state game.State, _ game.Side) float64 {
	return state.(*mockState).value
}

func mockConfig(options ...Option) Config {
	return DefaultConfig().With(WithEvaluationFn(mockEvaluate), WithSeed(1)).With(options...)
}
