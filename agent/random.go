package agent

import (
	"sync"
	"time"

	"deepchess/game"
	"deepchess/searcher"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal move. It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom seeds the move choice; 0 seeds from the clock.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string {
	return "random"
}

func (r *Random) Step(state game.State, _ searcher.Budget) (Step, error) {
	start := time.Now()
	if state.IsTerminal() {
		return Step{}, searcher.ErrNoLegalMove
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return Step{}, searcher.ErrNoExpansion
	}

	r.mu.Lock()
	move := moves[r.rng.Intn(len(moves))]
	r.mu.Unlock()

	next, err := state.Play(move)
	if err != nil {
		return Step{}, err
	}
	return Step{
		Move:  move,
		State: next,
		Stats: searcher.Stats{StartTime: start, Duration: time.Since(start)},
	}, nil
}
