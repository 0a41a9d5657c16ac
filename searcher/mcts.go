package searcher

import (
	"time"

	"deepchess/game"

	"golang.org/x/exp/rand"
)

type ChildStats struct {
	Move     game.Move
	Visits   int
	AvgScore float64
}

type Result struct {
	Move     game.Move
	State    game.State // after Move
	Stats    Stats
	Children []ChildStats // root children in generation order
}

type mcts struct {
	config    Config
	tree      *Tree
	reference game.Side
	rng       *rand.Rand
	metrics   collector
}

// Search runs MCTS from state under the config's budget and returns the most
// visited root move.
func Search(state game.State, config Config) (Result, error) {
	m, err := newMCTS(state, config)
	if err != nil {
		return Result{}, err
	}
	return m.run()
}

func newMCTS(state game.State, config Config) (*mcts, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if state.IsTerminal() {
		return nil, ErrNoLegalMove
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &mcts{
		config:    config,
		tree:      NewTree(state),
		reference: state.Turn(),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func (m *mcts) run() (Result, error) {
	m.metrics.Start()
	for i := 0; m.config.Iterations == 0 || i < m.config.Iterations; i++ {
		if m.config.Duration > 0 && i%timeCheckInterval == 0 && m.metrics.Elapsed() > m.config.Duration {
			break
		}
		if err := m.simulate(); err != nil {
			return Result{}, err
		}
		m.metrics.AddIteration()
	}

	root := m.tree.Root()
	children, err := m.tree.Children(root)
	if err != nil {
		return Result{}, err
	}
	if len(children) == 0 {
		return Result{}, ErrNoExpansion
	}

	best := m.tree.Node(mostVisited(m.tree, children))
	result := Result{
		Move:     best.Move,
		State:    best.State,
		Stats:    m.metrics.Complete(best, m.tree.Len()),
		Children: make([]ChildStats, 0, len(children)),
	}
	for _, child := range children {
		node := m.tree.Node(child)
		result.Children = append(result.Children, ChildStats{Move: node.Move, Visits: node.Visits, AvgScore: node.Average()})
	}

	m.config.Logger.Debug().
		Int("iterations", result.Stats.Iterations).
		Int("tree_size", result.Stats.TreeSize).
		Dur("elapsed", result.Stats.Duration).
		Msgf("selected %s with %d visits", result.Move, result.Stats.NodeVisits)
	return result, nil
}

func (m *mcts) simulate() error {
	path, err := m.selectPath()
	if err != nil {
		return err
	}
	outcome, err := m.rollout(path[len(path)-1])
	if err != nil {
		return err
	}
	backup(m.tree, path, m.config.Evaluate(outcome, m.reference))
	return nil
}

// selectPath descends from the root through visited, non-terminal nodes until
// the path reaches the selection depth.
func (m *mcts) selectPath() ([]NodeID, error) {
	node := m.tree.Root()
	path := []NodeID{node}
	for m.tree.Node(node).Visits > 0 && !m.tree.IsLeaf(node) && !m.atSelectionDepth(path) {
		child, ok, err := selectChild(m.tree, node, m.config.Exploration)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		node = child
		path = append(path, node)
	}
	return path, nil
}

func (m *mcts) atSelectionDepth(path []NodeID) bool {
	return m.config.MaxSelectionDepth > 0 && len(path) >= m.config.MaxSelectionDepth
}

// rollout plays uniformly random moves from a copy of the node until the game
// ends or the simulation depth is reached, and returns the final state.
func (m *mcts) rollout(from NodeID) (game.State, error) {
	node, err := m.tree.Copy(from)
	if err != nil {
		return nil, err
	}

	depth := 0
	for !m.tree.IsLeaf(node) && (m.config.MaxSimulationDepth == 0 || depth < m.config.MaxSimulationDepth) {
		children, err := m.tree.Children(node)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			break
		}
		node = children[m.rng.Intn(len(children))]
		depth++
	}

	if m.tree.IsLeaf(node) {
		m.metrics.AddFullPlayout()
	} else {
		m.metrics.AddCutoff()
	}
	return m.tree.Node(node).State, nil
}

func backup(t *Tree, path []NodeID, score float64) {
	for _, id := range path {
		node := t.Node(id)
		node.Visits++
		node.Score += score
	}
}
