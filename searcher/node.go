package searcher

import "deepchess/game"

type NodeID int

// Node is one record of the search tree. Score is accumulated from the root
// player's point of view at every depth.
type Node struct {
	State    game.State
	Move     game.Move // nil for the root
	Visits   int
	Score    float64
	children []NodeID
	expanded bool
}

func (n *Node) Average() float64 {
	if n.Visits == 0 {
		return 0
	}
	return n.Score / float64(n.Visits)
}

// Tree is an arena of nodes addressed by NodeID. The root is always 0.
type Tree struct {
	nodes []*Node
}

func NewTree(state game.State) *Tree {
	return &Tree{nodes: []*Node{{State: state}}}
}

func (t *Tree) Root() NodeID {
	return 0
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

func (t *Tree) IsLeaf(id NodeID) bool {
	return t.nodes[id].State.IsTerminal()
}

// Children expands the node on first use, one child per legal move in
// generation order, and returns the cached ids afterwards. Terminal nodes are
// never expanded.
func (t *Tree) Children(id NodeID) ([]NodeID, error) {
	node := t.nodes[id]
	if node.expanded {
		return node.children, nil
	}
	if node.State.IsTerminal() {
		node.expanded = true
		return nil, nil
	}

	moves := node.State.LegalMoves()
	added := make([]*Node, 0, len(moves))
	for _, move := range moves {
		next, err := node.State.Play(move)
		if err != nil {
			return nil, err
		}
		added = append(added, &Node{State: next, Move: move})
	}

	node.children = make([]NodeID, 0, len(added))
	for _, child := range added {
		node.children = append(node.children, NodeID(len(t.nodes)))
		t.nodes = append(t.nodes, child)
	}
	node.expanded = true
	return node.children, nil
}

// Copy appends a detached record with the source's state, statistics and
// child ids. The source is expanded first so both share one set of children.
func (t *Tree) Copy(id NodeID) (NodeID, error) {
	children, err := t.Children(id)
	if err != nil {
		return 0, err
	}
	source := t.nodes[id]
	t.nodes = append(t.nodes, &Node{
		State:    source.State,
		Move:     source.Move,
		Visits:   source.Visits,
		Score:    source.Score,
		children: append([]NodeID(nil), children...),
		expanded: true,
	})
	return NodeID(len(t.nodes) - 1), nil
}
