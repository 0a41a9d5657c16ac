package searcher

import "math"

type uct struct {
	numerator float64
}

// newUCT fixes the parent-dependent part of C*sqrt(2*ln(N)/n).
func newUCT(c float64, N int) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{numerator: 2 * c * c * math.Log(float64(N))}
}

func (u uct) evaluate(q float64, n int) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	return q/float64(n) + math.Sqrt(u.numerator/float64(n))
}

// selectChild returns the first unvisited child in generation order, or else
// the child with the highest UCT value, earliest on ties.
func selectChild(t *Tree, id NodeID, c float64) (NodeID, bool, error) {
	children, err := t.Children(id)
	if err != nil || len(children) == 0 {
		return 0, false, err
	}

	for _, child := range children {
		if t.Node(child).Visits == 0 {
			return child, true, nil
		}
	}

	policy := newUCT(c, t.Node(id).Visits)
	best := children[0]
	bestValue := math.Inf(-1)
	for _, child := range children {
		node := t.Node(child)
		if value := policy.evaluate(node.Score, node.Visits); value > bestValue {
			best = child
			bestValue = value
		}
	}
	return best, true, nil
}

// mostVisited picks the child with the most visits, earliest on ties.
func mostVisited(t *Tree, children []NodeID) NodeID {
	best := children[0]
	for _, child := range children[1:] {
		if t.Node(child).Visits > t.Node(best).Visits {
			best = child
		}
	}
	return best
}
