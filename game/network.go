package game

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/notnil/chess"
	deep "github.com/patrikeh/go-deep"
)

// NetworkInputs is the size of the board encoding: one 8x8 plane per piece
// type and colour, plus the side to move.
const NetworkInputs = 6*2*64 + 1

var planes = map[chess.PieceType]int{
	chess.Pawn:   0,
	chess.Knight: 1,
	chess.Bishop: 2,
	chess.Rook:   3,
	chess.Queen:  4,
	chess.King:   5,
}

// NetworkWeights is the on-disk form of a trained value network.
type NetworkWeights struct {
	Name    string        `json:"name"`
	Hidden  []int         `json:"hidden"`
	Weights [][][]float64 `json:"weights"`
}

// Network is a learned evaluator. Its output is White's winning chance.
type Network struct {
	mu     sync.Mutex
	name   string
	neural *deep.Neural
}

func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network weights: %w", err)
	}
	var weights NetworkWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to decode network weights: %w", err)
	}
	return NewNetwork(weights)
}

// NewNetwork builds the network; without weights it is randomly initialised.
func NewNetwork(weights NetworkWeights) (*Network, error) {
	layout := append(append([]int{}, weights.Hidden...), 1)
	for _, size := range layout {
		if size <= 0 {
			return nil, fmt.Errorf("invalid layer size %d", size)
		}
	}

	neural := deep.NewNeural(&deep.Config{
		Inputs:     NetworkInputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeBinary,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})

	if weights.Weights != nil {
		if err := sameShape(neural.Weights(), weights.Weights); err != nil {
			return nil, err
		}
		neural.ApplyWeights(weights.Weights)
	}

	name := weights.Name
	if name == "" {
		name = "network"
	}
	return &Network{name: name, neural: neural}, nil
}

func sameShape(want, got [][][]float64) error {
	if len(want) != len(got) {
		return fmt.Errorf("weights have %d layers, network has %d", len(got), len(want))
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			return fmt.Errorf("layer %d has %d neurons, network has %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if len(want[i][j]) != len(got[i][j]) {
				return fmt.Errorf("layer %d neuron %d has %d inputs, network has %d", i, j, len(got[i][j]), len(want[i][j]))
			}
		}
	}
	return nil
}

func (n *Network) Name() string {
	return n.name
}

// Evaluate satisfies the Evaluate function type.
func (n *Network) Evaluate(s State, reference Side) float64 {
	if score, terminal := Outcome(s, reference); terminal {
		return score
	}
	p, ok := s.(*Position)
	if !ok {
		panic("unexpected state type")
	}

	n.mu.Lock()
	out := n.neural.Predict(Encode(p))
	n.mu.Unlock()

	return orient(clamp(out[0]), reference)
}

// Encode flattens a position into the network's input vector.
func Encode(p *Position) []float64 {
	input := make([]float64, NetworkInputs)
	board := p.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		plane := planes[piece.Type()]
		if piece.Color() == chess.Black {
			plane += 6
		}
		input[plane*64+int(sq)] = 1
	}
	if p.Turn() == White {
		input[NetworkInputs-1] = 1
	}
	return input
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
