package game

import (
	"math"

	"github.com/notnil/chess"
)

// DefaultKingValue anchors the sigmoid scaling: a king's worth of material
// advantage evaluates to roughly 0.99.
const DefaultKingValue = 2000.0

// EvaluateMaterial is the material and piece-square evaluator with the default
// king value.
var EvaluateMaterial = MaterialEvaluator(DefaultKingValue)

// MaterialEvaluator scores a position by material plus piece-square bonuses,
// squashed into [0,1] and oriented to the reference side. Terminal positions
// resolve through Outcome.
func MaterialEvaluator(kingValue float64) Evaluate {
	if kingValue <= 0 {
		kingValue = DefaultKingValue
	}
	values := map[chess.PieceType]float64{
		chess.Pawn:   100,
		chess.Knight: 320,
		chess.Bishop: 330,
		chess.Rook:   500,
		chess.Queen:  900,
		chess.King:   kingValue,
	}
	scaling := kingValue / 5

	return func(s State, reference Side) float64 {
		if score, terminal := Outcome(s, reference); terminal {
			return score
		}
		p, ok := s.(*Position)
		if !ok {
			panic("unexpected state type")
		}
		return orient(sigmoid(material(p.Board(), values)/scaling), reference)
	}
}

// material sums piece values and positional bonuses, positive for White.
func material(board *chess.Board, values map[chess.PieceType]float64) float64 {
	score := 0.0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := values[piece.Type()] + pieceSquare[piece.Color()][piece.Type()][int(sq)]
		if piece.Color() == chess.White {
			score += value
		} else {
			score -= value
		}
	}
	return score
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// orient turns White's winning chance into the reference side's.
func orient(white float64, reference Side) float64 {
	if reference == Black {
		return 1 - white
	}
	return white
}
