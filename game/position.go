package game

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Position is an immutable chess position. It carries no move history, so
// draws by repetition or move counters are never reported.
type Position struct {
	pos *chess.Position
}

// ChessMove is a legal move produced by a Position.
type ChessMove struct {
	move *chess.Move
	from *chess.Position
}

func (m ChessMove) String() string {
	return m.move.String()
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return &Position{pos: chess.NewGame().Position()}
}

// DecodeFEN accepts FEN strings whose fields are joined with underscores, the
// form used in request URLs.
func DecodeFEN(fen string) string {
	return strings.TrimSpace(strings.ReplaceAll(fen, "_", " "))
}

// FromFEN parses a (possibly underscore-encoded) FEN string.
func FromFEN(fen string) (*Position, error) {
	decoded := DecodeFEN(fen)
	if decoded == "" {
		return nil, fmt.Errorf("%w: empty fen", ErrInvalidPosition)
	}
	option, err := chess.FEN(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	pos := chess.NewGame(option).Position()
	if err := validate(pos); err != nil {
		return nil, fmt.Errorf("%w: %v in %s", ErrInvalidPosition, err, decoded)
	}
	return &Position{pos: pos}, nil
}

// validate rejects boards that no legal game can reach: a missing or extra
// king, a pawn on the first or last rank, or a capturable king.
func validate(pos *chess.Position) error {
	board := pos.Board()
	kings := map[chess.Color][]chess.Square{}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		switch piece.Type() {
		case chess.King:
			kings[piece.Color()] = append(kings[piece.Color()], sq)
		case chess.Pawn:
			if sq.Rank() == chess.Rank1 || sq.Rank() == chess.Rank8 {
				return fmt.Errorf("pawn on %s", sq)
			}
		}
	}
	for _, colour := range []chess.Color{chess.White, chess.Black} {
		if len(kings[colour]) != 1 {
			return fmt.Errorf("%d %s kings", len(kings[colour]), colour.Name())
		}
	}
	waiting := pos.Turn().Other()
	if attacked(board, kings[waiting][0], pos.Turn()) {
		return fmt.Errorf("%s is in check but not to move", waiting.Name())
	}
	return nil
}

var (
	knightSteps   = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps     = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straightSteps = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalSteps = [][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// attacked reports whether a piece of colour by attacks the target square.
func attacked(board *chess.Board, target chess.Square, by chess.Color) bool {
	file, rank := int(target.File()), int(target.Rank())
	at := func(f, r int) chess.Piece {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return chess.NoPiece
		}
		return board.Piece(chess.NewSquare(chess.File(f), chess.Rank(r)))
	}
	is := func(piece chess.Piece, types ...chess.PieceType) bool {
		if piece == chess.NoPiece || piece.Color() != by {
			return false
		}
		for _, t := range types {
			if piece.Type() == t {
				return true
			}
		}
		return false
	}

	for _, step := range knightSteps {
		if is(at(file+step[0], rank+step[1]), chess.Knight) {
			return true
		}
	}
	for _, step := range kingSteps {
		if is(at(file+step[0], rank+step[1]), chess.King) {
			return true
		}
	}
	// Pawns attack forward diagonally, so an attacker stands one rank behind.
	behind := -1
	if by == chess.Black {
		behind = 1
	}
	if is(at(file-1, rank+behind), chess.Pawn) || is(at(file+1, rank+behind), chess.Pawn) {
		return true
	}

	slide := func(steps [][2]int, types ...chess.PieceType) bool {
		for _, step := range steps {
			for f, r := file+step[0], rank+step[1]; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+step[0], r+step[1] {
				piece := at(f, r)
				if piece == chess.NoPiece {
					continue
				}
				if is(piece, types...) {
					return true
				}
				break
			}
		}
		return false
	}
	return slide(straightSteps, chess.Rook, chess.Queen) || slide(diagonalSteps, chess.Bishop, chess.Queen)
}

func (p *Position) Turn() Side {
	if p.pos.Turn() == chess.Black {
		return Black
	}
	return White
}

func (p *Position) LegalMoves() []Move {
	if p.insufficientMaterial() {
		return nil
	}
	valid := p.pos.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = ChessMove{move: m, from: p.pos}
	}
	return moves
}

// Play applies a legal move. Moves generated by this position are applied
// directly; moves from another source are matched by their UCI string.
func (p *Position) Play(move Move) (State, error) {
	if move == nil {
		return nil, fmt.Errorf("%w: nil move", ErrIllegalMove)
	}
	if p.IsTerminal() {
		return nil, fmt.Errorf("%w: %s on finished position %s", ErrIllegalMove, move, p)
	}
	if m, ok := move.(ChessMove); ok && m.from == p.pos && m.move != nil {
		return &Position{pos: p.pos.Update(m.move)}, nil
	}
	uci := move.String()
	for _, m := range p.pos.ValidMoves() {
		if m.String() == uci {
			return &Position{pos: p.pos.Update(m)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, p)
}

// ParseMove resolves a UCI string against the legal moves of the position.
func (p *Position) ParseMove(uci string) (Move, error) {
	return FindMove(p, uci)
}

func (p *Position) IsTerminal() bool {
	return p.pos.Status() != chess.NoMethod || p.insufficientMaterial()
}

func (p *Position) IsCheckmate() bool {
	return p.pos.Status() == chess.Checkmate
}

// String returns the FEN of the position.
func (p *Position) String() string {
	return p.pos.String()
}

func (p *Position) Board() *chess.Board {
	return p.pos.Board()
}

// insufficientMaterial reports bare kings, a lone minor piece, or bishops that
// all stand on the same square colour.
func (p *Position) insufficientMaterial() bool {
	board := p.pos.Board()
	minors := 0
	knights := 0
	bishopColours := map[int]bool{}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		switch piece.Type() {
		case chess.King:
		case chess.Knight:
			minors++
			knights++
		case chess.Bishop:
			minors++
			bishopColours[(int(sq)/8+int(sq)%8)%2] = true
		default:
			return false
		}
	}
	if minors <= 1 {
		return true
	}
	return knights == 0 && len(bishopColours) == 1
}
