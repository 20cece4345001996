package board

import (
	"errors"
	"fmt"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CastleRight returns the flag for the given color and side.
func CastleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&CastleRight(c, kingSide) != 0
}

// EnPassantWindow records the square a pawn skipped with a double push and
// the ply at which it may be captured there. The window is only usable on
// exactly that ply.
type EnPassantWindow struct {
	Target Square
	Expiry int
}

// NoEnPassant is the closed window.
var NoEnPassant = EnPassantWindow{Target: NoSquare}

// Live returns true if the window can be used on the given ply.
func (w EnPassantWindow) Live(ply int) bool {
	return w.Target.IsValid() && w.Expiry == ply
}

// ErrKingCount is returned when a color does not have exactly one king.
var ErrKingCount = errors.New("each side must have exactly one king")

// Position represents a complete chess position.
type Position struct {
	Board Board

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      EnPassantWindow

	// Ply counts every half-move played; the en-passant window is keyed on it.
	Ply int
	// HalfMoveClock counts half-moves since the last pawn move or capture.
	HalfMoveClock  int
	FullMoveNumber int
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board.At(sq)
}

// EnPassantTarget returns the en-passant target if the window is live on the
// current ply, NoSquare otherwise.
func (p *Position) EnPassantTarget() Square {
	if p.EnPassant.Live(p.Ply) {
		return p.EnPassant.Target
	}
	return NoSquare
}

// Validate checks that each side has exactly one king.
func (p *Position) Validate() error {
	for c := White; c <= Black; c++ {
		if n := p.Board.count(NewPiece(King, c)); n != 1 {
			return fmt.Errorf("%w: %s has %d", ErrKingCount, c, n)
		}
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n" + p.Board.String() + "\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassantTarget())
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	return s
}
