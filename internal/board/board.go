package board

import "strings"

// Board maps every square to the piece standing on it.
// It is a value type: assigning a Board copies all 64 squares, which is what
// the legality filter relies on when it simulates a move.
type Board [64]Piece

// At returns the piece on sq, or NoPiece if the square is empty.
func (b *Board) At(sq Square) Piece {
	if !sq.IsValid() {
		panic(&OutOfBoundsError{Rank: sq.Rank(), File: sq.File()})
	}
	return b[sq]
}

// Get returns the piece at the given rank and file.
// It panics with *OutOfBoundsError if the coordinates are off the board.
func (b *Board) Get(rank, file int) Piece {
	return b[mustSquare(rank, file)]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.At(sq) == NoPiece
}

// IsEnemy returns true if sq holds a piece of the color opposing c.
func (b *Board) IsEnemy(sq Square, c Color) bool {
	p := b.At(sq)
	return p != NoPiece && p.Color() != c
}

// KingSquare scans the board for the king of color c.
func (b *Board) KingSquare(c Color) (Square, bool) {
	king := NewPiece(King, c)
	for sq := A8; sq < NoSquare; sq++ {
		if b[sq] == king {
			return sq, true
		}
	}
	return NoSquare, false
}

// count returns how many copies of piece stand on the board.
func (b *Board) count(piece Piece) int {
	n := 0
	for _, p := range b {
		if p == piece {
			n++
		}
	}
	return n
}

// WithMove returns a copy of the board with m applied, including the special
// move side effects: en-passant removal, castling rook relocation and
// promotion to a queen. The receiver is not modified.
func (b Board) WithMove(m Move) Board {
	piece := b[m.From]
	b[m.From] = NoPiece

	if m.IsEnPassant() {
		b[mustSquare(m.From.Rank(), m.To.File())] = NoPiece
	}

	if m.IsCastling() {
		rank := m.From.Rank()
		if m.To.File() > m.From.File() {
			b[mustSquare(rank, 5)] = b[mustSquare(rank, 7)]
			b[mustSquare(rank, 7)] = NoPiece
		} else {
			b[mustSquare(rank, 3)] = b[mustSquare(rank, 0)]
			b[mustSquare(rank, 0)] = NoPiece
		}
	}

	if m.IsPromotion() {
		piece = NewPiece(Queen, piece.Color())
	}

	b[m.To] = piece
	return b
}

// String returns a visual representation of the board, eighth rank first.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 0; rank < 8; rank++ {
		sb.WriteByte(byte('8' - rank))
		sb.WriteString("  ")
		for file := 0; file < 8; file++ {
			piece := b.Get(rank, file)
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
