package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward is the rank delta of a pawn push for the color.
// Rank 0 is the eighth rank, so White moves towards lower ranks.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// backRank is the board row holding the color's king and rooks at the start.
func (c Color) backRank() int {
	if c == White {
		return 7
	}
	return 0
}

// pawnRank is the board row the color's pawns start on.
func (c Color) pawnRank() int {
	if c == White {
		return 6
	}
	return 1
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pnbrqk"[pt]
}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*6 + 1, so the zero value is NoPiece and a
// zero Board is empty.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6 + 1
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6 + 1
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6 + 1
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6 + 1
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6 + 1
	WhiteKing   Piece = Piece(King) + Piece(White)*6 + 1
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6 + 1
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6 + 1
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6 + 1
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6 + 1
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6 + 1
	BlackKing   Piece = Piece(King) + Piece(Black)*6 + 1
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6 + 1
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p == NoPiece || p > BlackKing {
		return NoPieceType
	}
	return PieceType((p - 1) % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p == NoPiece || p > BlackKing {
		return NoColor
	}
	return Color((p - 1) / 6)
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p == NoPiece || p > BlackKing {
		return " "
	}
	return string("PNBRQKpnbrqk"[p-1])
}

var pieceSymbols = [...]string{"♙", "♘", "♗", "♖", "♕", "♔", "♟", "♞", "♝", "♜", "♛", "♚"}

// Symbol returns the Unicode chess glyph for display.
func (p Piece) Symbol() string {
	if p == NoPiece || p > BlackKing {
		return " "
	}
	return pieceSymbols[p-1]
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}
