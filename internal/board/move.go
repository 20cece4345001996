package board

import (
	"fmt"
	"strings"
)

// MoveFlag carries move metadata.
type MoveFlag uint8

// Move flags
const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastling
	FlagPromotion
	FlagDoublePush
)

// Move is a fully described move: origin, destination, the moving piece and
// its special-move flags. Promotion is always to a queen.
type Move struct {
	From  Square
	To    Square
	Piece Piece
	Flags MoveFlag
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Flags&FlagCapture != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags&FlagEnPassant != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flags&FlagCastling != 0
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flags&FlagPromotion != 0
}

// IsDoublePush returns true if this is a pawn's two-square advance.
func (m Move) IsDoublePush() bool {
	return m.Flags&FlagDoublePush != 0
}

// String returns the coordinate format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.From == NoSquare {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += "q"
	}
	return s
}

// MoveRequest is a move proposed from outside the engine: origin and
// destination squares plus an optional promotion piece. The promotion piece is
// accepted for compatibility with coordinate notation but promotion is always
// to a queen.
type MoveRequest struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String returns the coordinate format of the request.
func (r MoveRequest) String() string {
	s := r.From.String() + r.To.String()
	if r.Promotion != NoPieceType && r.Promotion != Pawn {
		s += string(r.Promotion.Char())
	}
	return s
}

// Matches returns true if m moves between the requested squares.
func (r MoveRequest) Matches(m Move) bool {
	return r.From == m.From && r.To == m.To
}

// ParseMoveRequest parses a coordinate move string such as "e2e4" or "e7e8q".
func ParseMoveRequest(s string) (MoveRequest, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return MoveRequest{}, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return MoveRequest{}, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return MoveRequest{}, err
	}

	req := MoveRequest{From: from, To: to, Promotion: NoPieceType}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			req.Promotion = Queen
		case 'r':
			req.Promotion = Rook
		case 'b':
			req.Promotion = Bishop
		case 'n':
			req.Promotion = Knight
		default:
			return MoveRequest{}, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	return req, nil
}

// Request returns the request that selects m.
func (m Move) Request() MoveRequest {
	req := MoveRequest{From: m.From, To: m.To, Promotion: NoPieceType}
	if m.IsPromotion() {
		req.Promotion = Queen
	}
	return req
}
