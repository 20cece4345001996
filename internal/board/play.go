package board

// homeRooks maps each rook home square to the castling right it guards.
var homeRooks = map[Square]CastlingRights{
	H1: WhiteKingSideCastle,
	A1: WhiteQueenSideCastle,
	H8: BlackKingSideCastle,
	A8: BlackQueenSideCastle,
}

// Play returns the position reached by playing m, which must be legal in p.
// The receiver is left untouched: the successor gets its own board with the
// move's side effects, updated castling rights, the en-passant window, the
// clocks and the other side to move.
func (p *Position) Play(m Move) *Position {
	next := p.Copy()
	us := m.Piece.Color()
	captured := p.Board[m.To]

	next.Board = p.Board.WithMove(m)

	// Castling rights
	if m.Piece.Type() == King {
		next.CastlingRights &^= CastleRight(us, true) | CastleRight(us, false)
	}
	if m.Piece.Type() == Rook {
		next.CastlingRights &^= homeRooks[m.From]
	}
	if captured.Type() == Rook {
		next.CastlingRights &^= homeRooks[m.To]
	}

	// En passant window
	next.EnPassant = NoEnPassant
	if m.IsDoublePush() {
		skipped := mustSquare((m.From.Rank()+m.To.Rank())/2, m.From.File())
		next.EnPassant = EnPassantWindow{Target: skipped, Expiry: p.Ply + 1}
	}

	// Clocks
	next.Ply++
	if next.EnPassant.Target.IsValid() && next.EnPassant.Expiry < next.Ply {
		next.EnPassant = NoEnPassant
	}
	if m.Piece.Type() == Pawn || m.IsCapture() {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}
	if us == Black {
		next.FullMoveNumber++
	}

	next.SideToMove = us.Other()
	return next
}
