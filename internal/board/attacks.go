package board

// Movement patterns as (rank, file) deltas.
var (
	knightOffsets = [8][2]int{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	kingOffsets = [8][2]int{
		{-1, -1}, {-1, 0}, {-1, 1}, {0, -1},
		{0, 1}, {1, -1}, {1, 0}, {1, 1},
	}
	rookDirections   = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirections = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirections  = [8][2]int{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
		{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	}
)

// IsSquareAttacked returns true if any piece of color by could reach sq with
// a pseudo-legal move. Pawns attack only their forward diagonals. This never
// consults king safety, so the legality filter can call it freely.
func IsSquareAttacked(b *Board, sq Square, by Color) bool {
	// Pawns: an attacker sits one rank behind sq from its own point of view.
	pawn := NewPiece(Pawn, by)
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.offset(-by.forward(), df); ok && b[from] == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, by)
	for _, d := range knightOffsets {
		if from, ok := sq.offset(d[0], d[1]); ok && b[from] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, d := range kingOffsets {
		if from, ok := sq.offset(d[0], d[1]); ok && b[from] == king {
			return true
		}
	}

	queen := NewPiece(Queen, by)
	if rayHits(b, sq, rookDirections[:], NewPiece(Rook, by), queen) {
		return true
	}
	return rayHits(b, sq, bishopDirections[:], NewPiece(Bishop, by), queen)
}

// rayHits walks each direction from sq and reports whether the first piece
// met is one of the given sliders.
func rayHits(b *Board, sq Square, dirs [][2]int, slider, queen Piece) bool {
	for _, d := range dirs {
		cur := sq
		for {
			next, ok := cur.offset(d[0], d[1])
			if !ok {
				break
			}
			if p := b[next]; p != NoPiece {
				if p == slider || p == queen {
					return true
				}
				break
			}
			cur = next
		}
	}
	return false
}

// InCheck returns true if the king of color c is attacked on b.
func InCheck(b *Board, c Color) bool {
	ksq, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, ksq, c.Other())
}
