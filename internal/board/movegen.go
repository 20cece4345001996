package board

// PseudoLegalMoves generates the moves of the piece on from that follow its
// movement pattern and occupancy rules, without checking king safety.
// Enemy kings are never produced as destinations.
func (p *Position) PseudoLegalMoves(from Square) []Move {
	piece := p.Board.At(from)
	if piece == NoPiece {
		return nil
	}

	var moves []Move
	switch piece.Type() {
	case Pawn:
		moves = p.generatePawnMoves(moves, from, piece)
	case Knight:
		moves = p.generateStepMoves(moves, from, piece, knightOffsets[:])
	case Bishop:
		moves = p.generateSlidingMoves(moves, from, piece, bishopDirections[:])
	case Rook:
		moves = p.generateSlidingMoves(moves, from, piece, rookDirections[:])
	case Queen:
		moves = p.generateSlidingMoves(moves, from, piece, queenDirections[:])
	case King:
		moves = p.generateStepMoves(moves, from, piece, kingOffsets[:])
		moves = p.generateCastlingMoves(moves, from, piece)
	}
	return moves
}

// target classifies a destination for a non-pawn move.
// It returns the capture flag and whether the square can be entered.
func (p *Position) target(to Square, us Color) (MoveFlag, bool) {
	occupant := p.Board[to]
	switch {
	case occupant == NoPiece:
		return 0, true
	case occupant.Color() == us || occupant.Type() == King:
		return 0, false
	default:
		return FlagCapture, true
	}
}

// generatePawnMoves generates pushes, double pushes, captures and en passant.
// A pawn reaching the last rank always promotes to a queen.
func (p *Position) generatePawnMoves(moves []Move, from Square, piece Piece) []Move {
	us := piece.Color()
	dir := us.forward()
	lastRank := us.Other().backRank()

	add := func(to Square, flags MoveFlag) {
		if to.Rank() == lastRank {
			flags |= FlagPromotion
		}
		moves = append(moves, Move{From: from, To: to, Piece: piece, Flags: flags})
	}

	// Single and double pushes
	if one, ok := from.offset(dir, 0); ok && p.Board[one] == NoPiece {
		add(one, 0)
		if from.Rank() == us.pawnRank() {
			if two, ok := one.offset(dir, 0); ok && p.Board[two] == NoPiece {
				add(two, FlagDoublePush)
			}
		}
	}

	// Captures
	epTarget := NoSquare
	if us == p.SideToMove {
		epTarget = p.EnPassantTarget()
	}
	for _, df := range [2]int{-1, 1} {
		to, ok := from.offset(dir, df)
		if !ok {
			continue
		}
		occupant := p.Board[to]
		switch {
		case occupant != NoPiece:
			if occupant.Color() != us && occupant.Type() != King {
				add(to, FlagCapture)
			}
		case to == epTarget:
			// The double-stepped pawn stands beside us, on our rank.
			jumped := mustSquare(from.Rank(), to.File())
			if p.Board[jumped] == NewPiece(Pawn, us.Other()) {
				add(to, FlagCapture|FlagEnPassant)
			}
		}
	}

	return moves
}

// generateStepMoves generates single-step moves for knights and kings.
func (p *Position) generateStepMoves(moves []Move, from Square, piece Piece, offsets [][2]int) []Move {
	us := piece.Color()
	for _, d := range offsets {
		to, ok := from.offset(d[0], d[1])
		if !ok {
			continue
		}
		if flags, ok := p.target(to, us); ok {
			moves = append(moves, Move{From: from, To: to, Piece: piece, Flags: flags})
		}
	}
	return moves
}

// generateSlidingMoves ray-casts in each direction, stopping at the first
// occupied square and including it only when it holds a capturable enemy.
func (p *Position) generateSlidingMoves(moves []Move, from Square, piece Piece, dirs [][2]int) []Move {
	us := piece.Color()
	for _, d := range dirs {
		cur := from
		for {
			to, ok := cur.offset(d[0], d[1])
			if !ok {
				break
			}
			flags, ok := p.target(to, us)
			if ok {
				moves = append(moves, Move{From: from, To: to, Piece: piece, Flags: flags})
			}
			if p.Board[to] != NoPiece {
				break
			}
			cur = to
		}
	}
	return moves
}

// generateCastlingMoves emits castling candidates for a king on its home
// square. The right must be intact, the rook in place, the squares between
// empty, and the king's start, transit and destination squares unattacked.
func (p *Position) generateCastlingMoves(moves []Move, from Square, piece Piece) []Move {
	us := piece.Color()
	them := us.Other()
	rank := us.backRank()
	if from != mustSquare(rank, 4) {
		return moves
	}

	rook := NewPiece(Rook, us)
	for _, kingSide := range [2]bool{true, false} {
		if !p.CastlingRights.CanCastle(us, kingSide) {
			continue
		}

		rookFile, step := 0, -1
		if kingSide {
			rookFile, step = 7, 1
		}
		if p.Board[mustSquare(rank, rookFile)] != rook {
			continue
		}

		empty := true
		for f := 4 + step; f != rookFile; f += step {
			if p.Board[mustSquare(rank, f)] != NoPiece {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}

		pass := mustSquare(rank, 4+step)
		to := mustSquare(rank, 4+2*step)
		if IsSquareAttacked(&p.Board, from, them) ||
			IsSquareAttacked(&p.Board, pass, them) ||
			IsSquareAttacked(&p.Board, to, them) {
			continue
		}

		moves = append(moves, Move{From: from, To: to, Piece: piece, Flags: FlagCastling})
	}
	return moves
}

// IsLegal returns true if playing m does not leave the mover's king attacked.
// The move is simulated on a copy of the board and the king is located by
// scanning the result.
func (p *Position) IsLegal(m Move) bool {
	us := m.Piece.Color()
	after := p.Board.WithMove(m)
	ksq, ok := after.KingSquare(us)
	if !ok {
		return false
	}
	return !IsSquareAttacked(&after, ksq, us.Other())
}

// LegalMovesFrom generates the legal moves of the piece on from.
func (p *Position) LegalMovesFrom(from Square) []Move {
	pseudo := p.PseudoLegalMoves(from)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if p.IsLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves generates all legal moves for the side to move, in square order.
func (p *Position) LegalMoves() []Move {
	var moves []Move
	for sq := A8; sq < NoSquare; sq++ {
		if piece := p.Board[sq]; piece != NoPiece && piece.Color() == p.SideToMove {
			moves = append(moves, p.LegalMovesFrom(sq)...)
		}
	}
	return moves
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	for sq := A8; sq < NoSquare; sq++ {
		piece := p.Board[sq]
		if piece == NoPiece || piece.Color() != p.SideToMove {
			continue
		}
		for _, m := range p.PseudoLegalMoves(sq) {
			if p.IsLegal(m) {
				return true
			}
		}
	}
	return false
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return InCheck(&p.Board, p.SideToMove)
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// FindMove returns the legal move matching req, or false if there is none.
func (p *Position) FindMove(req MoveRequest) (Move, bool) {
	if !req.From.IsValid() || !req.To.IsValid() {
		return NoMove, false
	}
	for _, m := range p.LegalMovesFrom(req.From) {
		if req.Matches(m) {
			return m, true
		}
	}
	return NoMove, false
}
