package board

import (
	"fmt"
	"strings"
)

// SAN converts a move to Standard Algebraic Notation in the given position.
func (m Move) SAN(pos *Position) string {
	if m.From == NoSquare {
		return "-"
	}

	// Castling
	if m.IsCastling() {
		if m.To.File() > m.From.File() {
			return "O-O" + checkSuffix(pos, m)
		}
		return "O-O-O" + checkSuffix(pos, m)
	}

	var sb strings.Builder
	pt := m.Piece.Type()

	// Piece letter and disambiguation (not for pawns)
	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(disambiguation(pos, m))
	}

	// Capture marker
	if m.IsCapture() {
		if pt == Pawn {
			// Pawn captures include the file of origin
			sb.WriteByte('a' + byte(m.From.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To.String())

	if m.IsPromotion() {
		sb.WriteString("=Q")
	}

	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

// checkSuffix returns "#" or "+" if m mates or checks.
func checkSuffix(pos *Position, m Move) string {
	next := pos.Play(m)
	if !next.InCheck() {
		return ""
	}
	if next.HasLegalMoves() {
		return "+"
	}
	return "#"
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same kind can reach the same destination.
func disambiguation(pos *Position, m Move) string {
	var candidates []Square
	for _, other := range pos.LegalMoves() {
		if other.To == m.To && other.From != m.From && other.Piece == m.Piece {
			candidates = append(candidates, other.From)
		}
	}

	// No ambiguity
	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return m.From.String()[:1]
	}
	if !sameRank {
		return m.From.String()[1:]
	}
	return m.From.String()
}

// ParseSAN parses a SAN string and returns the matching legal move.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	// Handle castling
	switch s {
	case "O-O", "0-0":
		return findCastle(pos, true, orig)
	case "O-O-O", "0-0-0":
		return findCastle(pos, false, orig)
	}

	// Promotion suffix; every promotion is to a queen.
	if idx := strings.Index(s, "="); idx >= 0 {
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	// Determine piece type
	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("invalid piece letter in %q", orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	// Disambiguation (file, rank, or both)
	disambigFile, disambigRank := -1, -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int('8' - c)
		}
	}

	for _, m := range pos.LegalMoves() {
		if m.To != dest || m.Piece.Type() != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("no legal move matches %q", orig)
}

func findCastle(pos *Position, kingSide bool, orig string) (Move, error) {
	for _, m := range pos.LegalMoves() {
		if m.IsCastling() && (m.To.File() > m.From.File()) == kingSide {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("castling not legal: %q", orig)
}
