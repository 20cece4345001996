package board

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// maxMoveCounter bounds imported clocks so the derived ply and later
// increments stay within int32.
const maxMoveCounter = math.MaxInt32 / 2

// FEN field names used in parse errors.
const (
	FieldCount     = "fields"
	FieldPlacement = "placement"
	FieldSide      = "side to move"
	FieldCastling  = "castling"
	FieldEnPassant = "en passant"
	FieldHalfMove  = "halfmove clock"
	FieldFullMove  = "fullmove number"
)

// ErrParse is the sentinel matched by every *ParseError.
var ErrParse = errors.New("invalid FEN")

// ParseError reports which FEN field failed and why.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid FEN %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid FEN %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

func parseErr(field, value, format string, args ...any) *ParseError {
	return &ParseError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// ParseFEN parses a FEN string and returns a Position.
// The halfmove clock and fullmove number are optional and default to 0 and 1.
// An en-passant square in the string is taken as live on the imported ply.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, parseErr(FieldCount, "", "need 4 to 6 fields, got %d", len(parts))
	}

	pos := &Position{
		EnPassant:      NoEnPassant,
		FullMoveNumber: 1,
	}

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, parseErr(FieldSide, parts[1], "must be w or b")
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, parseErr(FieldHalfMove, parts[4], "must be a non-negative integer")
		}
		if hmc > maxMoveCounter {
			return nil, parseErr(FieldHalfMove, parts[4], "must not exceed %d", maxMoveCounter)
		}
		pos.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, parseErr(FieldFullMove, parts[5], "must be a positive integer")
		}
		if fmn > maxMoveCounter {
			return nil, parseErr(FieldFullMove, parts[5], "must not exceed %d", maxMoveCounter)
		}
		pos.FullMoveNumber = fmn
	}

	pos.Ply = 2 * (pos.FullMoveNumber - 1)
	if pos.SideToMove == Black {
		pos.Ply++
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, parseErr(FieldEnPassant, parts[3], "not a square")
		}
		// The skipped square sits behind the pawn that just moved.
		if sq.Rank() != pos.SideToMove.Other().pawnRank()+pos.SideToMove.Other().forward() {
			return nil, parseErr(FieldEnPassant, parts[3], "not on the skipped rank for %s", pos.SideToMove.Other())
		}
		pos.EnPassant = EnPassantWindow{Target: sq, Expiry: pos.Ply}
	}

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return parseErr(FieldPlacement, placement, "need 8 ranks, got %d", len(ranks))
	}

	for rank, rankStr := range ranks {
		file := 0
		prevDigit := false

		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			if file > 7 {
				return parseErr(FieldPlacement, rankStr, "too many squares in rank %d", 8-rank)
			}

			if c >= '1' && c <= '8' {
				if prevDigit {
					return parseErr(FieldPlacement, rankStr, "consecutive empty-square counts in rank %d", 8-rank)
				}
				// Skip empty squares
				file += int(c - '0')
				prevDigit = true
				continue
			}
			prevDigit = false

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return parseErr(FieldPlacement, rankStr, "invalid piece character %q", c)
			}
			pos.Board[rank*8+file] = piece
			file++
		}

		if file != 8 {
			return parseErr(FieldPlacement, rankStr, "rank %d has %d squares", 8-rank, file)
		}
	}

	if err := pos.Validate(); err != nil {
		return parseErr(FieldPlacement, placement, "%v", err)
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for i := 0; i < len(castling); i++ {
		var right CastlingRights
		switch castling[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return parseErr(FieldCastling, castling, "invalid castling character %q", castling[i])
		}
		if pos.CastlingRights&right != 0 {
			return parseErr(FieldCastling, castling, "duplicate castling character %q", castling[i])
		}
		pos.CastlingRights |= right
	}

	return nil
}

// FEN returns the FEN representation of the position.
// The en-passant field is only filled while the window is live.
func (p *Position) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 0; rank < 8; rank++ {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board.Get(rank, file)
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank < 7 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassantTarget().String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
