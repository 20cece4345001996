// Package board implements the chess position model, move generation with
// king-safety filtering, and FEN import/export.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Squares are stored rank-major starting from the eighth rank:
// A8=0, H8=7, A1=56, H1=63. Rank 0 is notation rank 8, file 0 is file a.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// OutOfBoundsError reports a raw coordinate outside the board.
// It is raised as a panic: callers are expected to validate coordinates first.
type OutOfBoundsError struct {
	Rank, File int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("square (%d, %d) is off the board", e.Rank, e.File)
}

// OnBoard reports whether rank and file are both in [0,7].
func OnBoard(rank, file int) bool {
	return rank >= 0 && rank < 8 && file >= 0 && file < 8
}

// NewSquare creates a square from a rank (0 = eighth rank) and file (0 = a).
func NewSquare(rank, file int) (Square, error) {
	if !OnBoard(rank, file) {
		return NoSquare, &OutOfBoundsError{Rank: rank, File: file}
	}
	return Square(rank*8 + file), nil
}

// mustSquare is NewSquare for coordinates already known to be on the board.
func mustSquare(rank, file int) Square {
	if !OnBoard(rank, file) {
		panic(&OutOfBoundsError{Rank: rank, File: file})
	}
	return Square(rank*8 + file)
}

// Rank returns the board row (0-7, where 0 is the eighth rank).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '8'-sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	file := int(s[0]) - 'a'
	rank := '8' - int(s[1])

	if !OnBoard(rank, file) {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	return Square(rank*8 + file), nil
}

// offset returns the square shifted by dr ranks and df files, or false when
// the result leaves the board.
func (sq Square) offset(dr, df int) (Square, bool) {
	r, f := sq.Rank()+dr, sq.File()+df
	if !OnBoard(r, f) {
		return NoSquare, false
	}
	return Square(r*8 + f), true
}
