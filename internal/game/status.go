package game

import "github.com/hailam/chessrules/internal/board"

// State is the classification of a position for the side to move.
type State uint8

const (
	InProgress State = iota
	Check
	Checkmate
	Stalemate
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "unknown"
}

// Terminal returns true for checkmate and stalemate.
func (s State) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// Status is the externally visible game status.
type Status struct {
	State      State
	SideToMove board.Color
	InCheck    bool
	// Winner is NoColor unless the game ended in checkmate.
	Winner board.Color
	// JustFinished is set only on the status Apply returns for the move
	// that ended the game.
	JustFinished bool
}

// GameOver reports whether no further moves are accepted.
func (s Status) GameOver() bool {
	return s.State.Terminal()
}

// Result returns the PGN-style result tag: "1-0", "0-1", "1/2-1/2" or "*".
func (s Status) Result() string {
	switch {
	case s.State == Stalemate:
		return "1/2-1/2"
	case s.State != Checkmate:
		return "*"
	case s.Winner == board.White:
		return "1-0"
	default:
		return "0-1"
	}
}

// classify derives the status of pos from the side to move's point of view.
func classify(pos *board.Position) Status {
	st := Status{
		SideToMove: pos.SideToMove,
		InCheck:    pos.InCheck(),
		Winner:     board.NoColor,
	}
	hasMoves := pos.HasLegalMoves()

	switch {
	case st.InCheck && !hasMoves:
		st.State = Checkmate
		st.Winner = pos.SideToMove.Other()
	case !hasMoves:
		st.State = Stalemate
	case st.InCheck:
		st.State = Check
	default:
		st.State = InProgress
	}
	return st
}
