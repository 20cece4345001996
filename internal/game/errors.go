package game

import (
	"errors"
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrGameOver    = errors.New("game is over")
)

// MoveError describes a rejected move request.
type MoveError struct {
	Request board.MoveRequest
	Reason  string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("invalid move %s: %s", e.Request, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return ErrInvalidMove
}

func rejectMove(req board.MoveRequest, reason string) error {
	return &MoveError{Request: req, Reason: reason}
}
