// Package game holds the authoritative state of a single chess game: it
// validates move requests against the legal move set, commits them, and
// reclassifies the position after every move.
package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
)

// Record is one entry of the move history.
type Record struct {
	Ply  int
	Move board.Move
	SAN  string
	// FEN is the position reached after the move.
	FEN string
}

// Game is a chess game in progress. It is not safe for concurrent use.
type Game struct {
	pos     *board.Position
	status  Status
	history []Record
	logger  *zap.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for move and status events.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// New returns a game in the standard starting position.
func New(opts ...Option) *Game {
	return newGame(board.NewPosition(), opts)
}

// FromFEN returns a game starting from the position described by fen.
// Status is classified immediately, so an imported mate or stalemate is
// already over.
func FromFEN(fen string, opts ...Option) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("import position: %w", err)
	}
	return newGame(pos, opts), nil
}

func newGame(pos *board.Position, opts []Option) *Game {
	g := &Game{
		pos:    pos,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.status = classify(pos)
	g.logger.Debug("game created",
		zap.String("fen", pos.FEN()),
		zap.Stringer("state", g.status.State))
	return g
}

// Apply validates req and, if it is legal, plays it. The returned status has
// JustFinished set when this move ended the game. The game is left unchanged
// when an error is returned: ErrGameOver once the game has ended, or a
// *MoveError wrapping ErrInvalidMove.
func (g *Game) Apply(req board.MoveRequest) (Status, error) {
	if g.status.GameOver() {
		return g.status, ErrGameOver
	}

	m, err := g.validate(req)
	if err != nil {
		g.logger.Debug("move rejected", zap.Error(err))
		return g.status, err
	}

	san := m.SAN(g.pos)
	prev := g.status.State
	g.pos = g.pos.Play(m)
	g.status = classify(g.pos)
	g.history = append(g.history, Record{
		Ply:  g.pos.Ply,
		Move: m,
		SAN:  san,
		FEN:  g.pos.FEN(),
	})

	g.logger.Info("move applied",
		zap.String("move", m.String()),
		zap.String("san", san),
		zap.Int("ply", g.pos.Ply),
		zap.Stringer("state", g.status.State))
	if g.status.State != prev {
		g.logger.Info("status changed",
			zap.Stringer("from", prev),
			zap.Stringer("to", g.status.State),
			zap.Stringer("winner", g.status.Winner))
	}

	st := g.status
	st.JustFinished = st.GameOver()
	return st, nil
}

func (g *Game) validate(req board.MoveRequest) (board.Move, error) {
	if !req.From.IsValid() || !req.To.IsValid() {
		return board.NoMove, rejectMove(req, "square is off the board")
	}
	piece := g.pos.Board[req.From]
	if piece == board.NoPiece {
		return board.NoMove, rejectMove(req, "no piece on origin square")
	}
	if piece.Color() != g.pos.SideToMove {
		return board.NoMove, rejectMove(req, "piece does not belong to the side to move")
	}
	m, ok := g.pos.FindMove(req)
	if !ok {
		return board.NoMove, rejectMove(req, "not a legal move")
	}
	return m, nil
}

// LegalMoves returns the legal moves of the piece on from, in generation
// order. It is empty for empty squares, for pieces of the side not to move,
// for squares off the board, and once the game is over.
func (g *Game) LegalMoves(from board.Square) []board.Move {
	if g.status.GameOver() || !from.IsValid() {
		return nil
	}
	piece := g.pos.Board[from]
	if piece == board.NoPiece || piece.Color() != g.pos.SideToMove {
		return nil
	}
	return g.pos.LegalMovesFrom(from)
}

// AllLegalMoves returns every legal move of the side to move.
func (g *Game) AllLegalMoves() []board.Move {
	if g.status.GameOver() {
		return nil
	}
	return g.pos.LegalMoves()
}

// Status returns the current status.
func (g *Game) Status() Status {
	return g.status
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// FEN exports the current position.
func (g *Game) FEN() string {
	return g.pos.FEN()
}

// History returns a copy of the moves played since the game was created.
func (g *Game) History() []Record {
	out := make([]Record, len(g.history))
	copy(out, g.history)
	return out
}

// Clone returns an independent copy of the game sharing only the logger.
func (g *Game) Clone() *Game {
	c := *g
	c.pos = g.pos.Copy()
	c.history = g.History()
	return &c
}
