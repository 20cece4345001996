// Package protocol implements a line-oriented text protocol for driving a
// session, in the style of UCI.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

// ErrUnknownCommand is reported for unrecognized input lines.
var ErrUnknownCommand = errors.New("unknown command")

// Color modes for the board display.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Handler executes protocol commands against a running session.
type Handler struct {
	session *session.Session
	store   *storage.Storage
	logger  *zap.Logger

	startFEN  string
	colorMode string
	unicode   bool
	maxPerft  int
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithStorage enables the stats command.
func WithStorage(st *storage.Storage) Option {
	return func(h *Handler) { h.store = st }
}

// WithStartFEN sets the position newgame and "position startpos" load.
func WithStartFEN(fen string) Option {
	return func(h *Handler) {
		if fen != "" {
			h.startFEN = fen
		}
	}
}

// WithDisplay sets the board display color mode and glyph style.
func WithDisplay(colorMode string, unicode bool) Option {
	return func(h *Handler) {
		h.colorMode = colorMode
		h.unicode = unicode
	}
}

func WithMaxPerft(depth int) Option {
	return func(h *Handler) {
		if depth > 0 {
			h.maxPerft = depth
		}
	}
}

// New creates a handler for s. The caller runs s.
func New(s *session.Session, opts ...Option) *Handler {
	h := &Handler{
		session:   s,
		logger:    zap.NewNop(),
		startFEN:  board.StartFEN,
		colorMode: ColorAuto,
		unicode:   true,
		maxPerft:  5,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run reads commands from r until quit, end of input or ctx is done.
// Command errors are reported on w and do not stop the loop.
func (h *Handler) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := h.Execute(ctx, line, w)
		if err != nil {
			h.logger.Debug("command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintf(w, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line. It reports whether the line asked to
// quit.
func (h *Handler) Execute(ctx context.Context, line string, w io.Writer) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "newgame":
		return false, h.handleNewGame(ctx, w)
	case "position":
		return false, h.handlePosition(ctx, args, w)
	case "moves":
		return false, h.handleMoves(args, w)
	case "move":
		return false, h.handleMove(ctx, args, w)
	case "fen":
		fmt.Fprintln(w, h.session.Snapshot().FEN)
	case "status":
		h.handleStatus(w)
	case "history":
		h.handleHistory(w)
	case "d":
		return false, h.handleDisplay(w)
	case "perft":
		return false, h.handlePerft(args, w)
	case "stats":
		return false, h.handleStats(w)
	case "quit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return false, nil
}

// handleNewGame loads a fresh game from the configured start position.
func (h *Handler) handleNewGame(ctx context.Context, w io.Writer) error {
	g, err := game.FromFEN(h.startFEN, game.WithLogger(h.logger))
	if err != nil {
		return err
	}
	if _, err := h.session.Load(ctx, g); err != nil {
		return err
	}
	fmt.Fprintln(w, "ok")
	return nil
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The session is left untouched unless the whole command is valid.
func (h *Handler) handlePosition(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("position: expected startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		if movesAt != 1 {
			return fmt.Errorf("position: unexpected %q after startpos", args[1])
		}
		fen = h.startFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		return fmt.Errorf("position: expected startpos or fen, got %q", args[0])
	}

	g, err := game.FromFEN(fen, game.WithLogger(h.logger))
	if err != nil {
		return err
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			req, err := board.ParseMoveRequest(s)
			if err != nil {
				return err
			}
			if _, err := g.Apply(req); err != nil {
				return err
			}
		}
	}

	if _, err := h.session.Load(ctx, g); err != nil {
		return err
	}
	fmt.Fprintln(w, "ok")
	return nil
}

// handleMoves lists the legal moves from one square, or all of them.
func (h *Handler) handleMoves(args []string, w io.Writer) error {
	snap := h.session.Snapshot()

	from := board.NoSquare
	if len(args) > 0 {
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			return err
		}
		from = sq
	}

	var out []string
	for _, m := range snap.Legal {
		if from == board.NoSquare || m.From == from {
			out = append(out, m.String())
		}
	}
	if len(out) == 0 {
		fmt.Fprintln(w, "(none)")
		return nil
	}
	fmt.Fprintln(w, strings.Join(out, " "))
	return nil
}

// handleMove submits one move in coordinate notation.
func (h *Handler) handleMove(ctx context.Context, args []string, w io.Writer) error {
	if len(args) != 1 {
		return errors.New("move: expected one move, e.g. e2e4")
	}
	req, err := board.ParseMoveRequest(args[0])
	if err != nil {
		return err
	}

	st, err := h.session.Submit(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "ok %s %s\n", h.session.Snapshot().LastMove, st.State)
	if st.GameOver() {
		fmt.Fprintf(w, "result %s\n", st.Result())
	}
	return nil
}

func (h *Handler) handleStatus(w io.Writer) {
	st := h.session.Snapshot().Status
	winner := "-"
	if st.Winner != board.NoColor {
		winner = st.Winner.String()
	}
	fmt.Fprintf(w, "state %s side %s check %t winner %s\n", st.State, st.SideToMove, st.InCheck, winner)
}

func (h *Handler) handleHistory(w io.Writer) {
	history := h.session.Snapshot().History
	if len(history) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	fmt.Fprintln(w, strings.Join(history, " "))
}

func (h *Handler) handleDisplay(w io.Writer) error {
	pos, err := board.ParseFEN(h.session.Snapshot().FEN)
	if err != nil {
		return err
	}
	render(w, pos, h.colored(w), h.unicode)
	fmt.Fprintf(w, "Fen: %s\n", pos.FEN())
	fmt.Fprintf(w, "Key: %016X\n", pos.Hash())
	return nil
}

// colored resolves the color mode for w.
func (h *Handler) colored(w io.Writer) bool {
	switch h.colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// handlePerft runs a divide to the given depth.
func (h *Handler) handlePerft(args []string, w io.Writer) error {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("perft: bad depth %q", args[0])
		}
		depth = d
	}
	if depth < 1 || depth > h.maxPerft {
		return fmt.Errorf("perft: depth must be between 1 and %d", h.maxPerft)
	}

	pos, err := board.ParseFEN(h.session.Snapshot().FEN)
	if err != nil {
		return err
	}

	start := time.Now()
	var nodes int64
	for _, e := range board.Divide(pos, depth) {
		fmt.Fprintf(w, "%s: %d\n", e.Move, e.Nodes)
		nodes += e.Nodes
	}
	elapsed := time.Since(start)

	fmt.Fprintf(w, "Nodes: %d\n", nodes)
	h.logger.Debug("perft", zap.Int("depth", depth), zap.Int64("nodes", nodes), zap.Duration("elapsed", elapsed))
	return nil
}

func (h *Handler) handleStats(w io.Writer) error {
	if h.store == nil {
		return errors.New("stats: no storage configured")
	}
	stats, err := h.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "games %d white %d black %d draws %d avg_plies %.1f longest %d\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws,
		stats.AveragePlies(), stats.LongestGame)
	return nil
}
