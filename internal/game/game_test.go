package game

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hailam/chessrules/internal/board"
)

func play(t *testing.T, g *Game, moves ...string) Status {
	t.Helper()
	var st Status
	for _, s := range moves {
		req, err := board.ParseMoveRequest(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		st, err = g.Apply(req)
		if err != nil {
			t.Fatalf("apply %s: %v", s, err)
		}
	}
	return st
}

func mustFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return g
}

func TestNewGame(t *testing.T) {
	g := New()

	if got := g.FEN(); got != board.StartFEN {
		t.Errorf("FEN = %s, want start position", got)
	}
	st := g.Status()
	if st.State != InProgress || st.SideToMove != board.White || st.InCheck || st.Winner != board.NoColor {
		t.Errorf("status = %+v", st)
	}
	if n := len(g.AllLegalMoves()); n != 20 {
		t.Errorf("legal moves = %d, want 20", n)
	}
	if n := len(g.LegalMoves(board.G1)); n != 2 {
		t.Errorf("g1 moves = %d, want 2", n)
	}
	if moves := g.LegalMoves(board.E7); moves != nil {
		t.Errorf("black pawn should have no moves for White's turn, got %v", moves)
	}
}

func TestFoolsMate(t *testing.T) {
	g := New()
	if st := play(t, g, "f2f3", "e7e5", "g2g4"); st.JustFinished {
		t.Error("game reported finished before the mating move")
	}
	st := play(t, g, "d8h4")

	if st.State != Checkmate {
		t.Fatalf("state = %v, want checkmate", st.State)
	}
	if !st.JustFinished {
		t.Error("the mating move should report JustFinished")
	}
	if g.Status().JustFinished {
		t.Error("Status() should only describe the position, not the last move")
	}
	if st.SideToMove != board.White || st.Winner != board.Black || !st.InCheck {
		t.Errorf("status = %+v, want White to move, Black winning", st)
	}
	if st.Result() != "0-1" {
		t.Errorf("result = %s", st.Result())
	}
	if h := g.History(); len(h) != 4 || h[3].SAN != "Qh4#" {
		t.Errorf("history = %+v", h)
	}

	before := g.FEN()
	after, err := g.Apply(board.MoveRequest{From: board.A2, To: board.A3})
	if !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate: err = %v, want ErrGameOver", err)
	}
	if after.JustFinished {
		t.Error("a rejected move cannot finish the game")
	}
	if g.FEN() != before {
		t.Error("rejected move mutated the game")
	}
	if moves := g.LegalMoves(board.A2); moves != nil {
		t.Errorf("moves after mate = %v", moves)
	}
}

func TestFoolsMateForWhite(t *testing.T) {
	g := New()
	st := play(t, g, "e2e4", "g7g5", "d2d4", "f7f6", "d1h5")

	if st.State != Checkmate || st.SideToMove != board.Black || st.Winner != board.White || !st.JustFinished {
		t.Errorf("status = %+v, want Black mated", st)
	}
	if st.Result() != "1-0" {
		t.Errorf("result = %s", st.Result())
	}
}

func TestImportedStalemate(t *testing.T) {
	g := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	st := g.Status()
	if st.State != Stalemate || st.InCheck || st.Winner != board.NoColor || st.JustFinished {
		t.Errorf("status = %+v, want stalemate without winner", st)
	}
	if st.Result() != "1/2-1/2" {
		t.Errorf("result = %s", st.Result())
	}
	if _, err := g.Apply(board.MoveRequest{From: board.H8, To: board.G8}); !errors.Is(err, ErrGameOver) {
		t.Errorf("err = %v, want ErrGameOver", err)
	}
}

func TestCheckStatus(t *testing.T) {
	g := New()
	st := play(t, g, "e2e4", "f7f6", "d1h5")

	if st.State != Check || !st.InCheck || st.SideToMove != board.Black {
		t.Errorf("status = %+v, want Black in check", st)
	}
	if st.GameOver() {
		t.Error("check is not terminal")
	}

	st = play(t, g, "g7g6")
	if st.State != InProgress || st.InCheck {
		t.Errorf("status after block = %+v", st)
	}
}

func TestInvalidMovesLeaveGameUntouched(t *testing.T) {
	tests := []struct {
		name string
		req  board.MoveRequest
	}{
		{"empty origin", board.MoveRequest{From: board.E4, To: board.E5}},
		{"opponent piece", board.MoveRequest{From: board.E7, To: board.E5}},
		{"illegal destination", board.MoveRequest{From: board.E2, To: board.E5}},
		{"own piece on destination", board.MoveRequest{From: board.A1, To: board.A2}},
		{"off the board", board.MoveRequest{From: board.NoSquare, To: board.E4}},
		{"destination off the board", board.MoveRequest{From: board.E2, To: board.Square(99)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			st, err := g.Apply(tc.req)
			if !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("err = %v, want ErrInvalidMove", err)
			}
			var merr *MoveError
			if !errors.As(err, &merr) || merr.Request != tc.req {
				t.Errorf("err = %#v, want *MoveError for %v", err, tc.req)
			}
			if st != g.Status() {
				t.Errorf("returned status %+v differs from current %+v", st, g.Status())
			}
			if g.FEN() != board.StartFEN || len(g.History()) != 0 {
				t.Error("rejected move mutated the game")
			}
		})
	}
}

func TestEnPassantWindow(t *testing.T) {
	g := New()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	var ep board.Move
	for _, m := range g.LegalMoves(board.E5) {
		if m.To == board.D6 {
			ep = m
		}
	}
	if !ep.IsEnPassant() || !ep.IsCapture() {
		t.Fatalf("e5d6 should be an en passant capture, moves = %v", g.LegalMoves(board.E5))
	}

	taken := g.Clone()
	play(t, taken, "e5d6")
	pos := taken.Position()
	if pos.PieceAt(board.D5) != board.NoPiece || pos.PieceAt(board.D6) != board.WhitePawn {
		t.Errorf("en passant did not remove the captured pawn:\n%v", pos)
	}
	if pos.HalfMoveClock != 0 {
		t.Errorf("halfmove clock = %d after capture", pos.HalfMoveClock)
	}

	// The window closes once the reply ply has passed.
	play(t, g, "a2a3", "a6a5")
	_, err := g.Apply(board.MoveRequest{From: board.E5, To: board.D6})
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("late en passant: err = %v, want ErrInvalidMove", err)
	}
}

func TestEnPassantExport(t *testing.T) {
	g := New()
	play(t, g, "e2e4")
	if got, want := g.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
	play(t, g, "g8f6")
	if got, want := g.FEN(), "rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 2"; got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
}

func TestCastlingRightsRevoked(t *testing.T) {
	g := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	play(t, g, "h1h2")
	if got := g.Position().CastlingRights.String(); got != "Qkq" {
		t.Errorf("after rook move rights = %s, want Qkq", got)
	}

	st := play(t, g, "a8a1")
	if got := g.Position().CastlingRights.String(); got != "k" {
		t.Errorf("after rook capture rights = %s, want k", got)
	}
	if st.State != Check {
		t.Errorf("state = %v, want check", st.State)
	}

	play(t, g, "e1e2", "e8g8")
	if got, want := g.FEN(), "5rk1/8/8/8/8/8/4K2R/r7 w - - 2 3"; got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
	if h := g.History(); h[len(h)-1].SAN != "O-O" {
		t.Errorf("last SAN = %s, want O-O", h[len(h)-1].SAN)
	}
}

func TestPromotionIsAlwaysQueen(t *testing.T) {
	g := mustFEN(t, "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	push := g.Clone()

	st := play(t, push, "a7a8n")
	if got := push.Position().PieceAt(board.A8); got != board.WhiteQueen {
		t.Errorf("promoted to %v, want Q", got)
	}
	if st.State != InProgress {
		t.Errorf("state = %v, the knight on b8 shields the king", st.State)
	}

	st = play(t, g, "a7b8")
	if got := g.Position().PieceAt(board.B8); got != board.WhiteQueen {
		t.Errorf("capture promoted to %v, want Q", got)
	}
	if st.State != Check {
		t.Errorf("state = %v, want check from the new queen", st.State)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	g := New()
	play(t, g, "e2e4", "c7c5", "g1f3", "d7d6", "f1b5", "c8d7", "e1g1")

	clone, err := FromFEN(g.FEN())
	if err != nil {
		t.Fatal(err)
	}
	if clone.FEN() != g.FEN() {
		t.Errorf("round trip: %s != %s", clone.FEN(), g.FEN())
	}
	if clone.Status() != g.Status() {
		t.Errorf("status %+v != %+v", clone.Status(), g.Status())
	}

	play(t, g, "d7b5")
	play(t, clone, "d7b5")
	if clone.FEN() != g.FEN() {
		t.Errorf("diverged after the same move: %s != %s", clone.FEN(), g.FEN())
	}
}

func TestFromFENRejectsBadInput(t *testing.T) {
	_, err := FromFEN("8/8/8/8/8/8/8/8 w - - 0 1")
	if !errors.Is(err, board.ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestPositionIsACopy(t *testing.T) {
	g := New()
	pos := g.Position()
	pos.Board[board.E2] = board.NoPiece
	pos.SideToMove = board.Black

	if g.FEN() != board.StartFEN {
		t.Error("mutating the returned position changed the game")
	}
}

func TestMovesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	g := New(WithLogger(zap.New(core)))

	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	applied := logs.FilterMessage("move applied").All()
	if len(applied) != 4 {
		t.Fatalf("logged %d moves, want 4", len(applied))
	}
	if got := applied[0].ContextMap()["san"]; got != "f3" {
		t.Errorf("first san = %v, want f3", got)
	}

	changes := logs.FilterMessage("status changed").All()
	if len(changes) != 1 {
		t.Fatalf("logged %d status changes, want 1", len(changes))
	}
	if got := changes[0].ContextMap()["to"]; got != "checkmate" {
		t.Errorf("status change to %v, want checkmate", got)
	}
}
