package board

import (
	"sort"
	"testing"

	"github.com/notnil/chess"
)

// referenceFixtures are positions with castling, en passant, pins and checks.
var referenceFixtures = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	"4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1",
}

// TestLegalMovesMatchReference compares the (from, to) pairs we generate with
// an independent move generator. Under-promotions collapse into one pair.
func TestLegalMovesMatchReference(t *testing.T) {
	for _, fen := range referenceFixtures {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatal(err)
			}

			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("reference FEN: %v", err)
			}
			ref := chess.NewGame(opt)

			want := map[string]bool{}
			for _, m := range ref.ValidMoves() {
				want[m.S1().String()+m.S2().String()] = true
			}

			got := map[string]bool{}
			for _, m := range pos.LegalMoves() {
				got[m.From.String()+m.To.String()] = true
			}

			if missing, extra := diff(want, got), diff(got, want); len(missing) > 0 || len(extra) > 0 {
				t.Errorf("missing %v, extra %v", missing, extra)
			}
		})
	}
}

func diff(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func TestMoveMetadata(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1")
	if err != nil {
		t.Fatal(err)
	}

	find := func(from, to Square) Move {
		t.Helper()
		m, ok := pos.FindMove(MoveRequest{From: from, To: to})
		if !ok {
			t.Fatalf("%v%v not legal", from, to)
		}
		return m
	}

	if m := find(E5, D6); !m.IsEnPassant() || !m.IsCapture() {
		t.Errorf("e5d6 flags = %b, want en passant capture", m.Flags)
	}
	if m := find(E1, G1); !m.IsCastling() || m.IsCapture() {
		t.Errorf("e1g1 flags = %b, want castling", m.Flags)
	}
	if m := find(E1, C1); !m.IsCastling() {
		t.Errorf("e1c1 flags = %b, want castling", m.Flags)
	}
	if m := find(A1, A8); !m.IsCapture() || m.IsCastling() {
		t.Errorf("a1a8 flags = %b, want capture", m.Flags)
	}
	if m := find(E5, E6); m.Flags != 0 {
		t.Errorf("e5e6 flags = %b, want quiet", m.Flags)
	}
}

func TestPromotionAlwaysQueen(t *testing.T) {
	pos, err := ParseFEN("1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	moves := pos.LegalMovesFrom(A7)
	if len(moves) != 2 {
		t.Fatalf("a7 moves = %v, want push and capture", moves)
	}
	for _, m := range moves {
		if !m.IsPromotion() {
			t.Errorf("%v should promote", m)
		}
		after := pos.Board.WithMove(m)
		if after[m.To] != WhiteQueen {
			t.Errorf("%v produced %v, want Q", m, after[m.To])
		}
	}
	if got := moves[0].String(); got != "a7a8q" && got != "a7b8q" {
		t.Errorf("promotion string = %s", got)
	}
}

func TestCastlingBlockedByAttack(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		to   Square
		want bool
	}{
		{"kingside free", "4k3/8/8/8/8/8/8/4K2R w K - 0 1", G1, true},
		{"transit attacked", "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1", G1, false},
		{"destination attacked", "4k3/8/8/8/8/8/6r1/4K2R w K - 0 1", G1, false},
		{"king in check", "4k3/8/8/8/8/8/4r3/4K2R w K - 0 1", G1, false},
		{"path blocked", "4k3/8/8/8/8/8/8/4KN1R w K - 0 1", G1, false},
		{"no right", "4k3/8/8/8/8/8/8/4K2R w - - 0 1", G1, false},
		{"queenside b-file attacked only", "4k3/8/8/8/8/8/1r6/R3K3 w Q - 0 1", C1, true},
		{"queenside b1 occupied", "4k3/8/8/8/8/8/8/RN2K3 w Q - 0 1", C1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			m, ok := pos.FindMove(MoveRequest{From: E1, To: tc.to})
			if ok != tc.want {
				t.Fatalf("castle to %v legal = %v, want %v", tc.to, ok, tc.want)
			}
			if ok && !m.IsCastling() {
				t.Errorf("move %v not flagged as castling", m)
			}
		})
	}
}

func TestAttackDetection(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/3p4/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		sq   Square
		by   Color
		want bool
	}{
		{C4, Black, true},  // pawn diagonal
		{E4, Black, true},  // pawn diagonal
		{D4, Black, false}, // pawn push square is not attacked
		{A8, White, true},  // rook file
		{H1, White, false}, // rook ray blocked by own king
		{D7, Black, true},  // king
		{D2, White, true},  // king
	}

	for _, tc := range tests {
		if got := IsSquareAttacked(&pos.Board, tc.sq, tc.by); got != tc.want {
			t.Errorf("IsSquareAttacked(%v, %v) = %v, want %v", tc.sq, tc.by, got, tc.want)
		}
	}
}

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{StartFEN, "g1f3", "Nf3"},
		{StartFEN, "e2e4", "e4"},
		{"4k3/8/8/8/8/8/8/4K2R w K - 0 1", "e1g1", "O-O"},
		{"r3k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Rxa8+"},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8", "a8=Q+"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatal(err)
		}
		req, err := ParseMoveRequest(tc.move)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := pos.FindMove(req)
		if !ok {
			t.Fatalf("%s not legal in %s", tc.move, tc.fen)
		}
		if got := m.SAN(pos); got != tc.want {
			t.Errorf("SAN(%s) = %s, want %s", tc.move, got, tc.want)
		}
		parsed, err := ParseSAN(tc.want, pos)
		if err != nil || parsed != m {
			t.Errorf("ParseSAN(%s) = %v, %v; want %v", tc.want, parsed, err, m)
		}
	}
}

func TestParseMoveRequest(t *testing.T) {
	req, err := ParseMoveRequest(" E7E8q ")
	if err != nil {
		t.Fatal(err)
	}
	if req.From != E7 || req.To != E8 || req.Promotion != Queen {
		t.Errorf("got %+v", req)
	}

	for _, bad := range []string{"", "e2", "e2e9", "e7e8k", "e2e4e5"} {
		if _, err := ParseMoveRequest(bad); err == nil {
			t.Errorf("ParseMoveRequest(%q) succeeded", bad)
		}
	}
}
