package board

import "testing"

func TestHashTransposition(t *testing.T) {
	start := NewPosition()
	pos := start
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		req, err := ParseMoveRequest(s)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := pos.FindMove(req)
		if !ok {
			t.Fatalf("%s not legal", s)
		}
		pos = pos.Play(m)
	}

	if pos.Hash() != start.Hash() {
		t.Error("knight shuffle should transpose back to the start hash")
	}
	if pos.HalfMoveClock != 4 {
		t.Errorf("halfmove clock = %d, want 4", pos.HalfMoveClock)
	}
}

func TestHashDistinguishesState(t *testing.T) {
	withEP, err := ParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	withoutEP, err := ParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatal(err)
	}
	noCastle, err := ParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w Kkq - 0 2")
	if err != nil {
		t.Fatal(err)
	}

	if withEP.Hash() == withoutEP.Hash() {
		t.Error("live en-passant file should change the hash")
	}
	if withoutEP.Hash() == noCastle.Hash() {
		t.Error("castling rights should change the hash")
	}

	other := withoutEP.Copy()
	other.SideToMove = Black
	if other.Hash() == withoutEP.Hash() {
		t.Error("side to move should change the hash")
	}
}
