package board

// Zobrist keys for position hashing.
// Generated from a fixed seed so hashes are stable across runs and processes.
var (
	zobristPiece      [13][64]uint64 // indexed by Piece; NoPiece row stays zero
	zobristEnPassant  [8]uint64      // one per file
	zobristCastling   [16]uint64     // all castling combinations
	zobristSideToMove uint64         // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for piece := WhitePawn; piece <= BlackKing; piece++ {
		for sq := A8; sq < NoSquare; sq++ {
			zobristPiece[piece][sq] = rng.next()
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist hash of the position. Two positions hash equal when
// they agree on placement, side to move, castling rights and the live
// en-passant file; clocks are ignored.
func (p *Position) Hash() uint64 {
	var h uint64
	for sq, piece := range p.Board {
		h ^= zobristPiece[piece][sq]
	}
	if ep := p.EnPassantTarget(); ep != NoSquare {
		h ^= zobristEnPassant[ep.File()]
	}
	h ^= zobristCastling[p.CastlingRights]
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
