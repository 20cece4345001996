package board

import "sort"

// Perft counts the leaf nodes of the legal move tree at the given depth.
// Promotions only ever produce a queen, so counts differ from standard
// reference values at depths where promotions occur.
func Perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		nodes += Perft(p.Play(m), depth-1)
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes int64
}

// Divide returns the perft count below each root move, sorted by move string.
func Divide(p *Position, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	var out []DivideEntry
	for _, m := range p.LegalMoves() {
		out = append(out, DivideEntry{Move: m, Nodes: Perft(p.Play(m), depth-1)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Move.String() < out[j].Move.String()
	})
	return out
}
