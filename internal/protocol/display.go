package protocol

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hailam/chessrules/internal/board"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// render draws the board from White's side, rank 8 first.
func render(w io.Writer, pos *board.Position, colored, unicode bool) {
	light := color.New(color.BgHiWhite, color.FgBlack)
	dark := color.New(color.BgGreen, color.FgBlack)
	light.EnableColor()
	dark.EnableColor()

	var sb strings.Builder
	for rank := 0; rank < 8; rank++ {
		fmt.Fprintf(&sb, "%c ", '8'-rank)
		for file := 0; file < 8; file++ {
			piece := pos.Board.Get(rank, file)
			glyph := "."
			switch {
			case piece == board.NoPiece:
			case unicode:
				glyph = piece.Symbol()
			default:
				glyph = piece.String()
			}
			cell := " " + glyph + " "

			if !colored {
				sb.WriteString(cell)
				continue
			}
			shade := light
			if (rank+file)%2 == 1 {
				shade = dark
			}
			sb.WriteString(shade.Sprint(cell))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	io.WriteString(w, sb.String())
}
