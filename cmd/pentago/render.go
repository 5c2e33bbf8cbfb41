package main

import (
	"fmt"
	"strings"

	"pentago/game"

	"github.com/logrusorgru/aurora"
)

// render draws a grid board with colored pieces; other states fall back to their String.
func render(state game.State, colors bool) string {
	grid, ok := state.(game.Grid)
	if !ok {
		return fmt.Sprint(state)
	}
	au := aurora.NewAurora(colors)

	var b strings.Builder
	n := grid.Size()
	for r := 0; r < n; r++ {
		if n == 6 && r == 3 {
			b.WriteString(au.Gray(12, "------+------").String())
			b.WriteByte('\n')
		}
		for c := 0; c < n; c++ {
			if n == 6 && c == 3 {
				b.WriteString(au.Gray(12, "| ").String())
			}
			switch grid.PieceAt(r, c) {
			case game.White:
				b.WriteString(au.Bold(au.BrightWhite("w")).String())
			case game.Black:
				b.WriteString(au.Red("b").String())
			default:
				b.WriteString(au.Gray(8, ".").String())
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func outcome(winner game.Player) string {
	switch winner {
	case game.Draw:
		return "draw"
	case game.Nobody:
		return "undecided"
	default:
		return winner.String() + " wins"
	}
}
