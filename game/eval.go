package game

import "math"

// Score is a heuristic value where positive favors White, the maximizing player.
type Score int64

// MaxScore is symmetric around zero so negating a saturated score never overflows.
const MaxScore Score = math.MaxInt32

// Evaluate estimates a state for the player to move. alpha and beta are the bounds of the
// caller at the point of evaluation; an evaluator may use them as its baseline.
type Evaluate func(s State, player Player, alpha, beta Score) Score

// line directions: row, column, diagonal and anti-diagonal
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// EvaluateStreaks scores runs of same-colored pieces on a Grid. The score starts from the
// caller's bound (alpha for White, beta for Black) and each adjacent pair of pieces extending a
// run adds 2^streak for White or subtracts it for Black. A decided game saturates to MaxScore
// in the winner's favor. The result is negated when player is Black.
func EvaluateStreaks(s State, player Player, alpha, beta Score) Score {
	score := beta
	if player == White {
		score = alpha
	}

	switch s.Winner() {
	case White:
		score = MaxScore
	case Black:
		score = -MaxScore
	case Draw:
		// Keep the baseline
	default:
		if grid, ok := s.(Grid); ok {
			score += streaks(grid)
		}
	}

	if player == Black {
		score = -score
	}
	return score
}

// streaks sums the pair contributions over every line of length two or more
func streaks(grid Grid) Score {
	n := grid.Size()
	total := Score(0)
	for _, d := range directions {
		for _, start := range lineStarts(n, d) {
			total += scanLine(grid, start[0], start[1], d[0], d[1])
		}
	}
	return total
}

func lineStarts(n int, d [2]int) [][2]int {
	starts := [][2]int{}
	switch d {
	case [2]int{0, 1}:
		for row := 0; row < n; row++ {
			starts = append(starts, [2]int{row, 0})
		}
	case [2]int{1, 0}:
		for col := 0; col < n; col++ {
			starts = append(starts, [2]int{0, col})
		}
	case [2]int{1, 1}:
		for col := n - 2; col >= 0; col-- {
			starts = append(starts, [2]int{0, col})
		}
		for row := 1; row <= n-2; row++ {
			starts = append(starts, [2]int{row, 0})
		}
	case [2]int{1, -1}:
		for col := 1; col < n; col++ {
			starts = append(starts, [2]int{0, col})
		}
		for row := 1; row <= n-2; row++ {
			starts = append(starts, [2]int{row, n - 1})
		}
	}
	return starts
}

func scanLine(grid Grid, row, col, dr, dc int) Score {
	n := grid.Size()
	total := Score(0)
	streak := 0
	for {
		nr, nc := row+dr, col+dc
		if nr < 0 || nr >= n || nc < 0 || nc >= n {
			return total
		}
		piece, neighbor := grid.PieceAt(row, col), grid.PieceAt(nr, nc)
		switch {
		case piece == White && neighbor == White:
			total += Score(1) << streak
			streak++
		case piece == Black && neighbor == Black:
			total -= Score(1) << streak
			streak++
		default:
			streak = 0
		}
		row, col = nr, nc
	}
}
