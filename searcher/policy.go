package searcher

import (
	"math"

	"pentago/game"

	"golang.org/x/exp/rand"
)

// Rewards for MCTS

const Win = 1.0
const Draw = 0.5
const Loss = 0.0

// ForcedLoss marks a node whose player to move wins on the spot, so the parent never picks it.
const ForcedLoss = float64(math.MinInt32)

// Credit decides which player a node's win score is kept for.
type Credit int

const (
	// MoverRelative credits the player who made the move into the node.
	MoverRelative Credit = iota
	// RootRelative credits the player to move at the search root on every node.
	RootRelative
)

func (c Credit) String() string {
	if c == RootRelative {
		return "root"
	}
	return "mover"
}

func ParseCredit(s string) (Credit, bool) {
	switch s {
	case "mover", "":
		return MoverRelative, true
	case "root":
		return RootRelative, true
	default:
		return MoverRelative, false
	}
}

// Policy picks rollout moves. It returns nil only when the state has no legal moves.
type Policy interface {
	Name() string
	Choose(state game.State, rng *rand.Rand) game.Move
}

func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "random", "":
		return Random(), true
	case "connectivity":
		return Connectivity(), true
	default:
		return nil, false
	}
}

type random struct{}

// Random picks uniformly among legal moves.
func Random() Policy {
	return random{}
}

func (random) Name() string {
	return "random"
}

func (random) Choose(state game.State, rng *rand.Rand) game.Move {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	return moves[rng.Intn(len(moves))]
}

type connectivity struct{}

// Connectivity prefers placements touching the most pieces of the player to move, ties broken
// uniformly. Games without a Grid or Placement moves fall back to uniform random.
func Connectivity() Policy {
	return connectivity{}
}

func (connectivity) Name() string {
	return "connectivity"
}

func (connectivity) Choose(state game.State, rng *rand.Rand) game.Move {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	grid, ok := state.(game.Grid)
	if !ok {
		return moves[rng.Intn(len(moves))]
	}

	player := state.Player()
	scores := map[[2]int]int{}
	best := make([]game.Move, 0, len(moves))
	bestScore := -1
	for _, move := range moves {
		placement, ok := move.(game.Placement)
		if !ok {
			return moves[rng.Intn(len(moves))]
		}
		row, col := placement.Cell()
		cell := [2]int{row, col}
		score, seen := scores[cell]
		if !seen {
			score = neighbors(grid, row, col, player)
			scores[cell] = score
		}
		if score > bestScore {
			bestScore = score
			best = best[:0]
		}
		if score == bestScore {
			best = append(best, move)
		}
	}
	return best[rng.Intn(len(best))]
}

func neighbors(grid game.Grid, row, col int, player game.Player) int {
	n := grid.Size()
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if (dr == 0 && dc == 0) || r < 0 || r >= n || c < 0 || c >= n {
				continue
			}
			if grid.PieceAt(r, c) == player {
				count++
			}
		}
	}
	return count
}
