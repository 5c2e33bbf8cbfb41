package searcher

import (
	"math"

	"pentago/game"
)

const noParent = -1

// node lives in the tree arena. parent and children are arena indices; the parent link is
// only followed by backpropagation and never owns anything.
type node struct {
	state    game.State
	move     game.Move // nil at the root
	parent   int
	children []int
	visits   int
	winScore float64
}

func ucb1(winScore float64, visits int, parentVisits int, c float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	n := float64(visits)
	return winScore/n + c*math.Sqrt(math.Log(float64(parentVisits))/n)
}

func reward(winner game.Player, credited game.Player) float64 {
	switch winner {
	case game.Draw:
		return Draw
	case credited:
		return Win
	default:
		return Loss
	}
}
