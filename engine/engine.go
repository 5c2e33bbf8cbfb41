// Package engine referees games between agents.
package engine

import (
	"context"

	"pentago/experiments/metrics"
	"pentago/game"
)

// MaxMoves stops a game that runs away, which no finite board game reaching it should.
const MaxMoves = 10000

type Engine interface {
	// Run plays until the game is decided, MaxMoves is reached or an agent fails
	Run(ctx context.Context) (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
