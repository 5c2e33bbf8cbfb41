package engine

import (
	"context"
	"fmt"
	"time"

	"pentago/agent"
	"pentago/experiments/metrics"
	"pentago/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Local plays two in-process agents against each other.
type Local struct {
	State   game.State
	agents  map[game.Player]agent.Agent
	budgets map[game.Player]*agent.Budget
	// OnMove is called after every move, if set
	OnMove func(step int, player game.Player, move game.Move, state game.State)
}

func NewLocal(state game.State, white, black agent.Agent, first, turn time.Duration) *Local {
	if white == nil || black == nil {
		panic("need an agent for each player")
	}
	return &Local{
		State:  state,
		agents: map[game.Player]agent.Agent{game.White: white, game.Black: black},
		budgets: map[game.Player]*agent.Budget{
			game.White: agent.NewBudget(first, turn),
			game.Black: agent.NewBudget(first, turn),
		},
	}
}

// Run executes the entire game loop until a winner is found.
func (e *Local) Run(ctx context.Context) (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		ID:             uuid.NewString(),
		StartingPlayer: e.State.Player(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	log.Info().Msgf("game %s: %v is starting", gameMetric.ID, e.State.Player())

	step := 1
	for !e.State.IsTerminal() && step <= MaxMoves {
		player := e.State.Player()
		move, err := e.agents[player].ChooseMove(ctx, e.State, e.budgets[player].Next())
		if err != nil {
			return game.Nobody, gameMetric, moveMetrics, fmt.Errorf("%v failed at step %d: %w", player, step, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move.String(),
			SearchMetric: e.agents[player].Metric(),
		})

		e.State = e.State.Play(move)
		if e.OnMove != nil {
			e.OnMove(step, player, move, e.State)
		}
		log.Debug().Msgf("step %d: %v played %v", step, player, move)
		step++
	}

	gameMetric.Winner = e.State.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if e.State.IsTerminal() {
		log.Info().Msgf("game %s ended after %d moves, winner: %v", gameMetric.ID, gameMetric.TotalMoves, gameMetric.Winner)
	} else {
		log.Warn().Msgf("game %s stopped after %d moves without a winner", gameMetric.ID, MaxMoves)
	}
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}
