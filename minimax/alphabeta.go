// Package minimax is a depth and time bounded alpha-beta search over game.State.
package minimax

import (
	"fmt"
	"time"

	"pentago/experiments/metrics"
	"pentago/game"
	"pentago/meta"

	"github.com/rs/zerolog/log"
)

type Option func(ab *AlphaBeta)

// AlphaBeta searches with a fixed maximizing player, whoever is to move at the root.
// It is not safe for concurrent use.
type AlphaBeta struct {
	depth     int
	duration  time.Duration
	maximizer game.Player
	evaluate  game.Evaluate
	deepening bool
	metrics   metrics.Collector
	last      metrics.SearchMetric

	deadline time.Time
	timedOut bool
}

func WithDepth(depth int) Option {
	return func(ab *AlphaBeta) {
		ab.depth = depth
	}
}

func WithDuration(duration time.Duration) Option {
	return func(ab *AlphaBeta) {
		ab.duration = duration
	}
}

func WithMaximizer(player game.Player) Option {
	return func(ab *AlphaBeta) {
		ab.maximizer = player
	}
}

func WithEvaluator(evaluate game.Evaluate) Option {
	return func(ab *AlphaBeta) {
		ab.evaluate = evaluate
	}
}

// WithIterativeDeepening searches depth 1, 2, ... up to the limit and keeps the deepest
// completed answer.
func WithIterativeDeepening(enabled bool) Option {
	return func(ab *AlphaBeta) {
		ab.deepening = enabled
	}
}

func WithMetrics() Option {
	return func(ab *AlphaBeta) {
		ab.metrics = metrics.NewCollector()
	}
}

func New(options ...Option) *AlphaBeta {
	ab := &AlphaBeta{ // Default values
		depth:     meta.DEPTH,
		duration:  meta.TURN_BUDGET,
		maximizer: game.White,
		evaluate:  game.EvaluateStreaks,
		deepening: true,
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(ab)
	}

	if ab.depth < 0 {
		panic("depth must not be negative")
	}
	if ab.duration < 0 {
		panic("duration must not be negative")
	}
	if ab.evaluate == nil {
		panic("evaluator must be set")
	}
	if ab.maximizer != game.White && ab.maximizer != game.Black {
		panic(fmt.Sprintf("maximizer must be a seat, got %v", ab.maximizer))
	}
	return ab
}

// Depth is the configured depth limit.
func (ab *AlphaBeta) Depth() int {
	return ab.depth
}

// Metric returns the statistics of the last search when built WithMetrics.
func (ab *AlphaBeta) Metric() metrics.SearchMetric {
	return ab.last
}

// FindNextMove searches with the configured depth and duration.
func (ab *AlphaBeta) FindNextMove(state game.State) (game.Move, error) {
	return ab.Search(state, ab.depth, ab.duration)
}

// Search returns the best move found within depth plies before budget elapses. If the budget
// runs out first, the answer degrades to the best move seen so far, which starts as the first
// legal move.
func (ab *AlphaBeta) Search(state game.State, depth int, budget time.Duration) (game.Move, error) {
	if state.IsTerminal() {
		return nil, game.ErrTerminalState
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, fmt.Errorf("alpha-beta root: %w", game.ErrNoLegalMoves)
	}

	ab.metrics.Start("alphabeta")
	ab.deadline = time.Now().Add(budget)
	ab.timedOut = false

	var best game.Move
	completed := 0
	first := depth
	if ab.deepening && depth > 1 {
		first = 1
	}
	for d := first; d <= depth; d++ {
		score, move := ab.prune(state, d, state.Player(), -game.MaxScore, game.MaxScore)
		if ab.timedOut {
			if best == nil {
				best = move
			}
			log.Debug().Msgf("alpha-beta ran out of time at depth %d", d)
			break
		}
		best = move
		completed = d
		log.Debug().Msgf("alpha-beta depth %d: %v scores %d", d, move, score)
	}
	if best == nil {
		best = moves[0]
	}

	ab.metrics.SetDepth(completed)
	ab.metrics.SetTimedOut(ab.timedOut)
	ab.last = ab.metrics.Complete()
	return best, nil
}

// prune scores state for current and returns the move that reached the score. On a cutoff or
// when time runs out, it stops scanning siblings and returns the score of the last child.
func (ab *AlphaBeta) prune(state game.State, depth int, current game.Player, alpha, beta game.Score) (game.Score, game.Move) {
	moves := state.LegalMoves()
	var best game.Move
	if len(moves) > 0 {
		best = moves[0]
	}

	if depth <= 0 || len(moves) == 0 {
		return ab.evaluate(state, current, alpha, beta), best
	}

	for _, move := range moves {
		next := state.Play(move)
		ab.metrics.AddEpisode()

		score, _ := ab.prune(next, depth-1, current.Opponent(), alpha, beta)
		if current == ab.maximizer {
			if score > alpha {
				alpha = score
				best = move
			}
		} else if score < beta {
			beta = score
			best = move
		}

		if ab.expired() || alpha >= beta {
			return score, best
		}
	}

	if current == ab.maximizer {
		return alpha, best
	}
	return beta, best
}

func (ab *AlphaBeta) expired() bool {
	if !time.Now().Before(ab.deadline) {
		ab.timedOut = true
	}
	return ab.timedOut
}
