// Package agent puts an engine behind the move selection contract: never search a finished
// game, never answer with an illegal move.
package agent

import (
	"context"
	"errors"
	"time"

	"pentago/book"
	"pentago/experiments/metrics"
	"pentago/game"
	"pentago/minimax"
	"pentago/searcher"
	"pentago/utils"

	"github.com/rs/zerolog/log"
)

type Agent interface {
	// ChooseMove blocks for at most budget, shortened by the context deadline if any
	ChooseMove(ctx context.Context, state game.State, budget time.Duration) (game.Move, error)
	// Metric describes the last search, empty unless the engine collects metrics
	Metric() metrics.SearchMetric
}

// Budget hands out the longer first-turn allowance once, then the per-turn one.
type Budget struct {
	First time.Duration
	Turn  time.Duration
	used  bool
}

func NewBudget(first, turn time.Duration) *Budget {
	return &Budget{First: first, Turn: turn}
}

func (b *Budget) Next() time.Duration {
	if !b.used {
		b.used = true
		return b.First
	}
	return b.Turn
}

// precondition rejects what no engine may be asked to search
func precondition(ctx context.Context, state game.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.IsTerminal() {
		return game.ErrTerminalState
	}
	return nil
}

// legal returns move if state allows it, otherwise the first legal move
func legal(state game.State, move game.Move, engine string) game.Move {
	moves := state.LegalMoves()
	if move != nil && utils.FindIndex(moves, move) != -1 {
		return move
	}
	log.Warn().Msgf("%s returned illegal move %v, playing %v instead", engine, move, moves[0])
	return moves[0]
}

type UCTAgent struct {
	mcts  *searcher.MCTS
	codec game.Codec
}

// NewUCTAgent needs codec only for opening books.
func NewUCTAgent(mcts *searcher.MCTS, codec game.Codec) *UCTAgent {
	return &UCTAgent{mcts: mcts, codec: codec}
}

func (a *UCTAgent) ChooseMove(ctx context.Context, state game.State, budget time.Duration) (game.Move, error) {
	if err := precondition(ctx, state); err != nil {
		return nil, err
	}
	move, err := a.mcts.SearchFor(state, utils.Remaining(ctx, budget))
	if err != nil {
		return nil, err
	}
	return legal(state, move, "uct"), nil
}

func (a *UCTAgent) Metric() metrics.SearchMetric {
	return a.mcts.Metric()
}

func (a *UCTAgent) Train(ctx context.Context, state game.State, budget time.Duration) error {
	if err := precondition(ctx, state); err != nil {
		return err
	}
	return a.mcts.Train(state, utils.Remaining(ctx, budget))
}

// LoadBook restores the tree stored under key. A missing or unreadable book is logged and the
// agent carries on with an empty tree; the result only reports whether a book was loaded.
func (a *UCTAgent) LoadBook(ctx context.Context, store book.Store, key string) bool {
	b, err := store.Load(ctx, key)
	if errors.Is(err, book.ErrNotFound) {
		log.Info().Msgf("no opening book %q, starting with an empty tree", key)
		return false
	}
	if err != nil {
		log.Error().Err(err).Msgf("failed to load opening book %q, starting with an empty tree", key)
		return false
	}
	if err := a.mcts.Restore(b, a.codec); err != nil {
		log.Error().Err(err).Msgf("failed to restore opening book %q, starting with an empty tree", key)
		return false
	}
	log.Info().Msgf("loaded opening book %q with %d nodes", key, len(b.Nodes))
	return true
}

func (a *UCTAgent) SaveBook(ctx context.Context, store book.Store, key string) error {
	b, err := a.mcts.Snapshot(a.codec)
	if err != nil {
		return err
	}
	return store.Save(ctx, key, b)
}

type AlphaBetaAgent struct {
	ab    *minimax.AlphaBeta
	depth int
}

func NewAlphaBetaAgent(ab *minimax.AlphaBeta, depth int) *AlphaBetaAgent {
	return &AlphaBetaAgent{ab: ab, depth: depth}
}

func (a *AlphaBetaAgent) ChooseMove(ctx context.Context, state game.State, budget time.Duration) (game.Move, error) {
	if err := precondition(ctx, state); err != nil {
		return nil, err
	}
	move, err := a.ab.Search(state, a.depth, utils.Remaining(ctx, budget))
	if err != nil {
		return nil, err
	}
	return legal(state, move, "alpha-beta"), nil
}

func (a *AlphaBetaAgent) Metric() metrics.SearchMetric {
	return a.ab.Metric()
}
