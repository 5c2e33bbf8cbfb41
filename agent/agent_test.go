package agent

import (
	"context"
	"testing"
	"time"

	"pentago/book"
	"pentago/game"
	"pentago/game/pentago"
	"pentago/game/tictactoe"
	"pentago/minimax"
	"pentago/searcher"

	"github.com/stretchr/testify/require"
)

func TestBudget(t *testing.T) {
	t.Run("first turn gets the long budget once", func(t *testing.T) {
		b := NewBudget(10*time.Second, 1950*time.Millisecond)

		require.Equal(t, 10*time.Second, b.Next())
		require.Equal(t, 1950*time.Millisecond, b.Next())
		require.Equal(t, 1950*time.Millisecond, b.Next())
	})
}

func TestTerminalState(t *testing.T) {
	state, err := tictactoe.Parse("xxx oo. ...", game.Black)
	require.NoError(t, err)

	t.Run("uct agent never searches", func(t *testing.T) {
		mcts := searcher.NewMCTS(searcher.WithMetrics())
		a := NewUCTAgent(mcts, tictactoe.Codec{})

		_, err := a.ChooseMove(context.Background(), state, time.Second)

		require.ErrorIs(t, err, game.ErrTerminalState)
		require.Nil(t, mcts.Root(), "Engine should not have been invoked")
		require.Empty(t, a.Metric().Engine)
	})

	t.Run("alpha-beta agent never searches", func(t *testing.T) {
		a := NewAlphaBetaAgent(minimax.New(minimax.WithMetrics()), 2)

		_, err := a.ChooseMove(context.Background(), state, time.Second)

		require.ErrorIs(t, err, game.ErrTerminalState)
		require.Empty(t, a.Metric().Engine, "Engine should not have been invoked")
	})
}

func TestLegality(t *testing.T) {
	t.Run("agents answer with legal moves", func(t *testing.T) {
		agents := map[string]Agent{
			"uct":        NewUCTAgent(searcher.NewMCTS(searcher.WithIterations(200), searcher.WithSeed(1)), tictactoe.Codec{}),
			"alpha-beta": NewAlphaBetaAgent(minimax.New(), 3),
		}
		state, err := tictactoe.Parse("x.. .o. ...", game.White)
		require.NoError(t, err)

		for name, a := range agents {
			move, err := a.ChooseMove(context.Background(), state, time.Second)

			require.NoError(t, err, name)
			require.Contains(t, state.LegalMoves(), move, "%s should answer with a legal move", name)
		}
	})

	t.Run("illegal engine answer is replaced", func(t *testing.T) {
		state := tictactoe.New()

		got := legal(state, tictactoe.Move{Row: 5, Col: 5}, "test")

		require.Equal(t, state.LegalMoves()[0], got, "First legal move should be played instead")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewAlphaBetaAgent(minimax.New(), 2).ChooseMove(ctx, pentago.New(), time.Second)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestOpeningBook(t *testing.T) {
	ctx := context.Background()

	t.Run("saving and loading", func(t *testing.T) {
		store, err := book.NewFileStore(t.TempDir())
		require.NoError(t, err)
		defer store.Close(ctx)
		trainer := NewUCTAgent(searcher.NewMCTS(searcher.WithIterations(200), searcher.WithSeed(2)), tictactoe.Codec{})
		require.NoError(t, trainer.Train(ctx, tictactoe.New(), time.Minute))
		require.NoError(t, trainer.SaveBook(ctx, store, "opening"))

		player := NewUCTAgent(searcher.NewMCTS(searcher.WithSeed(3)), tictactoe.Codec{})

		require.True(t, player.LoadBook(ctx, store, "opening"), "Book should be loaded")
		require.True(t, tictactoe.New().Equal(player.mcts.Root()), "Book root should become the tree root")
	})

	t.Run("missing book is absorbed", func(t *testing.T) {
		store, err := book.NewFileStore(t.TempDir())
		require.NoError(t, err)
		defer store.Close(ctx)
		a := NewUCTAgent(searcher.NewMCTS(searcher.WithIterations(10), searcher.WithSeed(4)), tictactoe.Codec{})

		require.False(t, a.LoadBook(ctx, store, "missing"))
		move, err := a.ChooseMove(ctx, tictactoe.New(), time.Second)

		require.NoError(t, err, "Agent should carry on with an empty tree")
		require.NotNil(t, move)
	})

	t.Run("book for another game is absorbed", func(t *testing.T) {
		store, err := book.NewFileStore(t.TempDir())
		require.NoError(t, err)
		defer store.Close(ctx)
		trainer := NewUCTAgent(searcher.NewMCTS(searcher.WithIterations(10), searcher.WithSeed(5)), tictactoe.Codec{})
		require.NoError(t, trainer.Train(ctx, tictactoe.New(), time.Minute))
		require.NoError(t, trainer.SaveBook(ctx, store, "opening"))

		a := NewUCTAgent(searcher.NewMCTS(), pentago.Codec{})

		require.False(t, a.LoadBook(ctx, store, "opening"), "Mismatched book should be ignored")
		require.Nil(t, a.mcts.Root())
	})
}
