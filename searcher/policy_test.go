package searcher

import (
	"testing"

	"pentago/game"
	"pentago/game/tictactoe"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestRandomPolicy(t *testing.T) {
	t.Run("choosing a legal move", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		state := tictactoe.New()

		for i := 0; i < 20; i++ {
			require.Contains(t, state.LegalMoves(), Random().Choose(state, rng), "Rollout move should be legal")
		}
	})

	t.Run("terminal state", func(t *testing.T) {
		state, err := tictactoe.Parse("xxx oo. ...", game.Black)
		require.NoError(t, err)

		require.Nil(t, Random().Choose(state, rand.New(rand.NewSource(1))), "Terminal state has nothing to choose")
	})
}

func TestConnectivityPolicy(t *testing.T) {
	t.Run("preferring placements next to own pieces", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		state, err := tictactoe.Parse("x.. ... ..o", game.White)
		require.NoError(t, err)
		neighbours := []game.Move{
			tictactoe.Move{Row: 0, Col: 1},
			tictactoe.Move{Row: 1, Col: 0},
			tictactoe.Move{Row: 1, Col: 1},
		}

		for i := 0; i < 30; i++ {
			require.Contains(t, neighbours, Connectivity().Choose(state, rng),
				"Move should touch the most pieces of the player to move")
		}
	})

	t.Run("falling back to random without a grid", func(t *testing.T) {
		state := &mockState{winner: game.Nobody, moves: []game.Move{mockMove{id: 0}, mockMove{id: 1}}}

		move := Connectivity().Choose(state, rand.New(rand.NewSource(1)))

		require.Contains(t, state.moves, move, "Fallback move should still be legal")
	})
}

func TestParse(t *testing.T) {
	t.Run("policies by name", func(t *testing.T) {
		policy, ok := ParsePolicy("connectivity")
		require.True(t, ok)
		require.Equal(t, "connectivity", policy.Name())

		_, ok = ParsePolicy("greedy")
		require.False(t, ok, "Unknown policy should be rejected")
	})

	t.Run("credit by name", func(t *testing.T) {
		credit, ok := ParseCredit("root")
		require.True(t, ok)
		require.Equal(t, RootRelative, credit)
		require.Equal(t, "root", credit.String())

		_, ok = ParseCredit("both")
		require.False(t, ok, "Unknown credit convention should be rejected")
	})
}
