package searcher

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"pentago/game"
	"pentago/meta"

	"github.com/stretchr/testify/require"
)

type mockMove struct {
	id int
}

func (m mockMove) String() string {
	return fmt.Sprintf("move%d", m.id)
}

type mockState struct {
	player game.Player
	winner game.Player
	moves  []game.Move
	played []game.Move
}

var _ game.State = (*mockState)(nil)

func (m *mockState) Player() game.Player {
	return m.player
}

func (m *mockState) LegalMoves() []game.Move {
	return m.moves
}

func (m *mockState) Play(move game.Move) game.State {
	// The successor has no moves and no winner
	played := append(slices.Clone(m.played), move)
	return &mockState{player: m.player.Opponent(), winner: game.Nobody, played: played}
}

func (m *mockState) IsTerminal() bool {
	return m.winner != game.Nobody
}

func (m *mockState) Winner() game.Player {
	return m.winner
}

func (m *mockState) Hash() game.StateHash {
	return game.StateHash(len(m.played))
}

func (m *mockState) Equal(other game.State) bool {
	o, ok := other.(*mockState)
	return ok && o.player == m.player && o.winner == m.winner && slices.Equal(o.played, m.played)
}

func (m *mockState) Copy() game.State {
	c := *m
	c.played = slices.Clone(m.played)
	return &c
}

func TestUCB1(t *testing.T) {
	t.Run("unvisited child", func(t *testing.T) {
		require.Equal(t, math.Inf(1), ucb1(0, 0, 10, meta.EXPLORATION), "Unvisited child should be prioritized")
	})

	t.Run("computing UCB1 value", func(t *testing.T) {
		got := ucb1(5.0, 10, 100, 2.0)

		expected := 5.0/10 + 2.0*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001, "Should compute w/n + c*sqrt(ln(N)/n)")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		require.Greater(t, ucb1(5, 10, 1000, meta.EXPLORATION), ucb1(5, 10, 100, meta.EXPLORATION),
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		require.Greater(t, ucb1(5, 10, 100, meta.EXPLORATION), ucb1(5, 20, 100, meta.EXPLORATION),
			"More child visits should decrease exploration term")
	})

	t.Run("exploitation term increases with win score", func(t *testing.T) {
		require.Greater(t, ucb1(10, 10, 100, meta.EXPLORATION), ucb1(5, 10, 100, meta.EXPLORATION),
			"More wins should increase exploitation term")
	})

	t.Run("zero exploration is pure exploitation", func(t *testing.T) {
		require.Equal(t, 0.5, ucb1(5, 10, 100, 0), "Only the win rate should remain")
	})
}

func TestReward(t *testing.T) {
	t.Run("credited player wins", func(t *testing.T) {
		require.Equal(t, Win, reward(game.Black, game.Black), "Winner should be rewarded")
	})

	t.Run("credited player loses", func(t *testing.T) {
		require.Equal(t, Loss, reward(game.White, game.Black), "Loser should get nothing")
	})

	t.Run("draw", func(t *testing.T) {
		require.Equal(t, Draw, reward(game.Draw, game.White), "Draw should be worth half a win")
	})
}
