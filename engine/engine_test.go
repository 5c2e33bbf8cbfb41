package engine

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"pentago/agent"
	"pentago/game"
	"pentago/game/tictactoe"
	"pentago/minimax"
	"pentago/searcher"

	"github.com/stretchr/testify/require"
)

func parseBoard(board string, turn game.Player) (game.State, error) {
	return tictactoe.Parse(board, turn)
}

func parseMove(s string) (game.Move, error) {
	return tictactoe.ParseMove(s)
}

func TestLocal(t *testing.T) {
	t.Run("playing a game to the end", func(t *testing.T) {
		white := agent.NewUCTAgent(searcher.NewMCTS(searcher.WithIterations(200), searcher.WithSeed(1), searcher.WithMetrics()), tictactoe.Codec{})
		black := agent.NewAlphaBetaAgent(minimax.New(minimax.WithMetrics()), 4)
		e := NewLocal(tictactoe.New(), white, black, time.Second, time.Second)
		steps := 0
		e.OnMove = func(step int, player game.Player, move game.Move, state game.State) {
			steps = step
		}

		winner, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, e.State.IsTerminal(), "Game should be played to the end")
		require.Equal(t, e.State.Winner(), winner)
		require.Equal(t, winner, gameMetric.Winner)
		require.Equal(t, game.White, gameMetric.StartingPlayer)
		require.NotEmpty(t, gameMetric.ID)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		require.Equal(t, steps, gameMetric.TotalMoves, "Every move should be reported")
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			require.NotEmpty(t, mm.Engine, "Move metrics should carry the engine's search metric")
		}
	})

	t.Run("finished game is never searched", func(t *testing.T) {
		state, err := tictactoe.Parse("xxx oo. ...", game.Black)
		require.NoError(t, err)
		white := agent.NewAlphaBetaAgent(minimax.New(minimax.WithMetrics()), 2)
		black := agent.NewAlphaBetaAgent(minimax.New(minimax.WithMetrics()), 2)

		winner, _, moveMetrics, err := NewLocal(state, white, black, time.Second, time.Second).Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.White, winner)
		require.Empty(t, moveMetrics, "No agent should be asked for a move")
		require.Empty(t, black.Metric().Engine)
	})

	t.Run("panics without agents", func(t *testing.T) {
		require.Panics(t, func() {
			NewLocal(tictactoe.New(), nil, nil, time.Second, time.Second)
		})
	})
}

func TestRemote(t *testing.T) {
	t.Run("playing through an agent server", func(t *testing.T) {
		server := agent.NewServer(agent.NewAlphaBetaAgent(minimax.New(), 3), parseBoard, time.Second)
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()

		white := NewRemote(ts.URL, parseMove)
		black := agent.NewAlphaBetaAgent(minimax.New(), 3)
		winner, _, moveMetrics, err := NewLocal(tictactoe.New(), white, black, time.Second, time.Second).Run(context.Background())

		require.NoError(t, err)
		require.NotEqual(t, game.Nobody, winner, "Game should be decided")
		require.NotEmpty(t, moveMetrics)
		require.Equal(t, "remote", moveMetrics[0].Engine)
	})

	t.Run("falling back when the server rejects the request", func(t *testing.T) {
		reject := func(board string, turn game.Player) (game.State, error) {
			return nil, errors.New("unreadable board")
		}
		ts := httptest.NewServer(agent.NewServer(agent.NewAlphaBetaAgent(minimax.New(), 1), reject, time.Second).Handler())
		defer ts.Close()
		state := tictactoe.New()

		move, err := NewRemote(ts.URL, parseMove).ChooseMove(context.Background(), state, time.Second)

		require.NoError(t, err)
		require.Equal(t, state.LegalMoves()[0], move, "Rejected request should fall back to the first legal move")
	})

	t.Run("falling back when the server is unreachable", func(t *testing.T) {
		ts := httptest.NewServer(agent.NewServer(agent.NewAlphaBetaAgent(minimax.New(), 1), parseBoard, time.Second).Handler())
		url := ts.URL
		ts.Close()
		state := tictactoe.New()

		move, err := NewRemote(url, parseMove).ChooseMove(context.Background(), state, time.Second)

		require.NoError(t, err)
		require.Equal(t, state.LegalMoves()[0], move, "Transport failure should fall back to the first legal move")
	})

	t.Run("finishing a game against a server that went away", func(t *testing.T) {
		ts := httptest.NewServer(agent.NewServer(agent.NewAlphaBetaAgent(minimax.New(), 1), parseBoard, time.Second).Handler())
		url := ts.URL
		ts.Close()

		white := NewRemote(url, parseMove)
		black := agent.NewAlphaBetaAgent(minimax.New(), 3)
		winner, _, _, err := NewLocal(tictactoe.New(), white, black, time.Second, time.Second).Run(context.Background())

		require.NoError(t, err)
		require.NotEqual(t, game.Nobody, winner, "Game should be decided")
	})
}
