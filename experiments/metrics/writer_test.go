package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pentago/game"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	moves := []MoveRecord{
		{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: game.White, Move: "1 1",
			SearchMetric: SearchMetric{Engine: "uct", Duration: time.Second, Episodes: 100}}},
		{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: game.Black, Move: "0 0",
			SearchMetric: SearchMetric{Engine: "alphabeta", Duration: time.Second, Episodes: 50, Depth: 3}}},
	}

	t.Run("writing move records with the run id", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "test")
		require.NoError(t, err)

		require.NoError(t, w.WriteMoveRecords(moves))

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 3, "Header plus one row per move")
		require.Equal(t, "run", rows[0][0])
		require.Equal(t, w.RunID, rows[1][0], "Every row should carry the run id")
		require.Equal(t, "white", rows[1][3])
		require.Equal(t, "1 1", rows[1][4])
	})

	t.Run("writing game records", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "test")
		require.NoError(t, err)
		records := []GameRecord{{Game: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{ID: "g", Winner: game.Draw, TotalMoves: 9}}}

		require.NoError(t, w.WriteGameRecords(records))
		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Engine: "uct"}, {ID: 2, Engine: "alphabeta"}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "draw", rows[1][6])
		require.Len(t, readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv")), 3)
	})

	t.Run("rendering the throughput chart", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "test")
		require.NoError(t, err)

		require.NoError(t, w.WriteThroughputChart(moves))

		info, err := os.Stat(filepath.Join(w.Dir(), "throughput.html"))
		require.NoError(t, err)
		require.Positive(t, info.Size(), "Chart should not be empty")
	})
}

func TestCollector(t *testing.T) {
	t.Run("counting a search", func(t *testing.T) {
		c := NewCollector()
		c.Start("uct")
		c.AddEpisode()
		c.AddEpisode()
		c.AddFullPlayout()
		c.SetTreeReset(true)

		m := c.Complete()

		require.Equal(t, "uct", m.Engine)
		require.Equal(t, 2, m.Episodes)
		require.Equal(t, 1, m.FullPlayouts)
		require.True(t, m.IsTreeReset)
	})

	t.Run("starting over", func(t *testing.T) {
		c := NewCollector()
		c.Start("uct")
		c.AddEpisode()
		c.Start("alphabeta")

		require.Zero(t, c.Complete().Episodes, "Start should reset the counters")
	})

	t.Run("dummy collector", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start("uct")
		c.AddEpisode()

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}
