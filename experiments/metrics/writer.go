package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
)

// AgentConfig describes one contestant of an experiment.
type AgentConfig struct {
	ID         int
	Engine     string // "uct" or "alphabeta"
	Duration   time.Duration
	Iterations int
	Depth      int
	Policy     string
}

type GameRecord struct {
	Game   int
	Agent1 int // AgentConfig.ID playing White
	Agent2 int // AgentConfig.ID playing Black
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.Game
	MoveMetric
}

type Writer struct {
	RunID   string
	baseDir string
}

// NewWriter creates experiments/<name>/<timestamp>.
func NewWriter(root, name string) (*Writer, error) {
	if root == "" {
		root = "experiments"
	}
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		RunID:   uuid.NewString(),
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(append([]string{"run"}, header...)); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := writer.Write(append([]string{w.RunID}, row...)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Engine,
			config.Duration.String(),
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.Depth),
			config.Policy,
		})
	}
	return w.writeCSV("agent_configs.csv", []string{"id", "engine", "duration", "iterations", "depth", "policy"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			record.ID,
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer.String(),
			record.Winner.String(),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	header := []string{"game", "id", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Move,
			record.Engine,
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.FormatBool(record.IsTreeReset),
			strconv.Itoa(record.TreeSize),
			strconv.Itoa(record.Depth),
			strconv.FormatBool(record.TimedOut),
		})
	}
	header := []string{"game", "step", "player", "move", "engine", "duration", "episodes", "full_playouts",
		"is_tree_reset", "tree_size", "depth", "timed_out"}
	return w.writeCSV("move_records.csv", header, rows)
}

// WriteThroughputChart renders episodes per second at each step, one line per game.
func (w *Writer) WriteThroughputChart(records []MoveRecord) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Search throughput",
			Subtitle: w.RunID,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "episodes/s"}),
	)

	steps := 0
	series := map[int][]opts.LineData{}
	games := []int{}
	for _, record := range records {
		if _, ok := series[record.Game]; !ok {
			games = append(games, record.Game)
		}
		series[record.Game] = append(series[record.Game], opts.LineData{Value: throughput(record.SearchMetric)})
		steps = max(steps, record.Step)
	}

	xAxis := make([]string, steps)
	for i := range xAxis {
		xAxis[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(xAxis)
	for _, game := range games {
		line.AddSeries(fmt.Sprintf("game %d", game), series[game])
	}

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(filepath.Join(w.baseDir, "throughput.html"))
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func throughput(m SearchMetric) float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Episodes) / m.Duration.Seconds()
}
