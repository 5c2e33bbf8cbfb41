// Package experiments plays configured agents against each other and records the results.
package experiments

import (
	"context"
	"fmt"
	"time"

	"pentago/agent"
	"pentago/engine"
	"pentago/experiments/metrics"
	"pentago/game"
	"pentago/game/pentago"
	"pentago/meta"
	"pentago/minimax"
	"pentago/searcher"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 10 // Per match up
	TimeBudget = 200 * time.Millisecond
)

// Experiment describes what to play; NewState defaults to an empty Pentago-Twist board.
type Experiment struct {
	Name     string
	Dir      string
	NumGames int
	Configs  []metrics.AgentConfig
	// Each matchup is {White, Black}
	MatchUps [][2]metrics.AgentConfig
	NewState func() game.State
	Chart    bool
}

// RunEngineExperiment pairs UCT against alpha-beta, each side starting half of the games.
func RunEngineExperiment(ctx context.Context, dir string) error {
	uct := metrics.AgentConfig{ID: 1, Engine: "uct", Duration: TimeBudget, Policy: "random"}
	ab := metrics.AgentConfig{ID: 2, Engine: "alphabeta", Duration: TimeBudget, Depth: meta.DEPTH}
	return Run(ctx, Experiment{
		Name:     "engines",
		Dir:      dir,
		NumGames: NumGames,
		Configs:  []metrics.AgentConfig{uct, ab},
		MatchUps: [][2]metrics.AgentConfig{{uct, ab}, {ab, uct}},
	})
}

// RunPolicyExperiment pairs the two rollout policies at equal budgets.
func RunPolicyExperiment(ctx context.Context, dir string) error {
	random := metrics.AgentConfig{ID: 1, Engine: "uct", Duration: TimeBudget, Policy: "random"}
	connectivity := metrics.AgentConfig{ID: 2, Engine: "uct", Duration: TimeBudget, Policy: "connectivity"}
	return Run(ctx, Experiment{
		Name:     "policies",
		Dir:      dir,
		NumGames: NumGames,
		Configs:  []metrics.AgentConfig{random, connectivity},
		MatchUps: [][2]metrics.AgentConfig{{random, connectivity}, {connectivity, random}},
	})
}

func Run(ctx context.Context, exp Experiment) error {
	if exp.NewState == nil {
		exp.NewState = func() game.State { return pentago.New() }
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", exp.Name)

	for mi, matchup := range exp.MatchUps {
		white, black := matchup[0], matchup[1]
		log.Info().Msgf("starting matchup %d of %d between white=%+v and black=%+v...", mi+1, len(exp.MatchUps), white, black)

		for i := 0; i < exp.NumGames; i++ {
			e := engine.NewLocal(exp.NewState(), createAgent(white), createAgent(black), white.Duration, black.Duration)
			winner, gameMetric, moveMetrics, err := e.Run(ctx)
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				Game:       count,
				Agent1:     white.ID,
				Agent2:     black.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %v", mi+1, len(exp.MatchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", exp.Name)
	return store(exp, gameRecords, moveRecords)
}

func store(exp Experiment, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(exp.Dir, exp.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	if exp.Chart {
		if err := writer.WriteThroughputChart(moveRecords); err != nil {
			return fmt.Errorf("failed to write throughput chart: %w", err)
		}
	}
	log.Info().Msgf("stored results of run %s in %s", writer.RunID, writer.Dir())
	return nil
}

func createAgent(config metrics.AgentConfig) agent.Agent {
	if config.Engine == "alphabeta" {
		depth := config.Depth
		if depth <= 0 {
			depth = meta.DEPTH
		}
		return agent.NewAlphaBetaAgent(minimax.New(minimax.WithMetrics(), minimax.WithDuration(config.Duration)), depth)
	}

	options := []searcher.Option{searcher.WithMetrics()}
	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if policy, ok := searcher.ParsePolicy(config.Policy); ok {
		options = append(options, searcher.WithPolicy(policy))
	}
	return agent.NewUCTAgent(searcher.NewMCTS(options...), pentago.Codec{})
}
