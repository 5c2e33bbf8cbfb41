package experiments

import (
	"context"
	"time"

	"pentago/experiments/metrics"
)

// RunThroughputExperiment plays UCT against itself at growing budgets and charts the episodes
// per second of every move.
func RunThroughputExperiment(ctx context.Context, dir string) error {
	durations := []time.Duration{
		10 * time.Millisecond,
		50 * time.Millisecond,
		200 * time.Millisecond,
	}
	configs := []metrics.AgentConfig{}
	matchUps := [][2]metrics.AgentConfig{}
	for i, d := range durations {
		config := metrics.AgentConfig{ID: i + 1, Engine: "uct", Duration: d, Policy: "random"}
		configs = append(configs, config)
		// Same config for both players for the same playing strength and similar game length
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}

	return Run(ctx, Experiment{
		Name:     "throughput",
		Dir:      dir,
		NumGames: 1,
		Configs:  configs,
		MatchUps: matchUps,
		Chart:    true,
	})
}
