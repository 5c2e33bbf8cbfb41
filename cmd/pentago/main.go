package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pentago/agent"
	"pentago/book"
	"pentago/config"
	"pentago/engine"
	"pentago/experiments"
	"pentago/game"
	"pentago/meta"
	"pentago/minimax"
	"pentago/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/rand"
)

func main() {
	app := &cli.App{
		Name:  "pentago",
		Usage: "UCT and alpha-beta move engines for Pentago-Twist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration file (yaml, json or toml)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "train",
				Usage: "grow an opening book from the initial position",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "budget", Value: meta.TRAIN_BUDGET, Usage: "training time"},
				},
				Action: train,
			},
			{
				Name:  "play",
				Usage: "play one game between two engines",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "white", Value: "uct", Usage: "uct, alphabeta or an agent server URL"},
					&cli.StringFlag{Name: "black", Value: "alphabeta", Usage: "uct, alphabeta or an agent server URL"},
					&cli.BoolFlag{Name: "color", Value: true, Usage: "color the board"},
				},
				Action: play,
			},
			{
				Name:   "serve",
				Usage:  "answer move requests over HTTP",
				Action: serve,
			},
			{
				Name:      "experiment",
				Usage:     "run an experiment (engines, policies or throughput) and write its records",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: "experiments", Usage: "output directory"},
				},
				Action: experiment,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("pentago failed")
	}
}

// setup loads the configuration and points the global logger at the console
func setup(c *cli.Context) (*config.Config, gameKit, error) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, gameKit{}, err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, gameKit{}, fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	k, err := kit(cfg.Game)
	return cfg, k, err
}

func newMCTS(cfg *config.Config) *searcher.MCTS {
	policy, _ := searcher.ParsePolicy(cfg.Policy)
	credit, _ := searcher.ParseCredit(cfg.Credit)
	options := []searcher.Option{
		searcher.WithDuration(cfg.TurnBudget),
		searcher.WithExploration(cfg.Exploration),
		searcher.WithPolicy(policy),
		searcher.WithCredit(credit),
		searcher.WithMaxNodes(cfg.MaxNodes),
		searcher.WithMetrics(),
	}
	if cfg.Seed != 0 {
		options = append(options, searcher.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}
	return searcher.NewMCTS(options...)
}

// newAgent builds a UCT agent with its opening book loaded, an alpha-beta agent, or a remote
// agent when name is a URL.
func newAgent(ctx context.Context, cfg *config.Config, k gameKit, name string) (agent.Agent, error) {
	switch name {
	case "uct":
		a := agent.NewUCTAgent(newMCTS(cfg), k.codec)
		store, err := book.Open(ctx, cfg.Book)
		if err != nil {
			log.Warn().Err(err).Msg("opening book store unavailable, starting with an empty tree")
			return a, nil
		}
		defer store.Close(ctx)
		a.LoadBook(ctx, store, cfg.Book.Key)
		return a, nil
	case "alphabeta":
		ab := minimax.New(minimax.WithDepth(cfg.Depth), minimax.WithDuration(cfg.TurnBudget), minimax.WithMetrics())
		return agent.NewAlphaBetaAgent(ab, cfg.Depth), nil
	default:
		return engine.NewRemote(name, k.parseMove), nil
	}
}

func train(c *cli.Context) error {
	cfg, k, err := setup(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	a := agent.NewUCTAgent(newMCTS(cfg), k.codec)
	store, err := book.Open(ctx, cfg.Book)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	// Continue from an earlier book when there is one
	a.LoadBook(ctx, store, cfg.Book.Key)
	if err := a.Train(ctx, k.newState(), c.Duration("budget")); err != nil {
		return err
	}
	if err := a.SaveBook(ctx, store, cfg.Book.Key); err != nil {
		return fmt.Errorf("saving opening book: %w", err)
	}
	log.Info().Msgf("saved opening book %q to the %s store", cfg.Book.Key, cfg.Book.Backend)
	return nil
}

func play(c *cli.Context) error {
	cfg, k, err := setup(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	white, err := newAgent(ctx, cfg, k, c.String("white"))
	if err != nil {
		return err
	}
	black, err := newAgent(ctx, cfg, k, c.String("black"))
	if err != nil {
		return err
	}

	e := engine.NewLocal(k.newState(), white, black, cfg.FirstTurnBudget, cfg.TurnBudget)
	colors := c.Bool("color")
	e.OnMove = func(step int, player game.Player, move game.Move, state game.State) {
		fmt.Printf("%d. %v plays %v\n%s\n", step, player, move, render(state, colors))
	}
	winner, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s after %d moves in %v\n", outcome(winner), gameMetric.TotalMoves, gameMetric.Duration.Round(time.Millisecond))
	return nil
}

func serve(c *cli.Context) error {
	cfg, k, err := setup(c)
	if err != nil {
		return err
	}
	a, err := newAgent(c.Context, cfg, k, cfg.Engine)
	if err != nil {
		return err
	}
	return agent.NewServer(a, k.parse, cfg.TurnBudget).ListenAndServe(cfg.Listen)
}

func experiment(c *cli.Context) error {
	if _, _, err := setup(c); err != nil {
		return err
	}
	dir := c.String("dir")
	switch name := c.Args().First(); name {
	case "engines":
		return experiments.RunEngineExperiment(c.Context, dir)
	case "policies":
		return experiments.RunPolicyExperiment(c.Context, dir)
	case "throughput":
		return experiments.RunThroughputExperiment(c.Context, dir)
	default:
		return fmt.Errorf("unknown experiment %q", name)
	}
}
