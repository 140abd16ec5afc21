package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"connect4/agent"
	"connect4/config"
	"connect4/engine"
	"connect4/env"
	"connect4/experiments"
	"connect4/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

var (
	configPath  string
	demo        bool
	episodes    int
	workers     int
	maxMoves    int
	seed        uint64
	randomStart bool
	outputDir   string
	logLevel    string
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	pflag.BoolVar(&demo, "demo", false, "play a single random game and log the board after every move")
	pflag.IntVarP(&episodes, "episodes", "n", 0, "number of episodes to play")
	pflag.IntVarP(&workers, "workers", "w", 0, "number of episodes played concurrently")
	pflag.IntVar(&maxMoves, "max-moves", 0, "maximum moves per episode")
	pflag.Uint64Var(&seed, "seed", 0, "base random seed")
	pflag.BoolVar(&randomStart, "random-start", false, "start episodes from random non-terminal states")
	pflag.StringVarP(&outputDir, "out", "o", "", "directory for experiment records")
	pflag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func main() {
	pflag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if demo {
		if err := runDemo(ctx, cfg); err != nil {
			log.Fatal().Err(err).Msg("demo failed")
		}
		return
	}

	summary, err := experiments.Run(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	log.Info().
		Int("episodes", summary.Episodes).
		Int("player1_wins", summary.Wins[game.PlayerOne.String()]).
		Int("player2_wins", summary.Wins[game.PlayerTwo.String()]).
		Int("draws", summary.Draws).
		Int("unfinished", summary.Unfinished).
		Float64("mean_moves", summary.MeanMoves).
		Str("dir", summary.Dir).
		Msg("experiment summary")
}

// loadConfig applies flags that were set on top of the loaded config and
// validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := pflag.CommandLine
	if flags.Changed("episodes") {
		cfg.Episodes = episodes
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("max-moves") {
		cfg.MaxMoves = maxMoves
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("random-start") {
		cfg.RandomStart = randomStart
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func runDemo(ctx context.Context, cfg config.Config) error {
	environment := env.New(env.WithSeed(cfg.Seed), env.WithRandomStart(cfg.RandomStart))
	agents := []agent.Agent{agent.NewRandom(cfg.Seed + 1), agent.NewRandom(cfg.Seed + 2)}

	e := engine.Local(environment, agents,
		engine.WithMaxMoves(cfg.MaxMoves),
		engine.WithObserver(func(step int, state game.GameState) {
			fmt.Printf("step %d\n%s\n\n", step, state.Board())
		}),
	)

	winner, _, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if winner == "" {
		log.Info().Msg("game over without a winner")
	} else {
		log.Info().Str("winner", winner).Msg("game over")
	}
	return nil
}
