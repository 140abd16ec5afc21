package experiments

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"connect4/agent"
	"connect4/config"
	"connect4/engine"
	"connect4/env"
	"connect4/experiments/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Summary tallies the outcomes of a run.
type Summary struct {
	RunID      uuid.UUID
	Dir        string // Where the records were written
	Episodes   int
	Wins       map[string]int
	Draws      int // Full board without a line
	Unfinished int // Stopped by the move cap
	MeanMoves  float64
}

// Seed roles within an episode. The player roles double as the agent IDs in
// the written records.
const (
	envRole      = 0
	player1Agent = 1
	player2Agent = 2
	seedRoles    = 3
)

// Run plays cfg.Episodes random-vs-random games, at most cfg.Workers at a
// time, and writes the records under cfg.OutputDir.
func Run(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	runID := uuid.New()
	start := time.Now()
	logger.Info().Stringer("run", runID).Int("episodes", cfg.Episodes).Int("workers", cfg.Workers).Msg("starting random play experiment...")

	var mu sync.Mutex
	finished := make(map[int]bool, cfg.Episodes)
	gameRecords := make([]metrics.GameRecord, 0, cfg.Episodes)
	moveRecords := []metrics.MoveRecord{}

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(cfg.Workers)
	for episode := 1; episode <= cfg.Episodes; episode++ {
		errg.Go(func() error {
			seeds := episodeSeeds(cfg.Seed, episode)
			gameMetric, moveMetrics, done, err := runGame(ctx, cfg, episode, seeds, logger)
			if err != nil {
				return fmt.Errorf("episode %d: %w", episode, err)
			}

			mu.Lock()
			defer mu.Unlock()
			finished[episode] = done
			gameRecords = append(gameRecords, metrics.GameRecord{
				Game:       episode,
				Agent1:     player1Agent,
				Agent2:     player2Agent,
				EnvSeed:    seeds[envRole],
				Agent1Seed: seeds[player1Agent],
				Agent2Seed: seeds[player2Agent],
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       episode,
					MoveMetric: mm,
				})
			}
			logger.Debug().Int("episode", episode).Str("winner", gameMetric.Winner).Int("moves", gameMetric.TotalMoves).Msg("completed episode")
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return Summary{}, err
	}
	end := time.Now()

	sort.Slice(gameRecords, func(i, j int) bool { return gameRecords[i].Game < gameRecords[j].Game })
	sort.SliceStable(moveRecords, func(i, j int) bool { return moveRecords[i].Game < moveRecords[j].Game })

	logger.Info().Stringer("run", runID).Dur("duration", end.Sub(start)).Msg("completed random play experiment")

	writer, err := metrics.NewWriter(cfg.OutputDir, runID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	err = writer.WriteSetup(metrics.Setup{
		RunID:       runID,
		Episodes:    cfg.Episodes,
		Workers:     cfg.Workers,
		MaxMoves:    cfg.MaxMoves,
		Seed:        cfg.Seed,
		RandomStart: cfg.RandomStart,
		StartTime:   start,
		EndTime:     end,
		Duration:    end.Sub(start),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to store setup: %w", err)
	}
	err = writer.WriteAgentConfigs([]metrics.AgentConfig{
		{ID: player1Agent, Kind: "random", Seed: cfg.Seed},
		{ID: player2Agent, Kind: "random", Seed: cfg.Seed},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return Summary{}, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return Summary{}, fmt.Errorf("failed to write move records: %w", err)
	}
	logger.Info().Str("dir", writer.Dir()).Msg("stored records")

	return summarize(runID, writer.Dir(), gameRecords, finished), nil
}

// seed derives the seed of one role in one episode from the run seed. Every
// (episode, role) pair for episodes >= 1 maps to its own seed.
func seed(base uint64, episode int, role int) uint64 {
	return base*1_000_003 + uint64(episode)*seedRoles + uint64(role)
}

func episodeSeeds(base uint64, episode int) [seedRoles]uint64 {
	var seeds [seedRoles]uint64
	for role := range seedRoles {
		seeds[role] = seed(base, episode, role)
	}
	return seeds
}

// runGame executes a single game between two random agents. done is false
// when the move cap stopped the game.
func runGame(ctx context.Context, cfg config.Config, episode int, seeds [seedRoles]uint64, logger zerolog.Logger) (metrics.GameMetric, []metrics.MoveMetric, bool, error) {
	agents := []agent.Agent{
		agent.NewRandom(seeds[player1Agent]),
		agent.NewRandom(seeds[player2Agent]),
	}
	environment := env.New(
		env.WithSeed(seeds[envRole]),
		env.WithRandomStart(cfg.RandomStart),
		env.WithLogger(logger.With().Int("episode", episode).Logger()),
	)
	e := engine.Local(environment, agents,
		engine.WithMaxMoves(cfg.MaxMoves),
		engine.WithCollector(metrics.NewCollector()),
		engine.WithLogger(logger),
	)

	_, gameMetric, moveMetrics, err := e.Run(ctx)
	return gameMetric, moveMetrics, environment.Done(), err
}

func summarize(runID uuid.UUID, dir string, records []metrics.GameRecord, finished map[int]bool) Summary {
	summary := Summary{
		RunID:    runID,
		Dir:      dir,
		Episodes: len(records),
		Wins:     map[string]int{},
	}
	totalMoves := 0
	for _, record := range records {
		totalMoves += record.TotalMoves
		switch {
		case record.Winner != "":
			summary.Wins[record.Winner]++
		case !finished[record.Game]:
			summary.Unfinished++
		default:
			summary.Draws++
		}
	}
	if len(records) > 0 {
		summary.MeanMoves = float64(totalMoves) / float64(len(records))
	}
	return summary
}
