package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connect4/agent"
	"connect4/env"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Option func(e *localEngine)

func WithMaxMoves(maxMoves int) Option {
	return func(e *localEngine) {
		if maxMoves > 0 {
			e.maxMoves = maxMoves
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(e *localEngine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *localEngine) {
		e.log = logger
	}
}

// WithObserver is called with the state after every accepted move.
func WithObserver(observe func(step int, state game.GameState)) Option {
	return func(e *localEngine) {
		e.observe = observe
	}
}

type localEngine struct {
	env      *env.Env
	agents   []agent.Agent
	maxMoves int
	metrics  metrics.Collector
	log      zerolog.Logger
	observe  func(step int, state game.GameState)
}

// Local runs agents[0] as Player 1 and agents[1] as Player 2 on the given environment.
func Local(environment *env.Env, agents []agent.Agent, options ...Option) Engine {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	e := &localEngine{
		env:      environment,
		agents:   agents,
		maxMoves: game.Rows * game.Cols,
		metrics:  metrics.NewDummyCollector(),
		log:      log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run resets the environment and plays until the episode ends.
func (e *localEngine) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	if _, err := e.env.Reset(); err != nil {
		return "", metrics.GameMetric{}, nil, fmt.Errorf("reset environment: %w", err)
	}

	state := e.env.State()
	e.metrics.Start(int(state.PlayerTurn()))
	e.log.Debug().Str("player", state.Player()).Msg("starting game")

	for moves := 0; !e.env.Done() && moves < e.maxMoves; moves++ {
		if err := ctx.Err(); err != nil {
			return "", metrics.GameMetric{}, nil, err
		}

		state = e.env.State()
		player := state.PlayerTurn()
		agentIndex := int(player) - 1

		start := time.Now()
		move := e.agents[agentIndex].FindMove(state)
		elapsed := time.Since(start)

		col, ok := move.(game.Column)
		if !ok {
			return "", metrics.GameMetric{}, nil, fmt.Errorf("agent %d returned move %v", agentIndex+1, move)
		}

		_, reward, done, err := e.env.Step(int(col))
		if errors.Is(err, game.ErrOutOfRange) {
			// Replace the rejected column with the leftmost legal one.
			e.metrics.AddRejected()
			e.log.Warn().Err(err).Stringer("player", player).Stringer("column", col).Msg("agent chose an illegal column")
			fallback := state.LegalMoves()
			if len(fallback) == 0 {
				return "", metrics.GameMetric{}, nil, fmt.Errorf("no legal moves for %s", player)
			}
			col = fallback[0].(game.Column)
			_, reward, done, err = e.env.Step(int(col))
		}
		if err != nil {
			return "", metrics.GameMetric{}, nil, fmt.Errorf("step %d: %w", moves+1, err)
		}

		newState := e.env.State()
		e.metrics.AddMove(metrics.MoveMetric{
			Step:     moves + 1,
			Player:   int(player),
			Column:   int(col),
			Reward:   reward,
			Duration: elapsed,
			Hash:     newState.Hash(),
		})
		if e.observe != nil {
			e.observe(moves+1, newState)
		}
		if done {
			break
		}
	}

	winner := e.env.State().Winner()
	if winner != "" {
		e.log.Debug().Str("winner", winner).Int("moves", e.env.Steps()).Msg("game over")
	} else {
		e.log.Debug().Int("moves", e.env.Steps()).Msg("game ended without a winner")
	}

	gameMetric, moveMetrics := e.metrics.Complete(winner)
	return winner, gameMetric, moveMetrics, nil
}
