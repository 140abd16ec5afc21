package engine

import (
	"context"
	"testing"

	"connect4/agent"
	"connect4/env"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLocalEngineRun(t *testing.T) {
	t.Run("scripted game ends on the vertical win", func(t *testing.T) {
		agents := []agent.Agent{agent.NewScripted(0, 0, 0, 0), agent.NewScripted(1, 1, 1)}
		e := Local(env.New(), agents, WithCollector(metrics.NewCollector()), WithLogger(zerolog.Nop()))

		winner, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "Player1", winner)
		require.Equal(t, "Player1", gameMetric.Winner)
		require.Equal(t, 1, gameMetric.StartingPlayer)
		require.Equal(t, 7, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 7)

		last := moveMetrics[len(moveMetrics)-1]
		require.Equal(t, 7, last.Step)
		require.Equal(t, 1, last.Player)
		require.Equal(t, 0, last.Column)
		require.Equal(t, game.WinReward, last.Reward)
		for _, mm := range moveMetrics[:6] {
			require.Zero(t, mm.Reward)
		}
	})

	t.Run("records the hash of the state after every move", func(t *testing.T) {
		agents := []agent.Agent{agent.NewScripted(3, 4), agent.NewScripted(3)}
		e := Local(env.New(), agents, WithMaxMoves(3), WithCollector(metrics.NewCollector()), WithLogger(zerolog.Nop()))

		_, _, moveMetrics, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, moveMetrics, 3)

		state, err := game.New()
		require.NoError(t, err)
		for i, col := range []int{3, 3, 4} {
			state, _, _, err = state.Step(col)
			require.NoError(t, err)
			require.Equal(t, state.Hash(), moveMetrics[i].Hash, "move %d", i+1)
		}
	})

	t.Run("random games always finish", func(t *testing.T) {
		for seed := uint64(0); seed < 20; seed++ {
			agents := []agent.Agent{agent.NewRandom(seed), agent.NewRandom(seed + 100)}
			environment := env.New(env.WithSeed(seed))
			e := Local(environment, agents, WithCollector(metrics.NewCollector()), WithLogger(zerolog.Nop()))

			winner, gameMetric, moveMetrics, err := e.Run(context.Background())

			require.NoError(t, err)
			require.True(t, environment.Done())
			require.Equal(t, environment.State().Winner(), winner)
			require.Equal(t, len(moveMetrics), gameMetric.TotalMoves)
			require.LessOrEqual(t, gameMetric.TotalMoves, game.Rows*game.Cols)
			if winner == "" {
				require.True(t, environment.State().IsFull(), "A game without a winner must fill the board")
			}
			for i, mm := range moveMetrics {
				require.Equal(t, i+1, mm.Step)
				require.Equal(t, 1+i%2, mm.Player, "Players alternate starting with player one")
			}
		}
	})

	t.Run("observer sees every accepted move", func(t *testing.T) {
		var steps []int
		agents := []agent.Agent{agent.NewScripted(3, 3, 3, 3), agent.NewScripted(4, 4, 4)}
		e := Local(env.New(), agents, WithLogger(zerolog.Nop()), WithObserver(func(step int, state game.GameState) {
			steps = append(steps, step)
			require.Equal(t, step, sumCheckers(state))
		}))

		_, _, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, steps)
	})

	t.Run("max moves cuts the game short", func(t *testing.T) {
		agents := []agent.Agent{agent.NewRandom(1), agent.NewRandom(2)}
		environment := env.New()
		e := Local(environment, agents, WithMaxMoves(3), WithCollector(metrics.NewCollector()), WithLogger(zerolog.Nop()))

		winner, gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Equal(t, 3, gameMetric.TotalMoves)
		require.False(t, environment.Done())
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		agents := []agent.Agent{agent.NewRandom(1), agent.NewRandom(2)}
		e := Local(env.New(), agents, WithLogger(zerolog.Nop()))

		_, _, _, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("illegal column is replaced and counted", func(t *testing.T) {
		agents := []agent.Agent{illegalAgent{}, agent.NewScripted(6, 6, 6)}
		e := Local(env.New(), agents, WithCollector(metrics.NewCollector()), WithLogger(zerolog.Nop()))

		winner, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "Player1", winner, "Fallback stacks column 0 for player one")
		require.Equal(t, 4, gameMetric.Rejected)
		require.Equal(t, 0, moveMetrics[0].Column)
	})

	t.Run("panics without two agents", func(t *testing.T) {
		require.Panics(t, func() {
			Local(env.New(), []agent.Agent{agent.NewRandom(1)})
		})
	})
}

type illegalAgent struct{}

func (illegalAgent) FindMove(state game.State) game.Move {
	return game.Column(game.Cols)
}

func sumCheckers(state game.GameState) int {
	total := 0
	for _, n := range state.NumCheckers() {
		total += n
	}
	return total
}
