package agent

import (
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
)

func fullColumns(t *testing.T, cols ...int) game.GameState {
	t.Helper()
	grid := make([][]int, game.Rows)
	for row := range grid {
		grid[row] = make([]int, game.Cols)
		for _, col := range cols {
			grid[row][col] = 1 + (row+col)%2
		}
	}
	gs, err := game.New(game.WithBoard(grid))
	require.NoError(t, err)
	return gs
}

func TestRandomAgent(t *testing.T) {
	t.Run("only picks legal moves", func(t *testing.T) {
		state := fullColumns(t, 0, 2, 3, 6)
		a := NewRandom(1)

		seen := map[game.Move]bool{}
		for i := 0; i < 200; i++ {
			move := a.FindMove(state)
			require.Contains(t, state.LegalMoves(), move)
			seen[move] = true
		}
		require.Len(t, seen, 3, "All legal columns should eventually be picked")
	})

	t.Run("same seed plays the same moves", func(t *testing.T) {
		state, err := game.New()
		require.NoError(t, err)
		a, b := NewRandom(42), NewRandom(42)

		for i := 0; i < 20; i++ {
			require.Equal(t, a.FindMove(state), b.FindMove(state))
		}
	})

	t.Run("returns nil without legal moves", func(t *testing.T) {
		state := fullColumns(t, 0, 1, 2, 3, 4, 5, 6)
		require.Nil(t, NewRandom(1).FindMove(state))
	})
}

func TestScriptedAgent(t *testing.T) {
	t.Run("replays the script", func(t *testing.T) {
		state, err := game.New()
		require.NoError(t, err)
		a := NewScripted(4, 2, 6)

		require.Equal(t, game.Column(4), a.FindMove(state))
		require.Equal(t, game.Column(2), a.FindMove(state))
		require.Equal(t, game.Column(6), a.FindMove(state))
	})

	t.Run("falls back to the leftmost legal column", func(t *testing.T) {
		state := fullColumns(t, 0, 1)
		a := NewScripted(1)

		require.Equal(t, game.Column(2), a.FindMove(state), "Scripted column is full")
		require.Equal(t, game.Column(2), a.FindMove(state), "Script is exhausted")
	})
}
