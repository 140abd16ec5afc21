package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	runID := uuid.New()
	w, err := NewWriter(t.TempDir(), runID)
	require.NoError(t, err)
	require.Equal(t, runID.String(), filepath.Base(w.Dir()))

	t.Run("writes the setup as json", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		setup := Setup{RunID: runID, Episodes: 10, Workers: 2, MaxMoves: 42, Seed: 7, StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second}

		require.NoError(t, w.WriteSetup(setup))

		data, err := os.ReadFile(filepath.Join(w.Dir(), "setup.json"))
		require.NoError(t, err)
		var decoded Setup
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, setup, decoded)
	})

	t.Run("writes agent configs", func(t *testing.T) {
		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Kind: "random", Seed: 3}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, [][]string{{"id", "kind", "seed"}, {"1", "random", "3"}}, rows)
	})

	t.Run("writes one row per game", func(t *testing.T) {
		gameID := uuid.New()
		records := []GameRecord{
			{Game: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{ID: gameID, StartingPlayer: 1, Winner: "Player2", TotalMoves: 12}},
			{Game: 2, Agent1: 1, Agent2: 2, GameMetric: GameMetric{ID: uuid.New(), StartingPlayer: 1, TotalMoves: 42, Rejected: 1}},
		}

		require.NoError(t, w.WriteGameRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "winner", rows[0][5])
		require.Equal(t, gameID.String(), rows[1][1])
		require.Equal(t, "Player2", rows[1][5])
		require.Equal(t, "", rows[2][5], "A draw has no winner")
		require.Equal(t, "1", rows[2][10])
	})

	t.Run("writes one row per move", func(t *testing.T) {
		records := []MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: 1, Column: 3, Duration: time.Millisecond}},
			{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: 2, Column: 3, Reward: 100, Hash: 0xbeef}},
		}

		require.NoError(t, w.WriteMoveRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Equal(t, []string{"game", "step", "player", "column", "reward", "duration", "state_hash"}, rows[0])
		require.Equal(t, []string{"1", "1", "1", "3", "0", "1ms", "0"}, rows[1])
		require.Equal(t, []string{"1", "2", "2", "3", "100", "0s", "beef"}, rows[2])
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(2)
	c.AddMove(MoveMetric{Step: 1, Player: 2, Column: 0})
	c.AddMove(MoveMetric{Step: 2, Player: 1, Column: 1})
	c.AddRejected()

	game, moves := c.Complete("Player1")

	require.NotEqual(t, uuid.Nil, game.ID)
	require.Equal(t, 2, game.StartingPlayer)
	require.Equal(t, "Player1", game.Winner)
	require.Equal(t, 2, game.TotalMoves)
	require.Equal(t, 1, game.Rejected)
	require.False(t, game.EndTime.Before(game.StartTime))
	require.Len(t, moves, 2)

	t.Run("start clears the previous game", func(t *testing.T) {
		c.Start(1)
		game, moves := c.Complete("")

		require.Zero(t, game.TotalMoves)
		require.Zero(t, game.Rejected)
		require.Empty(t, moves)
	})
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start(1)
	c.AddMove(MoveMetric{Step: 1})
	c.AddRejected()

	game, moves := c.Complete("Player2")

	require.Equal(t, "Player2", game.Winner)
	require.Nil(t, moves)
}
