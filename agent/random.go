package agent

import (
	"connect4/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandom returns an agent that picks uniformly among the legal moves.
// Each agent owns its random source and must stay on one goroutine.
func NewRandom(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state game.State) game.Move {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	return moves[a.rng.Intn(len(moves))]
}
