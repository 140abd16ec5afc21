package agent

import (
	"connect4/game"

	"golang.org/x/exp/slices"
)

type scriptedAgent struct {
	columns []game.Column
	next    int
}

// NewScripted replays the given columns in order. Once the script runs out,
// or a scripted column is no longer legal, it plays the leftmost legal column.
func NewScripted(columns ...int) Agent {
	script := make([]game.Column, len(columns))
	for i, col := range columns {
		script[i] = game.Column(col)
	}
	return &scriptedAgent{columns: script}
}

func (a *scriptedAgent) FindMove(state game.State) game.Move {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	if a.next < len(a.columns) {
		col := a.columns[a.next]
		a.next++
		if slices.Contains(moves, game.Move(col)) {
			return col
		}
	}
	return moves[0]
}
