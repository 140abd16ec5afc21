package agent

import "connect4/game"

type Agent interface {
	// FindMove returns one of the state's legal moves
	FindMove(state game.State) game.Move
}
