package game

import (
	"errors"
	"fmt"
)

type Move interface {
	String() string
}

const (
	Rows      = 6
	Cols      = 7
	WinLength = 4

	// WinReward is paid to the player whose move completes a line.
	WinReward = 100
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("out of range")
	ErrColumnFull      = fmt.Errorf("%w: column is full", ErrOutOfRange)
)

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Player() string
	LegalMoves() []Move
	Play(Move) State
	Hash() StateHash
	Winner() string
}
