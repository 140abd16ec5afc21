package game

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// GameState is the board plus the player to move. It is a value type: every
// transition returns a new GameState and leaves the receiver untouched.
type GameState struct {
	board Board
	turn  Player
}

type Option func(gs *GameState) error

// WithBoard starts from a copy of the given grid. The grid must be exactly
// Rows x Cols with every cell in {0, 1, 2}, and the checkers of each column
// must stack up from the bottom row without gaps.
func WithBoard(grid [][]int) Option {
	return func(gs *GameState) error {
		if len(grid) != Rows {
			return fmt.Errorf("%w: board has %d rows, want %d", ErrInvalidArgument, len(grid), Rows)
		}
		for row, cells := range grid {
			if len(cells) != Cols {
				return fmt.Errorf("%w: board row %d has %d columns, want %d", ErrInvalidArgument, row, len(cells), Cols)
			}
			for col, cell := range cells {
				if cell < int(Empty) || cell > int(PlayerTwo) {
					return fmt.Errorf("%w: cell (%d, %d) holds %d", ErrInvalidArgument, row, col, cell)
				}
				gs.board[row][col] = Player(cell)
			}
		}
		return gs.board.checkGravity()
	}
}

func WithTurn(turn int) Option {
	return func(gs *GameState) error {
		player, err := validTurn(turn)
		if err != nil {
			return err
		}
		gs.turn = player
		return nil
	}
}

// New returns the empty board with Player 1 to move unless options say otherwise.
func New(options ...Option) (GameState, error) {
	gs := GameState{turn: PlayerOne}
	for _, option := range options {
		if err := option(&gs); err != nil {
			return GameState{}, err
		}
	}
	return gs, nil
}

func validTurn(turn int) (Player, error) {
	if turn != int(PlayerOne) && turn != int(PlayerTwo) {
		return Empty, fmt.Errorf("%w: player turn must be 1 or 2, got %d", ErrInvalidArgument, turn)
	}
	return Player(turn), nil
}

func (gs GameState) Board() Board {
	return gs.board
}

func (gs GameState) PlayerTurn() Player {
	return gs.turn
}

// WithPlayerTurn returns a copy of the state with a different player to move.
func (gs GameState) WithPlayerTurn(turn int) (GameState, error) {
	player, err := validTurn(turn)
	if err != nil {
		return gs, err
	}
	gs.turn = player
	return gs, nil
}

func (gs GameState) NextTurn() Player {
	if gs.turn == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (gs GameState) NumCheckers() [Cols]int {
	return gs.board.NumCheckers()
}

func (gs GameState) IsFull() bool {
	return gs.board.IsFull()
}

// Step drops the current player's checker into the column and hands the turn
// over. gameOver reports whether the mover completed a line with this drop.
func (gs GameState) Step(action int) (next GameState, reward int, gameOver bool, err error) {
	if action < 0 || action >= Cols {
		return gs, 0, false, fmt.Errorf("%w: column %d not in [0, %d]", ErrOutOfRange, action, Cols-1)
	}
	filled := gs.board.NumCheckers()[action]
	if filled >= Rows {
		return gs, 0, false, fmt.Errorf("%w: column %d", ErrColumnFull, action)
	}

	next = GameState{board: gs.board, turn: gs.NextTurn()}
	next.board[(Rows-1)-filled][action] = gs.turn

	gameOver = next.board.HasLine(gs.turn)
	if gameOver {
		reward = WinReward
	}
	return next, reward, gameOver, nil
}

// WinCondition reports whether the player to move holds a complete line.
func (gs GameState) WinCondition() bool {
	return gs.board.HasLine(gs.turn)
}

// Player returns the identifier of the current player.
func (gs GameState) Player() string {
	return gs.turn.String()
}

// LegalMoves lists the columns that can still take a checker, left to right.
// A board with a completed line has no legal moves.
func (gs GameState) LegalMoves() []Move {
	if gs.Winner() != "" {
		return nil
	}
	moves := make([]Move, 0, Cols)
	for col := range Cols {
		if gs.board[0][col] == Empty {
			moves = append(moves, Column(col))
		}
	}
	return moves
}

func (gs GameState) Play(move Move) State {
	col, ok := move.(Column)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	next, _, _, err := gs.Step(int(col))
	if err != nil {
		panic(err)
	}
	return next
}

func (gs GameState) Hash() StateHash {
	var buf [Rows*Cols + 1]byte
	for row := range Rows {
		for col := range Cols {
			buf[row*Cols+col] = byte(gs.board[row][col])
		}
	}
	buf[Rows*Cols] = byte(gs.turn)
	return StateHash(xxhash.Sum64(buf[:]))
}

// Winner returns the player holding a complete line, "" if there is none.
func (gs GameState) Winner() string {
	for _, player := range []Player{PlayerOne, PlayerTwo} {
		if gs.board.HasLine(player) {
			return player.String()
		}
	}
	return ""
}

func (gs GameState) String() string {
	return fmt.Sprintf("%s\nturn: %d", gs.board, gs.turn)
}

var _ State = GameState{}
