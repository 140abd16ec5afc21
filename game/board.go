package game

import (
	"fmt"
	"strings"
)

// Player identifies the owner of a cell. Empty marks an unoccupied cell.
type Player int8

const (
	Empty Player = iota
	PlayerOne
	PlayerTwo
)

func (p Player) String() string {
	if p == Empty {
		return ""
	}
	return fmt.Sprintf("Player%d", p)
}

// Board is the 6x7 grid. Row 0 is the top of the board, row Rows-1 fills first.
type Board [Rows][Cols]Player

// NumCheckers counts the occupied cells of every column.
func (b *Board) NumCheckers() [Cols]int {
	var counts [Cols]int
	for row := range Rows {
		for col := range Cols {
			if b[row][col] > Empty {
				counts[col]++
			}
		}
	}
	return counts
}

// IsFull reports whether no column can take another checker.
func (b *Board) IsFull() bool {
	for col := range Cols {
		if b[0][col] == Empty {
			return false
		}
	}
	return true
}

// checkGravity rejects columns with a checker resting on an empty cell.
func (b *Board) checkGravity() error {
	for col := range Cols {
		for row := range Rows - 1 {
			if b[row][col] != Empty && b[row+1][col] == Empty {
				return fmt.Errorf("%w: checker at (%d, %d) floats above an empty cell", ErrInvalidArgument, row, col)
			}
		}
	}
	return nil
}

// window holds the row and column coordinates of WinLength cells.
type window struct {
	rows [WinLength]int
	cols [WinLength]int
}

func (w *window) shiftRows(delta int) {
	for i := range w.rows {
		w.rows[i] += delta
	}
}

func (w *window) shiftCols(delta int) {
	for i := range w.cols {
		w.cols[i] += delta
	}
}

// owns stops at the first cell of the window the player does not hold.
func (b *Board) owns(player Player, w window) bool {
	owned := 0
	for i := range WinLength {
		if b[w.rows[i]][w.cols[i]] != player {
			break
		}
		owned++
	}
	return owned == WinLength
}

// HasLine reports whether the player holds WinLength consecutive cells
// horizontally, vertically or along either diagonal.
func (b *Board) HasLine(player Player) bool {
	if player != PlayerOne && player != PlayerTwo {
		return false
	}
	return b.horizontal(player) ||
		b.vertical(player) ||
		b.forwardDiagonal(player) ||
		b.backwardDiagonal(player)
}

func (b *Board) horizontal(player Player) bool {
	for row := Rows - 1; row >= 0; row-- {
		w := window{
			rows: [WinLength]int{row, row, row, row},
			cols: [WinLength]int{0, 1, 2, 3},
		}
		for range Cols - WinLength + 1 {
			if b.owns(player, w) {
				return true
			}
			w.shiftCols(1)
		}
	}
	return false
}

func (b *Board) vertical(player Player) bool {
	for col := Cols - 1; col >= 0; col-- {
		w := window{
			rows: [WinLength]int{5, 4, 3, 2},
			cols: [WinLength]int{col, col, col, col},
		}
		for range Rows - WinLength + 1 {
			if b.owns(player, w) {
				return true
			}
			w.shiftRows(-1)
		}
	}
	return false
}

// forwardDiagonal scans lines rising from bottom-left to top-right.
func (b *Board) forwardDiagonal(player Player) bool {
	for col := range Cols - WinLength + 1 {
		w := window{
			rows: [WinLength]int{5, 4, 3, 2},
			cols: [WinLength]int{col, col + 1, col + 2, col + 3},
		}
		for range Rows - WinLength + 1 {
			if b.owns(player, w) {
				return true
			}
			w.shiftRows(-1)
		}
	}
	return false
}

// backwardDiagonal scans lines falling from top-left to bottom-right.
func (b *Board) backwardDiagonal(player Player) bool {
	for col := range Cols - WinLength + 1 {
		w := window{
			rows: [WinLength]int{2, 3, 4, 5},
			cols: [WinLength]int{col, col + 1, col + 2, col + 3},
		}
		for range Rows - WinLength + 1 {
			if b.owns(player, w) {
				return true
			}
			w.shiftRows(-1)
		}
	}
	return false
}

// String renders one line per row, top row first, "." for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for row := range Rows {
		for col := range Cols {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if b[row][col] == Empty {
				sb.WriteByte('.')
			} else {
				fmt.Fprintf(&sb, "%d", b[row][col])
			}
		}
		if row < Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
