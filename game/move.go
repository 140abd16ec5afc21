package game

import "strconv"

// Column is the index of the column a checker is dropped into.
type Column int

func (c Column) String() string {
	return strconv.Itoa(int(c))
}
