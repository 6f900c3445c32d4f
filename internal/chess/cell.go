package chess

import (
	"fmt"
	"math/bits"
	"strings"
)

// Cell is one of the 64 board locations, indexed rank*8+file with a1 = 0.
type Cell int8

// NoCell marks an absent cell, e.g. no en-passant target.
const NoCell Cell = -1

// NewCell returns the cell at the given zero-based file and rank.
func NewCell(file, rank int) (Cell, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoCell, false
	}
	return Cell(rank*8 + file), true
}

// ParseCell parses algebraic notation such as "e4".
func ParseCell(s string) (Cell, error) {
	if len(s) != 2 {
		return NoCell, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	c, ok := NewCell(int(s[0])-'a', int(s[1])-'1')
	if !ok {
		return NoCell, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	return c, nil
}

// MustCell is ParseCell for literals known to be valid.
func MustCell(s string) Cell {
	c, err := ParseCell(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Cell) File() int { return int(c) & 7 }
func (c Cell) Rank() int { return int(c) >> 3 }

func (c Cell) Valid() bool { return c >= 0 && c < 64 }

// Offset returns the cell df files and dr ranks away, if it is on the board.
func (c Cell) Offset(df, dr int) (Cell, bool) {
	return NewCell(c.File()+df, c.Rank()+dr)
}

// IsLight reports whether the cell is a light square (a1 is dark).
func (c Cell) IsLight() bool { return (c.File()+c.Rank())%2 == 1 }

// String formats the cell in algebraic notation, "-" for NoCell.
func (c Cell) String() string {
	if !c.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + c.File()), byte('1' + c.Rank())})
}

// CellSet is a 64-bit set of cells. Iteration is always in board-scan
// order (a1, b1, ..., h8).
type CellSet uint64

func (s CellSet) Has(c Cell) bool {
	return c.Valid() && s&(1<<uint(c)) != 0
}

func (s CellSet) Add(c Cell) CellSet {
	if !c.Valid() {
		return s
	}
	return s | 1<<uint(c)
}

func (s CellSet) Remove(c Cell) CellSet {
	if !c.Valid() {
		return s
	}
	return s &^ (1 << uint(c))
}

func (s CellSet) Empty() bool { return s == 0 }
func (s CellSet) Len() int    { return bits.OnesCount64(uint64(s)) }

// Cells returns the members in board-scan order.
func (s CellSet) Cells() []Cell {
	out := make([]Cell, 0, s.Len())
	for b := uint64(s); b != 0; b &= b - 1 {
		out = append(out, Cell(bits.TrailingZeros64(b)))
	}
	return out
}

// Strings returns the members in algebraic notation, board-scan order.
func (s CellSet) Strings() []string {
	cells := s.Cells()
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

func (s CellSet) String() string {
	return "{" + strings.Join(s.Strings(), " ") + "}"
}

// between returns the cells strictly between a and b when they share a
// rank, file or diagonal; otherwise it returns nil.
func between(a, b Cell) []Cell {
	df := b.File() - a.File()
	dr := b.Rank() - a.Rank()
	if !(df == 0 || dr == 0 || abs(df) == abs(dr)) || (df == 0 && dr == 0) {
		return nil
	}
	sf, sr := sign(df), sign(dr)
	var out []Cell
	for c, ok := a.Offset(sf, sr); ok && c != b; c, ok = c.Offset(sf, sr) {
		out = append(out, c)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
