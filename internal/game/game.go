package game

import (
	"errors"
	"fmt"
)

// ErrNoLegalMove is returned by a Strategy when the board has no empty cell.
var ErrNoLegalMove = errors.New("no legal move")

// Size is the board's width and height.
const Size = 3

// Cell is the content of one board square. Values match the digits used on
// the wire.
type Cell int

const (
	Empty Cell = 0
	CellX Cell = 1
	CellO Cell = 2
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "_"
	case CellX:
		return "X"
	case CellO:
		return "O"
	}
	return "?"
}

// Board is a full 3x3 grid indexed [row][col]. The zero value is an empty board.
type Board [Size][Size]Cell

// ParseBoard reads cell digits in row-major order from s. Bytes other than
// '0', '1' and '2' are skipped, digits past the ninth are ignored and any
// cells not reached stay Empty.
func ParseBoard(s string) Board {
	var b Board
	n := 0
	for i := 0; i < len(s) && n < Size*Size; i++ {
		c := s[i]
		if c < '0' || c > '2' {
			continue
		}
		b[n/Size][n%Size] = Cell(c - '0')
		n++
	}
	return b
}

// String returns the board as nine digits, the inverse of ParseBoard.
func (b Board) String() string {
	out := make([]byte, 0, Size*Size)
	for _, row := range b {
		for _, c := range row {
			out = append(out, byte('0'+c))
		}
	}
	return string(out)
}

// Legal reports whether m addresses an empty cell inside the board.
func (b Board) Legal(m Move) bool {
	return m.Valid() && b[m.Row][m.Col] == Empty
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, row := range b {
		for _, c := range row {
			if c == Empty {
				return false
			}
		}
	}
	return true
}

var winLines = [][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}}, {{1, 0}, {1, 1}, {1, 2}}, {{2, 0}, {2, 1}, {2, 2}}, // rows
	{{0, 0}, {1, 0}, {2, 0}}, {{0, 1}, {1, 1}, {2, 1}}, {{0, 2}, {1, 2}, {2, 2}}, // cols
	{{0, 0}, {1, 1}, {2, 2}}, {{0, 2}, {1, 1}, {2, 0}}, // diags
}

// Winner returns the cell value holding a complete line, or Empty.
func (b Board) Winner() Cell {
	for _, line := range winLines {
		c := b[line[0][0]][line[0][1]]
		if c != Empty && c == b[line[1][0]][line[1][1]] && c == b[line[2][0]][line[2][1]] {
			return c
		}
	}
	return Empty
}

// Move is a (row, col) coordinate. NoMove is the "nothing chosen" sentinel.
type Move struct {
	Row int `json:"x"`
	Col int `json:"y"`
}

var NoMove = Move{Row: -1, Col: -1}

// Valid reports whether the coordinate lies on the board.
func (m Move) Valid() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Strategy picks the next move for a board.
type Strategy interface {
	Name() string
	Choose(b Board) (Move, error)
}
