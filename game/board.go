package game

import (
	"strings"
)

// Board is a five-in-a-row grid. Cell i maps to (i mod size, i div size). Black moves
// first and the side to move is derived from the number of stones on the board.
type Board struct {
	size   int
	cells  []Color
	moves  []int
	winner Color
}

func NewBoard(size int) *Board {
	if size <= 0 {
		panic("board size must be positive")
	}
	return &Board{
		size:  size,
		cells: make([]Color, size*size),
		moves: make([]int, 0, size*size),
	}
}

func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	b.moves = b.moves[:0]
	b.winner = Empty
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) CellCount() int {
	return len(b.cells)
}

func (b *Board) MoveCount() int {
	return len(b.moves)
}

func (b *Board) Current() Color {
	if len(b.moves)%2 == 0 {
		return Black
	}
	return White
}

func (b *Board) Winner() Color {
	return b.winner
}

func (b *Board) Cell(index int) Color {
	return b.cells[index]
}

func (b *Board) At(x, y int) Color {
	return b.cells[b.Index(x, y)]
}

func (b *Board) IsEmpty(index int) bool {
	return b.InBounds(index) && b.cells[index] == Empty
}

func (b *Board) IsFull() bool {
	return len(b.moves) == len(b.cells)
}

func (b *Board) Index(x, y int) int {
	return y*b.size + x
}

func (b *Board) XY(index int) (int, int) {
	return index % b.size, index / b.size
}

func (b *Board) InBounds(index int) bool {
	return index >= 0 && index < len(b.cells)
}

func (b *Board) LastMove() (int, bool) {
	if len(b.moves) == 0 {
		return -1, false
	}
	return b.moves[len(b.moves)-1], true
}

// Cells returns a snapshot of the grid owned by the caller
func (b *Board) Cells() []Color {
	cells := make([]Color, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// Moves returns the move log, oldest first, owned by the caller
func (b *Board) Moves() []int {
	moves := make([]int, len(b.moves))
	copy(moves, b.moves)
	return moves
}

func (b *Board) Clone() *Board {
	clone := &Board{
		size:   b.size,
		cells:  make([]Color, len(b.cells)),
		moves:  make([]int, len(b.moves), cap(b.moves)),
		winner: b.winner,
	}
	copy(clone.cells, b.cells)
	copy(clone.moves, b.moves)
	return clone
}

// Move places a stone of the side to move at index
func (b *Board) Move(index int) error {
	if !b.InBounds(index) {
		return &IllegalMoveError{Index: index, Reason: "out of range"}
	}
	if b.cells[index] != Empty {
		return &IllegalMoveError{Index: index, Reason: "occupied"}
	}
	b.cells[index] = b.Current()
	b.moves = append(b.moves, index)
	return nil
}

// Undo removes the last stone and returns its index
func (b *Board) Undo() (int, error) {
	last, ok := b.LastMove()
	if !ok {
		return -1, &IllegalMoveError{Index: -1, Reason: "nothing to undo"}
	}
	b.cells[last] = Empty
	b.moves = b.moves[:len(b.moves)-1]
	b.winner = Empty
	return last, nil
}

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// CheckWin reports whether the stone at index completes WinNum in a row and records
// the winner if so.
func (b *Board) CheckWin(index int) bool {
	if !b.InBounds(index) {
		return false
	}
	color := b.cells[index]
	if color == Empty {
		return false
	}
	for _, d := range directions {
		line, at := b.line(index, d[0], d[1])
		if len(line) < WinNum {
			continue
		}
		if windowHit(line, at, int(WinNum)*int(color)) {
			b.winner = color
			return true
		}
	}
	return false
}

func (b *Board) CheckDraw() bool {
	return b.IsFull() && b.winner == Empty
}

// line returns the full board line through index along (dx, dy) and the position of
// index within it.
func (b *Board) line(index, dx, dy int) ([]int, int) {
	x, y := b.XY(index)
	for b.onBoard(x-dx, y-dy) {
		x, y = x-dx, y-dy
	}
	line := make([]int, 0, b.size)
	at := 0
	for ; b.onBoard(x, y); x, y = x+dx, y+dy {
		i := b.Index(x, y)
		if i == index {
			at = len(line)
		}
		line = append(line, int(b.cells[i]))
	}
	return line, at
}

func (b *Board) onBoard(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

// windowHit slides an all-ones kernel of length WinNum over line with a running sum and
// reports whether a window covering position at sums to target.
func windowHit(line []int, at, target int) bool {
	sum := 0
	for i, v := range line {
		sum += v
		if i >= WinNum {
			sum -= line[i-WinNum]
		}
		if i < WinNum-1 {
			continue
		}
		start := i - WinNum + 1
		if start <= at && at <= i && sum == target {
			return true
		}
	}
	return false
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			switch b.At(x, y) {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
