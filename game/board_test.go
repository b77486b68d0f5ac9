package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func play(t *testing.T, b *Board, moves ...int) {
	t.Helper()
	for _, m := range moves {
		require.NoError(t, b.Move(m))
	}
}

func TestBoardMove(t *testing.T) {
	t.Run("stones alternate starting with black", func(t *testing.T) {
		b := NewBoard(DefaultSize)
		require.Equal(t, Black, b.Current())

		play(t, b, 0, 1)

		require.Equal(t, Black, b.Cell(0))
		require.Equal(t, White, b.Cell(1))
		require.Equal(t, Black, b.Current())
		require.Equal(t, 2, b.MoveCount())
	})

	t.Run("out of range and occupied cells are rejected", func(t *testing.T) {
		b := NewBoard(5)
		play(t, b, 3)

		for _, index := range []int{-1, 25, 3} {
			err := b.Move(index)
			require.ErrorIs(t, err, ErrIllegalMove)
			var illegal *IllegalMoveError
			require.True(t, errors.As(err, &illegal))
			require.Equal(t, index, illegal.Index)
		}
		require.Equal(t, 1, b.MoveCount(), "Rejected moves should not change the board")
	})

	t.Run("move then undo restores cells and move count", func(t *testing.T) {
		b := NewBoard(9)
		play(t, b, 40, 41, 30, 50)
		before := b.Cells()
		count := b.MoveCount()

		for _, m := range []int{0, 80, 42} {
			play(t, b, m)
			undone, err := b.Undo()
			require.NoError(t, err)
			require.Equal(t, m, undone)
			require.Equal(t, before, b.Cells())
			require.Equal(t, count, b.MoveCount())
		}
	})

	t.Run("undo on an empty board fails", func(t *testing.T) {
		b := NewBoard(DefaultSize)
		_, err := b.Undo()
		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("undo clears the winner", func(t *testing.T) {
		b := NewBoard(9)
		play(t, b, 0, 9, 1, 10, 2, 11, 3, 12, 4)
		require.True(t, b.CheckWin(4))

		_, err := b.Undo()
		require.NoError(t, err)
		require.Equal(t, Empty, b.Winner())
	})

	t.Run("clone is independent", func(t *testing.T) {
		b := NewBoard(9)
		play(t, b, 10)
		clone := b.Clone()
		play(t, clone, 11)

		require.Equal(t, 1, b.MoveCount())
		require.True(t, b.IsEmpty(11))
		require.Equal(t, []int{10, 11}, clone.Moves())
	})
}

func TestBoardCheckWin(t *testing.T) {
	t.Run("horizontal five on 20x20 wins on the fifth stone only", func(t *testing.T) {
		b := NewBoard(20)
		for x := 5; x <= 9; x++ {
			index := b.Index(x, 5)
			play(t, b, index)
			if x < 9 {
				require.False(t, b.CheckWin(index))
				require.Equal(t, Empty, b.Winner())
				play(t, b, b.Index(x, 15)) // white elsewhere
			}
		}
		require.True(t, b.CheckWin(b.Index(9, 5)))
		require.Equal(t, Black, b.Winner())
	})

	t.Run("same cells in alternating colors never win", func(t *testing.T) {
		b := NewBoard(20)
		for x := 5; x <= 9; x++ {
			index := b.Index(x, 5)
			play(t, b, index)
			require.False(t, b.CheckWin(index))
		}
		require.Equal(t, Empty, b.Winner())
	})

	lines := map[string][2]int{
		"row":           {1, 0},
		"column":        {0, 1},
		"diagonal":      {1, 1},
		"anti-diagonal": {1, -1},
	}
	for name, d := range lines {
		t.Run("bounded five in a "+name+" wins from every stone", func(t *testing.T) {
			for at := 0; at < WinNum; at++ {
				b := five(t, 11, d, WinNum)
				x, y := 3+at*d[0], 5+at*d[1]
				require.True(t, b.CheckWin(b.Index(x, y)))
				require.Equal(t, Black, b.Winner())
			}
		})

		t.Run("four in a "+name+" never wins", func(t *testing.T) {
			for at := 0; at < WinNum-1; at++ {
				b := five(t, 11, d, WinNum-1)
				x, y := 3+at*d[0], 5+at*d[1]
				require.False(t, b.CheckWin(b.Index(x, y)))
				require.Equal(t, Empty, b.Winner())
			}
		})
	}

	t.Run("run touching the edge of a small board", func(t *testing.T) {
		b := NewBoard(5)
		play(t, b, 0, 5, 1, 6, 2, 7, 3, 8, 4)
		require.True(t, b.CheckWin(4))
	})

	t.Run("empty cell never wins", func(t *testing.T) {
		b := NewBoard(9)
		require.False(t, b.CheckWin(0))
		require.False(t, b.CheckWin(-3))
	})
}

// five lays n black stones from (3, 5) along d, with white answering in the corner rows
func five(t *testing.T, size int, d [2]int, n int) *Board {
	t.Helper()
	b := NewBoard(size)
	for i := 0; i < n; i++ {
		play(t, b, b.Index(3+i*d[0], 5+i*d[1]))
		play(t, b, b.Index(i*2, size-1))
	}
	return b
}

func TestBoardCheckDraw(t *testing.T) {
	t.Run("full board without five is a draw", func(t *testing.T) {
		// Columns alternate in pairs so no line holds more than two of a color
		b := NewBoard(4)
		pattern := []Color{
			Black, Black, White, White,
			White, White, Black, Black,
			Black, Black, White, White,
			White, White, Black, Black,
		}
		var blacks, whites []int
		for i, c := range pattern {
			if c == Black {
				blacks = append(blacks, i)
			} else {
				whites = append(whites, i)
			}
		}
		for i := range blacks {
			require.False(t, b.CheckDraw())
			play(t, b, blacks[i], whites[i])
		}
		require.True(t, b.IsFull())
		require.True(t, b.CheckDraw())
		require.Equal(t, Empty, b.Winner())
	})

	t.Run("partial board is not a draw", func(t *testing.T) {
		b := NewBoard(9)
		play(t, b, 0)
		require.False(t, b.CheckDraw())
	})
}

func TestBoardReset(t *testing.T) {
	b := NewBoard(9)
	play(t, b, 0, 1, 2)
	b.Reset()

	require.Equal(t, 0, b.MoveCount())
	require.Equal(t, Black, b.Current())
	require.Equal(t, make([]Color, 81), b.Cells())
	_, ok := b.LastMove()
	require.False(t, ok)
}
