package experiments

import (
	"os"
	"path/filepath"
	"renju/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, path string, size int, moves []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, game.WriteRecord(f, size, moves))
	require.NoError(t, f.Close())
}

func TestRecordExamples(t *testing.T) {
	t.Run("labels moves and outcomes for the side to move", func(t *testing.T) {
		// Black completes the top row of a 7x7 board
		moves := []int{0, 7, 1, 8, 2, 9, 3, 10, 4}

		examples, err := RecordExamples(7, moves)

		require.NoError(t, err)
		require.Len(t, examples, len(moves))
		for i, ex := range examples {
			require.Len(t, ex.Input, game.FeaturePlanes*49)
			require.Equal(t, 1.0, ex.Policy[moves[i]])
			if i%2 == 0 {
				require.Equal(t, 1.0, ex.Value, "Black won")
			} else {
				require.Equal(t, -1.0, ex.Value, "White lost")
			}
		}
	})

	t.Run("unfinished games are labelled as draws", func(t *testing.T) {
		examples, err := RecordExamples(7, []int{24, 25, 17})

		require.NoError(t, err)
		for _, ex := range examples {
			require.Equal(t, 0.0, ex.Value)
		}
	})

	t.Run("rejects illegal and trailing moves", func(t *testing.T) {
		_, err := RecordExamples(7, []int{24, 24})
		require.ErrorIs(t, err, game.ErrIllegalMove)

		_, err = RecordExamples(7, []int{0, 7, 1, 8, 2, 9, 3, 10, 4, 11})
		require.Error(t, err)
	})
}

func TestImportRecords(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "game_001.psq")
	second := filepath.Join(dir, "game_002.psq")
	writeRecord(t, first, 7, []int{0, 7, 1, 8, 2, 9, 3, 10, 4})
	writeRecord(t, second, 7, []int{24, 25})

	t.Run("collects the examples of every record", func(t *testing.T) {
		examples, err := ImportRecords(7, first, second)

		require.NoError(t, err)
		require.Len(t, examples, 11)
	})

	t.Run("rejects records of another board size", func(t *testing.T) {
		_, err := ImportRecords(9, first)
		require.Error(t, err)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := ImportRecords(7, filepath.Join(dir, "missing.psq"))
		require.Error(t, err)
	})
}
