package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformIndex(t *testing.T) {
	t.Run("every symmetry is a permutation", func(t *testing.T) {
		for sym := 0; sym < Symmetries; sym++ {
			seen := make(map[int]bool)
			for i := 0; i < 16; i++ {
				seen[TransformIndex(i, 4, sym)] = true
			}
			require.Len(t, seen, 16, "symmetry %d", sym)
		}
	})

	t.Run("the eight symmetries are distinct", func(t *testing.T) {
		images := make(map[[2]int]bool)
		for sym := 0; sym < Symmetries; sym++ {
			// (1, 0) and (0, 2) tell all eight transforms of a 5x5 board apart
			images[[2]int{TransformIndex(1, 5, sym), TransformIndex(10, 5, sym)}] = true
		}
		require.Len(t, images, Symmetries)
	})

	t.Run("identity, quarter turn and mirror", func(t *testing.T) {
		b := NewBoard(3)
		require.Equal(t, b.Index(2, 1), TransformIndex(b.Index(2, 1), 3, 0))
		require.Equal(t, b.Index(2, 0), TransformIndex(b.Index(0, 0), 3, 1))
		require.Equal(t, b.Index(2, 0), TransformIndex(b.Index(0, 0), 3, 4))
		require.Equal(t, b.Index(1, 1), TransformIndex(b.Index(1, 1), 3, 6), "Centre is fixed")
	})
}

func TestFeaturesTransform(t *testing.T) {
	b := NewBoard(5)
	require.NoError(t, b.Move(b.Index(0, 1)))
	require.NoError(t, b.Move(b.Index(3, 3)))
	f := b.EncodeFeatures(Empty, 0)

	for sym := 0; sym < Symmetries; sym++ {
		moved := f.Transform(sym)

		require.Equal(t, 1.0, moved.Plane(0)[TransformIndex(b.Index(0, 1), 5, sym)], "symmetry %d", sym)
		require.Equal(t, 1.0, moved.Plane(HistoryDepth)[TransformIndex(b.Index(3, 3), 5, sym)], "symmetry %d", sym)
		require.Equal(t, f.Plane(FeaturePlanes-1), moved.Plane(FeaturePlanes-1))
	}
}
