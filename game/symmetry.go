package game

// Symmetries is the number of board transforms: four rotations, each optionally mirrored
const Symmetries = 8

// TransformIndex maps index under symmetry sym in [0, Symmetries). The board is mirrored
// along x first when sym >= 4, then turned sym%4 quarter turns.
func TransformIndex(index, size, sym int) int {
	x, y := index%size, index/size
	if sym >= 4 {
		x = size - 1 - x
	}
	for r := 0; r < sym%4; r++ {
		x, y = size-1-y, x
	}
	return y*size + x
}

// Transform returns the features as seen on the board transformed by sym
func (f Features) Transform(sym int) Features {
	planes := make([][]float64, len(f.Planes))
	for p, plane := range f.Planes {
		planes[p] = TransformCells(plane, f.Size, sym)
	}
	return Features{Size: f.Size, Planes: planes}
}

// TransformCells moves every per-cell value to its transformed cell
func TransformCells(values []float64, size, sym int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[TransformIndex(i, size, sym)] = v
	}
	return out
}
