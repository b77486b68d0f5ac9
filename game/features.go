package game

// Features is the evaluator input: FeaturePlanes planes of CellCount values each.
//
// Planes [0, HistoryDepth) hold the stones of the encoded color, newest first, planes
// [HistoryDepth, 2*HistoryDepth) the opponent's, and the last plane is all ones when
// Black is to move.
type Features struct {
	Size   int
	Planes [][]float64
}

func (f Features) Plane(i int) []float64 {
	return f.Planes[i]
}

// Flatten concatenates the planes into a single input vector
func (f Features) Flatten() []float64 {
	if len(f.Planes) == 0 {
		return nil
	}
	flat := make([]float64, 0, len(f.Planes)*len(f.Planes[0]))
	for _, plane := range f.Planes {
		flat = append(flat, plane...)
	}
	return flat
}

// EncodeFeatures encodes the position offset plies before the current one from the
// point of view of color. Offsets are clamped to the game so far and snapshots older
// than the first move are empty planes. An Empty color means the side to move.
func (b *Board) EncodeFeatures(color Color, offset int) Features {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.moves) {
		offset = len(b.moves)
	}
	if color == Empty {
		color = b.Current()
	}

	cells := b.Cells()
	moves := b.moves[:len(b.moves)-offset]
	for _, m := range b.moves[len(moves):] {
		cells[m] = Empty
	}

	n := len(cells)
	planes := make([][]float64, FeaturePlanes)
	for i := range planes {
		planes[i] = make([]float64, n)
	}

	next := len(moves) - 1
	for k := 0; k < HistoryDepth; k++ {
		own, opp := planes[k], planes[HistoryDepth+k]
		for i, c := range cells {
			switch c {
			case color:
				own[i] = 1
			case color.Opponent():
				opp[i] = 1
			}
		}
		if next < 0 {
			continue
		}
		cells[moves[next]] = Empty
		next--
	}

	if len(moves)%2 == 0 {
		last := planes[FeaturePlanes-1]
		for i := range last {
			last[i] = 1
		}
	}
	return Features{Size: b.size, Planes: planes}
}
