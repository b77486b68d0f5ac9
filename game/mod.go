package game

// Color is the content of a cell and the identity of a player. Stones are +1/-1 so
// that a line of WinNum same-colored stones sums to exactly ±WinNum.
type Color int8

const (
	Empty Color = 0
	Black Color = 1
	White Color = -1
)

const (
	DefaultSize  = 20
	WinNum       = 5
	HistoryDepth = 5

	// FeaturePlanes is the number of planes produced by Board.EncodeFeatures
	FeaturePlanes = 2*HistoryDepth + 1
)

func (c Color) Opponent() Color {
	return -c
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Empty"
	}
}
