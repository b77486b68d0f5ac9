package game

// Pattern weights of a line of stones indexed by length, with both ends open or one end open.
var (
	openScores = [WinNum]float64{0, 0, 50, 500, 5000}
	halfScores = [WinNum]float64{0, 0, 10, 100, 1000}
)

const fiveScore = 10000

// ScoreCell rates how much placing color at index would build lines for color. The cell
// is assumed empty; runs through it are measured in the four directions.
func ScoreCell(cells []Color, size, index int, color Color) float64 {
	x, y := index%size, index/size
	score := 0.0
	for _, d := range directions {
		run := 1
		open := 0
		for _, sign := range [2]int{1, -1} {
			cx, cy := x+sign*d[0], y+sign*d[1]
			for inGrid(cx, cy, size) && cells[cy*size+cx] == color {
				run++
				cx, cy = cx+sign*d[0], cy+sign*d[1]
			}
			if inGrid(cx, cy, size) && cells[cy*size+cx] == Empty {
				open++
			}
		}
		switch {
		case run >= WinNum:
			score += fiveScore
		case open == 2:
			score += openScores[run]
		case open == 1:
			score += halfScores[run]
		}
	}
	return score
}

// Threat sums the best line scores color could reach over all empty cells
func Threat(cells []Color, size int, color Color) (best, total float64) {
	for i, c := range cells {
		if c != Empty {
			continue
		}
		s := ScoreCell(cells, size, i, color)
		total += s
		if s > best {
			best = s
		}
	}
	return best, total
}

// EvaluateThreats scores the position between -1 and 1 from the perspective of the side to move
func EvaluateThreats(b *Board) float64 {
	return EvaluateCells(b.cells, b.size, b.Current())
}

// EvaluateCells compares the best line each side could build next, from toMove's perspective
func EvaluateCells(cells []Color, size int, toMove Color) float64 {
	own, _ := Threat(cells, size, toMove)
	opp, _ := Threat(cells, size, toMove.Opponent())
	return normalize(own, opp)
}

func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

func inGrid(x, y, size int) bool {
	return x >= 0 && y >= 0 && x < size && y < size
}
