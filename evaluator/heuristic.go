package evaluator

import (
	"fmt"
	"renju/game"

	"gonum.org/v1/gonum/floats"
)

// Heuristic scores cells by the lines they would extend for either side. It reads the
// newest snapshot of both colors from the features, the side to move being plane 0.
type Heuristic struct {
	// Defense weighs blocking the opponent's lines against building one's own
	Defense float64
}

func NewHeuristic() Heuristic {
	return Heuristic{Defense: 0.8}
}

func (h Heuristic) Evaluate(features game.Features) ([]float64, float64, error) {
	if len(features.Planes) != game.FeaturePlanes {
		return nil, 0, fmt.Errorf("expected %d feature planes, got %d", game.FeaturePlanes, len(features.Planes))
	}
	size := features.Size
	own, opp := features.Plane(0), features.Plane(game.HistoryDepth)
	if len(own) != size*size {
		return nil, 0, fmt.Errorf("expected planes of %d cells, got %d", size*size, len(own))
	}

	// Colors are relative: the side to move plays Black here
	cells := make([]game.Color, size*size)
	for i := range cells {
		switch {
		case own[i] > 0:
			cells[i] = game.Black
		case opp[i] > 0:
			cells[i] = game.White
		}
	}

	priors := make([]float64, len(cells))
	for i, c := range cells {
		if c != game.Empty {
			continue
		}
		attack := game.ScoreCell(cells, size, i, game.Black)
		defense := game.ScoreCell(cells, size, i, game.White)
		priors[i] = 1 + attack + h.Defense*defense
	}
	if sum := floats.Sum(priors); sum > 0 {
		floats.Scale(1/sum, priors)
	}

	// Values are for the side that just moved
	return priors, -game.EvaluateCells(cells, size, game.Black), nil
}
