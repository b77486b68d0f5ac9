package evaluator

import (
	"renju/game"
)

// Uniform gives every cell the same prior and every position a neutral value
type Uniform struct{}

func (Uniform) Evaluate(features game.Features) ([]float64, float64, error) {
	priors := make([]float64, features.Size*features.Size)
	for i := range priors {
		priors[i] = 1
	}
	return priors, 0, nil
}
