package searcher

import (
	"errors"
	"renju/game"
)

var (
	// ErrInvariantViolation aborts a search: a selected move could not be replayed or the
	// evaluator returned something unusable.
	ErrInvariantViolation = errors.New("search invariant violation")
	ErrTerminalPosition   = errors.New("position is already decided")
	ErrNoVisits           = errors.New("root has no visited children")
	ErrEmptyDistribution  = errors.New("distribution has no probability mass")
)

// Evaluator maps encoded board features to move priors over every cell and a value in
// [-1, 1] from the perspective of the player who made the last move, the same
// perspective the tree backs values up in.
type Evaluator interface {
	Evaluate(features game.Features) (priors []float64, value float64, err error)
}

type EvaluatorFunc func(features game.Features) ([]float64, float64, error)

func (f EvaluatorFunc) Evaluate(features game.Features) ([]float64, float64, error) {
	return f(features)
}
