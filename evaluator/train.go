package evaluator

import (
	"fmt"
	"renju/game"

	"github.com/patrikeh/go-deep/training"
)

// Example is one self-play position: the flattened features, the search distribution
// played from it and the final outcome for the side to move.
type Example struct {
	Input  []float64
	Policy []float64
	Value  float64
}

// Outcome is the value target for player once the game is decided: 1 for a win, -1
// for a loss and 0 for a draw
func Outcome(player, winner game.Color) float64 {
	switch winner {
	case game.Empty:
		return 0
	case player:
		return 1
	default:
		return -1
	}
}

// Train fits both heads to examples with SGD
func (n *Network) Train(examples []Example, iterations int) error {
	if len(examples) == 0 || iterations <= 0 {
		return nil
	}
	cells := n.config.Size * n.config.Size
	for i, ex := range examples {
		if len(ex.Input) != n.policy.Config.Inputs || len(ex.Policy) != cells {
			return fmt.Errorf("example %d has %d inputs and %d policy entries, expected %d and %d",
				i, len(ex.Input), len(ex.Policy), n.policy.Config.Inputs, cells)
		}
	}
	if n.config.Symmetry {
		examples = Augment(examples, n.config.Size)
	}

	var policyData, valueData training.Examples
	for _, ex := range examples {
		policyData = append(policyData, training.Example{Input: ex.Input, Response: ex.Policy})
		valueData = append(valueData, training.Example{Input: ex.Input, Response: []float64{ex.Value}})
	}

	policyData.Shuffle()
	valueData.Shuffle()

	n.mu.Lock()
	defer n.mu.Unlock()

	trainer := training.NewTrainer(training.NewSGD(n.config.LearningRate, 0.5, 0.0, false), 0)
	trainer.Train(n.policy, policyData, nil, iterations)
	trainer = training.NewTrainer(training.NewSGD(n.config.LearningRate, 0.5, 0.0, false), 0)
	trainer.Train(n.value, valueData, nil, iterations)
	n.config.Version++
	return nil
}

// Augment returns every example under each of the board symmetries, the identity first.
// Inputs are flattened feature planes and policies span the cells of a size x size board.
func Augment(examples []Example, size int) []Example {
	cells := size * size
	augmented := make([]Example, 0, len(examples)*game.Symmetries)
	for _, ex := range examples {
		for sym := 0; sym < game.Symmetries; sym++ {
			input := make([]float64, 0, len(ex.Input))
			for start := 0; start+cells <= len(ex.Input); start += cells {
				input = append(input, game.TransformCells(ex.Input[start:start+cells], size, sym)...)
			}
			augmented = append(augmented, Example{
				Input:  input,
				Policy: game.TransformCells(ex.Policy, size, sym),
				Value:  ex.Value,
			})
		}
	}
	return augmented
}
