package evaluator

import (
	"errors"
	"fmt"
	"math"
	"renju/game"
	"sync"
	"time"

	"github.com/patrikeh/go-deep"
	"golang.org/x/exp/rand"
)

// NetworkConfig defines the network architecture and, once trained, its weights
type NetworkConfig struct {
	Name          string
	Version       int // Number of training runs the weights went through
	Size          int // Board edge length
	Hidden        []int
	LearningRate  float64
	Symmetry      bool // Evaluate under a random board symmetry and train on all of them
	PolicyWeights [][][]float64
	ValueWeights  [][][]float64
}

func DefaultNetworkConfig(size int) NetworkConfig {
	return NetworkConfig{
		Name:         "default",
		Size:         size,
		Hidden:       []int{64},
		LearningRate: 0.01,
		Symmetry:     true,
	}
}

// Network is a policy head and a value head over the flattened feature planes. It is
// safe for concurrent use.
type Network struct {
	mu     sync.Mutex
	config NetworkConfig
	policy *deep.Neural
	value  *deep.Neural
	rng    *rand.Rand
}

func NewNetwork(config NetworkConfig) (*Network, error) {
	if config.Size <= 0 {
		return nil, errors.New("network board size must be positive")
	}
	if len(config.Hidden) == 0 {
		return nil, errors.New("network needs at least one hidden layer")
	}
	cells := config.Size * config.Size
	inputs := game.FeaturePlanes * cells

	policy := deep.NewNeural(&deep.Config{
		Inputs:     inputs,
		Layout:     append(append([]int{}, config.Hidden...), cells),
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeMultiClass,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
		Loss:       deep.LossCrossEntropy,
	})
	value := deep.NewNeural(&deep.Config{
		Inputs:     inputs,
		Layout:     append(append([]int{}, config.Hidden...), 1),
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
		Loss:       deep.LossMeanSquared,
	})

	// Apply loaded weights if any
	if config.PolicyWeights != nil {
		policy.ApplyWeights(config.PolicyWeights)
	}
	if config.ValueWeights != nil {
		value.ApplyWeights(config.ValueWeights)
	}

	return &Network{
		config: config,
		policy: policy,
		value:  value,
		rng:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

func (n *Network) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fmt.Sprintf("network (%s v%d)", n.config.Name, n.config.Version)
}

// Config returns the architecture with the current weights
func (n *Network) Config() NetworkConfig {
	n.mu.Lock()
	defer n.mu.Unlock()

	config := n.config
	config.Hidden = append([]int{}, n.config.Hidden...)
	config.PolicyWeights = n.policy.Dump().Weights
	config.ValueWeights = n.value.Dump().Weights
	return config
}

// Seed resets the source of evaluation symmetries
func (n *Network) Seed(seed uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rng = rand.New(rand.NewSource(seed))
}

// Evaluate predicts on a randomly transformed board when Symmetry is set and maps the
// priors back onto the cells of the original board. The value head is trained on the
// outcome for the side to move, so its prediction is negated for the side that just moved.
func (n *Network) Evaluate(features game.Features) ([]float64, float64, error) {
	if features.Size != n.config.Size {
		return nil, 0, fmt.Errorf("network expects a %dx%d board, got %dx%d", n.config.Size, n.config.Size, features.Size, features.Size)
	}

	n.mu.Lock()
	sym := 0
	if n.config.Symmetry {
		sym = n.rng.Intn(game.Symmetries)
	}
	input := features.Transform(sym).Flatten()
	raw := n.policy.Predict(input)
	value := n.value.Predict(input)[0]
	n.mu.Unlock()

	if math.IsNaN(value) {
		return nil, 0, errors.New("network produced a NaN value")
	}
	return restoreCells(raw, features.Size, sym), -math.Max(-1, math.Min(1, value)), nil
}

// restoreCells undoes TransformCells for values predicted on a board transformed by sym
func restoreCells(values []float64, size, sym int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = values[game.TransformIndex(i, size, sym)]
	}
	return out
}
