package experiments

import (
	"errors"
	"fmt"
	"io/fs"
	"renju/evaluator"
	"renju/experiments/metrics"
	"renju/searcher"
	"sync"

	"github.com/rs/zerolog/log"
)

// NewEvaluatorFactory resolves "uniform", "heuristic" and "network" evaluators for a
// size x size board. Networks are loaded once per weights file and shared between games.
func NewEvaluatorFactory(size int) EvaluatorFactory {
	var mu sync.Mutex
	networks := make(map[string]*evaluator.Network)

	return func(config metrics.AgentConfig) (searcher.Evaluator, error) {
		switch config.Evaluator {
		case "uniform":
			return evaluator.Uniform{}, nil
		case "heuristic":
			return evaluator.NewHeuristic(), nil
		case "network":
			mu.Lock()
			defer mu.Unlock()
			if n, ok := networks[config.Network]; ok {
				return n, nil
			}
			n, err := LoadNetwork(config.Network, size)
			if err != nil {
				return nil, err
			}
			networks[config.Network] = n
			return n, nil
		default:
			return nil, fmt.Errorf("unknown evaluator %q", config.Evaluator)
		}
	}
}

// LoadNetwork reads the weights at path, starting an untrained network when there are none
func LoadNetwork(path string, size int) (*evaluator.Network, error) {
	if path == "" {
		return nil, errors.New("no network weights file given")
	}
	n, err := evaluator.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Msgf("no network at %s, starting untrained", path)
		return evaluator.NewNetwork(evaluator.DefaultNetworkConfig(size))
	}
	if err != nil {
		return nil, err
	}
	if got := n.Config().Size; got != size {
		return nil, fmt.Errorf("%s plays on %dx%d, not %dx%d", n.Name(), got, got, size, size)
	}
	return n, nil
}

// Score is the share of points the agent with id took in the games it played, one for a
// win and a half for a draw
func Score(result Result, id int) float64 {
	points, games := 0.0, 0
	for _, g := range result.Games {
		if g.Black != id && g.White != id {
			continue
		}
		games++
		switch {
		case g.Winner == 0:
			points += 0.5
		case (g.Winner > 0 && g.Black == id) || (g.Winner < 0 && g.White == id):
			points++
		}
	}
	if games == 0 {
		return 0
	}
	return points / float64(games)
}

// Promote stores the candidate's network as the best one when the candidate scored at
// least threshold in result, and reports whether it did.
func Promote(result Result, candidate metrics.AgentConfig, bestPath string, threshold float64) (bool, error) {
	score := Score(result, candidate.ID)
	if score < threshold {
		log.Info().Msgf("candidate %s scored %.3f, keeping %s", candidate.Network, score, bestPath)
		return false, nil
	}

	n, err := evaluator.LoadFile(candidate.Network)
	if err != nil {
		return false, fmt.Errorf("failed to load candidate: %w", err)
	}
	if err := n.SaveFile(bestPath); err != nil {
		return false, fmt.Errorf("failed to store best network: %w", err)
	}
	log.Info().Msgf("promoted %s with score %.3f to %s", n.Name(), score, bestPath)
	return true, nil
}
