package experiments

import (
	"path/filepath"
	"renju/evaluator"
	"renju/experiments/metrics"
	"testing"

	"github.com/stretchr/testify/require"
)

func saveNetwork(t *testing.T, path string, size int) *evaluator.Network {
	t.Helper()
	config := evaluator.DefaultNetworkConfig(size)
	config.Hidden = []int{4}
	n, err := evaluator.NewNetwork(config)
	require.NoError(t, err)
	require.NoError(t, n.SaveFile(path))
	return n
}

func TestNewEvaluatorFactory(t *testing.T) {
	dir := t.TempDir()
	candidate := filepath.Join(dir, "candidate.json.zst")
	best := filepath.Join(dir, "best.json.zst")
	saveNetwork(t, candidate, 5)
	saveNetwork(t, best, 5)
	factory := NewEvaluatorFactory(5)

	t.Run("builtin evaluators", func(t *testing.T) {
		e, err := factory(metrics.AgentConfig{Evaluator: "uniform"})
		require.NoError(t, err)
		require.IsType(t, evaluator.Uniform{}, e)

		e, err = factory(metrics.AgentConfig{Evaluator: "heuristic"})
		require.NoError(t, err)
		require.IsType(t, evaluator.Heuristic{}, e)

		_, err = factory(metrics.AgentConfig{Evaluator: "oracle"})
		require.Error(t, err)
	})

	t.Run("each weights file is loaded once", func(t *testing.T) {
		first, err := factory(metrics.AgentConfig{Evaluator: "network", Network: candidate})
		require.NoError(t, err)
		again, err := factory(metrics.AgentConfig{Evaluator: "network", Network: candidate})
		require.NoError(t, err)
		other, err := factory(metrics.AgentConfig{Evaluator: "network", Network: best})
		require.NoError(t, err)

		require.Same(t, first, again)
		require.NotSame(t, first, other, "Both sides of a match should get their own network")
	})
}

func TestLoadNetwork(t *testing.T) {
	t.Run("missing weights start an untrained network", func(t *testing.T) {
		n, err := LoadNetwork(filepath.Join(t.TempDir(), "none.json.zst"), 6)
		require.NoError(t, err)
		require.Equal(t, 6, n.Config().Size)
		require.Equal(t, 0, n.Config().Version)
	})

	t.Run("weights for another board are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "net.json.zst")
		saveNetwork(t, path, 5)

		_, err := LoadNetwork(path, 7)
		require.Error(t, err)
	})

	t.Run("needs a path", func(t *testing.T) {
		_, err := LoadNetwork("", 5)
		require.Error(t, err)
	})
}

func matchResult(winners ...int) Result {
	result := Result{}
	for i, w := range winners {
		g := metrics.GameRecord{ID: i + 1, Black: 1, White: 2}
		if i%2 == 1 {
			g.Black, g.White = 2, 1
		}
		g.Winner = w
		result.Games = append(result.Games, g)
	}
	return result
}

func TestScore(t *testing.T) {
	// Agent 1 plays Black in games 1 and 3: wins both, loses game 2 as White, draws game 4
	result := matchResult(1, 1, 1, 0)

	require.InDelta(t, 2.5/4, Score(result, 1), 1e-12)
	require.InDelta(t, 1.5/4, Score(result, 2), 1e-12)
	require.Equal(t, 0.0, Score(result, 3))
}

func TestPromote(t *testing.T) {
	dir := t.TempDir()
	candidatePath := filepath.Join(dir, "candidate.json.zst")
	bestPath := filepath.Join(dir, "best.json.zst")
	candidate := saveNetwork(t, candidatePath, 5)
	saveNetwork(t, bestPath, 5)
	config := metrics.AgentConfig{ID: 1, Evaluator: "network", Network: candidatePath}

	t.Run("a weak candidate leaves the best network alone", func(t *testing.T) {
		promoted, err := Promote(matchResult(-1, 1, 0, 1), config, bestPath, 0.55)

		require.NoError(t, err)
		require.False(t, promoted)
		best, err := evaluator.LoadFile(bestPath)
		require.NoError(t, err)
		require.NotEqual(t, candidate.Config().PolicyWeights, best.Config().PolicyWeights)
	})

	t.Run("a strong candidate becomes the best network", func(t *testing.T) {
		promoted, err := Promote(matchResult(1, -1, 1, 0), config, bestPath, 0.55)

		require.NoError(t, err)
		require.True(t, promoted)
		best, err := evaluator.LoadFile(bestPath)
		require.NoError(t, err)
		require.Equal(t, candidate.Config().PolicyWeights, best.Config().PolicyWeights)
	})

	t.Run("a missing candidate fails", func(t *testing.T) {
		missing := config
		missing.Network = filepath.Join(dir, "missing.json.zst")

		_, err := Promote(matchResult(1, -1), missing, bestPath, 0.5)
		require.Error(t, err)
	})
}
