package agent

import (
	"renju/evaluator"
	"renju/game"
	"renju/searcher"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func newMCTS(episodes int) *searcher.MCTS {
	return searcher.NewMCTS(evaluator.Uniform{}, searcher.WithEpisodes(episodes), searcher.WithSeed(5))
}

func TestTrainingAgent(t *testing.T) {
	schedule := searcher.TemperatureSchedule{High: 1, Low: 0.01, Threshold: 2}

	t.Run("records one step per move", func(t *testing.T) {
		a := NewTrainingAgent(newMCTS(40), schedule, 0.25)
		b := game.NewBoard(7)

		for i := 0; i < 3; i++ {
			move, _, err := a.FindMove(b)
			require.NoError(t, err)
			require.True(t, b.IsEmpty(move))
			require.NoError(t, b.Move(move))
		}

		steps := a.steps
		require.Len(t, steps, 3)
		require.Equal(t, game.Black, steps[0].Player)
		require.Equal(t, game.White, steps[1].Player)
		for _, step := range steps {
			require.Len(t, step.Policy, 49)
			require.InDelta(t, 1.0, floats.Sum(step.Policy), 1e-9)
		}
	})

	t.Run("labels examples with the outcome for the mover", func(t *testing.T) {
		a := NewTrainingAgent(newMCTS(10), schedule, 0)
		b := game.NewBoard(7)
		for i := 0; i < 2; i++ {
			move, _, err := a.FindMove(b)
			require.NoError(t, err)
			require.NoError(t, b.Move(move))
		}

		examples := a.Examples(game.White)
		require.Len(t, examples, 2)
		require.Equal(t, -1.0, examples[0].Value)
		require.Equal(t, 1.0, examples[1].Value)
		require.Len(t, examples[0].Input, game.FeaturePlanes*49)

		for _, ex := range a.Examples(game.Empty) {
			require.Equal(t, 0.0, ex.Value)
		}
	})

	t.Run("reset forgets the game", func(t *testing.T) {
		a := NewTrainingAgent(newMCTS(10), schedule, 0)
		_, _, err := a.FindMove(game.NewBoard(7))
		require.NoError(t, err)

		a.Reset()

		require.Empty(t, a.steps)
	})
}

func TestEvaluationAgent(t *testing.T) {
	t.Run("plays the most visited move", func(t *testing.T) {
		m := newMCTS(50)
		a := NewEvaluationAgent(m)
		b := game.NewBoard(7)

		move, metric, err := a.FindMove(b)

		require.NoError(t, err)
		best, err := m.BestMove()
		require.NoError(t, err)
		require.Equal(t, best, move)
		require.False(t, metric.IsTreeReset)
	})

	t.Run("completes a five when one is open", func(t *testing.T) {
		a := NewEvaluationAgent(searcher.NewMCTS(evaluator.NewHeuristic(), searcher.WithEpisodes(50)))
		b := game.NewBoard(9)
		for _, m := range []int{0, 18, 1, 19, 2, 20, 3, 30} {
			require.NoError(t, b.Move(m))
		}

		move, _, err := a.FindMove(b)

		require.NoError(t, err)
		require.Equal(t, 4, move)
	})

	t.Run("searching a decided position fails", func(t *testing.T) {
		a := NewEvaluationAgent(newMCTS(5))
		b := game.NewBoard(9)
		for _, m := range []int{0, 18, 1, 19, 2, 20, 3, 21, 4} {
			require.NoError(t, b.Move(m))
		}

		_, _, err := a.FindMove(b)
		require.ErrorIs(t, err, searcher.ErrTerminalPosition)
	})
}
