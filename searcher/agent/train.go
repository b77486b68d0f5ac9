package agent

import (
	"fmt"
	"renju/evaluator"
	"renju/experiments/metrics"
	"renju/game"
	"renju/searcher"
)

// step is a searched position recorded for training
type step struct {
	Features game.Features
	Policy   []float64
	Player   game.Color
}

type TrainingAgent struct {
	mcts      *searcher.MCTS
	schedule  searcher.TemperatureSchedule
	noiseRate float64
	steps     []step
}

// NewTrainingAgent returns a new agent for self-play during training. Moves are sampled
// from the temperature adjusted visit distribution mixed with Dirichlet noise.
func NewTrainingAgent(mcts *searcher.MCTS, schedule searcher.TemperatureSchedule, noiseRate float64) *TrainingAgent {
	return &TrainingAgent{mcts: mcts, schedule: schedule, noiseRate: noiseRate}
}

func (a *TrainingAgent) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	a.mcts.Follow(board.Moves())
	metric, err := a.mcts.Search(board)
	if err != nil {
		return -1, metric, fmt.Errorf("failed to search: %w", err)
	}

	dist, err := a.mcts.MoveDistribution(a.schedule.At(board.MoveCount()))
	if err != nil {
		return -1, metric, fmt.Errorf("failed to compute move distribution: %w", err)
	}
	a.steps = append(a.steps, step{
		Features: board.EncodeFeatures(board.Current(), 0),
		Policy:   dist,
		Player:   board.Current(),
	})

	move, err := a.mcts.SampleMove(board, dist, a.noiseRate)
	if err != nil {
		return -1, metric, fmt.Errorf("failed to sample move: %w", err)
	}
	return move, metric, nil
}

// Examples labels every recorded step with the outcome for the player who moved there
func (a *TrainingAgent) Examples(winner game.Color) []evaluator.Example {
	examples := make([]evaluator.Example, 0, len(a.steps))
	for _, s := range a.steps {
		examples = append(examples, evaluator.Example{
			Input:  s.Features.Flatten(),
			Policy: s.Policy,
			Value:  evaluator.Outcome(s.Player, winner),
		})
	}
	return examples
}

func (a *TrainingAgent) Reset() {
	a.mcts.Reset()
	a.steps = nil
}
