package agent

import (
	"fmt"
	"renju/experiments/metrics"
	"renju/game"
	"renju/searcher"
)

type EvaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation. It
// always plays the most visited move.
func NewEvaluationAgent(mcts *searcher.MCTS) *EvaluationAgent {
	return &EvaluationAgent{mcts: mcts}
}

func (a *EvaluationAgent) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	a.mcts.Follow(board.Moves())
	metric, err := a.mcts.Search(board)
	if err != nil {
		return -1, metric, fmt.Errorf("failed to search: %w", err)
	}
	move, err := a.mcts.BestMove()
	if err != nil {
		return -1, metric, err
	}
	return move, metric, nil
}

func (a *EvaluationAgent) Reset() {
	a.mcts.Reset()
}
