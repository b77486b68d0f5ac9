package agent

import (
	"renju/experiments/metrics"
	"renju/game"
)

type Agent interface {
	// FindMove searches the position on board and returns the chosen move with the
	// search metrics (if collected). The board is not modified.
	FindMove(board *game.Board) (int, metrics.SearchMetric, error)
	// Reset drops everything learned about the current game
	Reset()
}
