package engine

import (
	"renju/experiments/metrics"
	"renju/game"
)

type Engine interface {
	// Run plays a game till five in a row or a full board. The winner is game.Empty on a draw.
	Run() (winner game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
