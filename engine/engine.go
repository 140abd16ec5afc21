package engine

import (
	"context"

	"connect4/experiments/metrics"
)

type Engine interface {
	// Run plays a game till there's a winner, the board is full or the max number of moves is reached
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
