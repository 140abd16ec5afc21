package metrics

import (
	"sync/atomic"
	"time"

	"connect4/game"

	"github.com/google/uuid"
)

type MoveMetric struct {
	Step     int
	Player   int // Player ID
	Column   int
	Reward   int
	Duration time.Duration // Time the agent took to pick the move
	Hash     game.StateHash // State after the move
}

type GameMetric struct {
	ID             uuid.UUID
	StartingPlayer int    // Player ID
	Winner         string // "" on a draw or an unfinished game
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Rejected       int // Actions the environment refused
}

type Collector interface {
	Start(startingPlayer int)
	AddMove(move MoveMetric)
	AddRejected()
	Complete(winner string) (GameMetric, []MoveMetric)
}

type collector struct {
	id             uuid.UUID
	startingPlayer int
	startTime      time.Time
	moves          []MoveMetric
	rejected       atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(startingPlayer int) {
	m.id = uuid.New()
	m.startingPlayer = startingPlayer
	m.startTime = time.Now()
	m.moves = nil
	m.rejected.Store(0)
}

func (m *collector) AddMove(move MoveMetric) {
	m.moves = append(m.moves, move)
}

func (m *collector) AddRejected() {
	m.rejected.Add(1)
}

func (m *collector) Complete(winner string) (GameMetric, []MoveMetric) {
	end := time.Now()
	return GameMetric{
		ID:             m.id,
		StartingPlayer: m.startingPlayer,
		Winner:         winner,
		StartTime:      m.startTime,
		EndTime:        end,
		Duration:       end.Sub(m.startTime),
		TotalMoves:     len(m.moves),
		Rejected:       int(m.rejected.Load()),
	}, m.moves
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(startingPlayer int) {}
func (m *dummyCollector) AddMove(move MoveMetric) {}
func (m *dummyCollector) AddRejected()            {}
func (m *dummyCollector) Complete(winner string) (GameMetric, []MoveMetric) {
	return GameMetric{Winner: winner}, nil
}
