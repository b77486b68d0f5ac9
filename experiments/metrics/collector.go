package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration    time.Duration
	Simulations int
	Evaluations int
	Terminals   int // Simulations ending on a won or drawn board
	MaxDepth    int
	TreeSize    int
	IsTreeReset bool
}

type MoveMetric struct {
	Step   int
	Player int // 1 for black, -1 for white
	Move   int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // 0 on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type AgentConfig struct {
	ID        int
	Episodes  int
	Duration  time.Duration
	CPuct     float64
	Evaluator string
	Network   string // Weights file when Evaluator is "network"
	NoiseRate float64
}

type Collector interface {
	Start()
	SetTreeReset(value bool)
	AddSimulation()
	AddEvaluation()
	AddTerminal()
	ObserveDepth(depth int)
	Complete(treeSize int) SearchMetric
}

type collector struct {
	startTime   time.Time
	simulations atomic.Int32
	evaluations atomic.Int32
	terminals   atomic.Int32
	maxDepth    atomic.Int32
	isTreeReset atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.simulations.Store(0)
	m.evaluations.Store(0)
	m.terminals.Store(0)
	m.maxDepth.Store(0)
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *collector) ObserveDepth(depth int) {
	for {
		current := m.maxDepth.Load()
		if int32(depth) <= current || m.maxDepth.CompareAndSwap(current, int32(depth)) {
			return
		}
	}
}

func (m *collector) Complete(treeSize int) SearchMetric {
	return SearchMetric{
		Duration:    time.Since(m.startTime),
		Simulations: int(m.simulations.Load()),
		Evaluations: int(m.evaluations.Load()),
		Terminals:   int(m.terminals.Load()),
		MaxDepth:    int(m.maxDepth.Load()),
		TreeSize:    treeSize,
		IsTreeReset: m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                             {}
func (m *dummyCollector) SetTreeReset(value bool)            {}
func (m *dummyCollector) AddSimulation()                     {}
func (m *dummyCollector) AddEvaluation()                     {}
func (m *dummyCollector) AddTerminal()                       {}
func (m *dummyCollector) ObserveDepth(depth int)             {}
func (m *dummyCollector) Complete(treeSize int) SearchMetric { return SearchMetric{TreeSize: treeSize} }
