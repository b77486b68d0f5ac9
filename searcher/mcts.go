package searcher

import (
	"fmt"
	"math"
	"renju/experiments/metrics"
	"renju/game"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

type Option func(mcts *MCTS)

// MCTS is a single-threaded PUCT search tree. The root is kept across moves so that
// statistics gathered for the position the game reaches are reused.
type MCTS struct {
	evaluator Evaluator
	cPuct     float64
	duration  time.Duration
	episodes  int
	cells     int
	root      *Node
	line      []int // Moves from the empty board to the root position
	src       rand.Source
	metrics   metrics.Collector
	logger    zerolog.Logger
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCPuct(cPuct float64) Option {
	return func(m *MCTS) {
		if cPuct > 0 {
			m.cPuct = cPuct
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.src = rand.NewSource(seed)
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *MCTS) {
		m.logger = logger
	}
}

func NewMCTS(evaluator Evaluator, options ...Option) *MCTS {
	if evaluator == nil {
		panic("Must specify an evaluator")
	}
	m := &MCTS{ // Default values
		evaluator: evaluator,
		cPuct:     CPuct,
		root:      newRoot(),
		src:       rand.NewSource(uint64(time.Now().UnixNano())),
		metrics:   metrics.NewDummyCollector(),
		logger:    log.Logger,
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

func (m *MCTS) Root() *Node {
	return m.root
}

// Size is the number of nodes under the root, root included
func (m *MCTS) Size() int {
	return m.root.size()
}

// Line returns the moves leading to the root position
func (m *MCTS) Line() []int {
	line := make([]int, len(m.line))
	copy(line, m.line)
	return line
}

// Search runs the configured budget from the root, which must correspond to board
func (m *MCTS) Search(board *game.Board) (metrics.SearchMetric, error) {
	m.metrics.Start()
	var err error
	if m.episodes > 0 {
		err = m.Simulate(board, m.episodes)
	} else if m.duration > 0 {
		err = m.countdown(board)
	} else {
		panic("Must specify search episodes or duration")
	}
	metric := m.metrics.Complete(m.root.size())
	return metric, err
}

func (m *MCTS) countdown(board *game.Board) error {
	deadline := time.Now().Add(m.duration)
	if err := m.Simulate(board, 1); err != nil {
		return err
	}
	for time.Now().Before(deadline) {
		if err := m.simulate(board); err != nil {
			return err
		}
		m.metrics.AddSimulation()
	}
	return nil
}

// Simulate runs budget simulations on clones of board. An unexpanded root is expanded
// and visited once first so that every simulation starts by selecting a root child.
func (m *MCTS) Simulate(board *game.Board, budget int) error {
	if decided(board) {
		return ErrTerminalPosition
	}
	if m.cells != board.CellCount() {
		if m.cells != 0 {
			m.logger.Warn().Msgf("board size changed from %d to %d cells, resetting tree", m.cells, board.CellCount())
		}
		m.fresh()
		m.cells = board.CellCount()
	}

	if m.root.IsLeaf() {
		v, err := m.expand(m.root, board)
		if err != nil {
			return err
		}
		// The expansion counts as the root's first visit
		m.root.Backup(v)
	}

	for i := 0; i < budget; i++ {
		if err := m.simulate(board); err != nil {
			return err
		}
		m.metrics.AddSimulation()
	}
	return nil
}

// simulate performs one select, expand and backup pass
func (m *MCTS) simulate(board *game.Board) error {
	b := board.Clone()
	node := m.root
	depth := 0
	for !node.IsLeaf() {
		move, child := node.SelectChild(m.cPuct)
		if err := b.Move(move); err != nil {
			return fmt.Errorf("%w: replaying selected move %d: %w", ErrInvariantViolation, move, err)
		}
		node = child
		depth++
	}
	m.metrics.ObserveDepth(depth)

	var value float64
	last, moved := b.LastMove()
	switch {
	case depth > 0 && moved && b.CheckWin(last):
		m.metrics.AddTerminal()
		value = WIN
	case b.IsFull():
		m.metrics.AddTerminal()
		value = DRAW
	default:
		v, err := m.expand(node, b)
		if err != nil {
			return err
		}
		value = v
	}

	m.backup(node, value)
	return nil
}

// backup adds value to every node from leaf up to the root
func (m *MCTS) backup(leaf *Node, value float64) {
	node := leaf
	for node != nil {
		parent := node.Backup(value)
		if node == m.root {
			return
		}
		node = parent
	}
}

// expand evaluates b, masks occupied cells out of the priors and expands node with the
// renormalized result. It returns the evaluator's value clamped to [-1, 1].
func (m *MCTS) expand(node *Node, b *game.Board) (float64, error) {
	priors, value, err := m.evaluator.Evaluate(b.EncodeFeatures(b.Current(), 0))
	m.metrics.AddEvaluation()
	if err != nil {
		return 0, fmt.Errorf("%w: evaluator failed: %w", ErrInvariantViolation, err)
	}
	if len(priors) != b.CellCount() {
		return 0, fmt.Errorf("%w: evaluator returned %d priors for %d cells", ErrInvariantViolation, len(priors), b.CellCount())
	}
	if math.IsNaN(value) {
		return 0, fmt.Errorf("%w: evaluator returned a NaN value", ErrInvariantViolation)
	}

	masked := make([]float64, len(priors))
	for i, p := range priors {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return 0, fmt.Errorf("%w: evaluator returned prior %v for cell %d", ErrInvariantViolation, p, i)
		}
		if b.IsEmpty(i) {
			masked[i] = p
		}
	}

	sum := floats.Sum(masked)
	if sum <= 0 {
		m.logger.Warn().Msgf("priors vanish on the %d empty cells, falling back to uniform", b.CellCount()-b.MoveCount())
		for i := range masked {
			if b.IsEmpty(i) {
				masked[i] = 1
			}
		}
		sum = floats.Sum(masked)
	}
	floats.Scale(1/sum, masked)
	node.Expand(masked)

	return math.Max(-1, math.Min(1, value)), nil
}

// MoveDistribution converts root visit counts into move probabilities sharpened by
// 1/temperature. A non-positive temperature puts all mass on the most visited move.
func (m *MCTS) MoveDistribution(temperature float64) ([]float64, error) {
	visits := make([]float64, m.cells)
	for move, child := range m.root.children {
		visits[move] = float64(child.visits)
	}
	if len(visits) == 0 || floats.Max(visits) <= 0 {
		return nil, ErrNoVisits
	}

	dist := make([]float64, len(visits))
	if temperature <= 0 {
		dist[floats.MaxIdx(visits)] = 1
		return dist, nil
	}

	exponent := 1 / temperature
	if math.IsInf(exponent, 0) {
		exponent = math.MaxFloat64
	}
	for {
		for i, v := range visits {
			dist[i] = math.Pow(v, exponent)
		}
		sum := floats.Sum(dist)
		if sum > 0 && !math.IsInf(sum, 0) && !math.IsNaN(sum) {
			floats.Scale(1/sum, dist)
			return dist, nil
		}
		exponent /= 2
	}
}

// SampleMove draws a move from dist. With noiseRate > 0 the distribution is first mixed
// with Dirichlet noise; occupied cells are always masked out.
func (m *MCTS) SampleMove(board *game.Board, dist []float64, noiseRate float64) (int, error) {
	if len(dist) != board.CellCount() {
		return -1, fmt.Errorf("%w: distribution over %d cells for a board of %d", ErrInvariantViolation, len(dist), board.CellCount())
	}
	p := make([]float64, len(dist))
	copy(p, dist)

	if noiseRate > 0 {
		alpha := make([]float64, len(p))
		for i := range alpha {
			alpha[i] = DirichletScale / float64(len(p))
		}
		noise := distmv.NewDirichlet(alpha, m.src).Rand(nil)
		if floats.HasNaN(noise) {
			m.logger.Debug().Msg("dirichlet sample underflowed, sampling without noise")
		} else {
			floats.Scale(1-noiseRate, p)
			floats.AddScaled(p, noiseRate, noise)
		}
	}

	for i := range p {
		if !board.IsEmpty(i) {
			p[i] = 0
		}
	}
	sum := floats.Sum(p)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return -1, ErrEmptyDistribution
	}
	floats.Scale(1/sum, p)

	return int(distuv.NewCategorical(p, m.src).Rand()), nil
}

// BestMove returns the most visited root child, the first expanded on ties
func (m *MCTS) BestMove() (int, error) {
	best, visits := -1, 0
	for _, move := range m.root.moves {
		if child := m.root.children[move]; child.visits > visits {
			best, visits = move, child.visits
		}
	}
	if best < 0 {
		return -1, ErrNoVisits
	}
	return best, nil
}

// Advance moves the root two plies down. It reports whether statistics were kept; when
// either move was never expanded the tree starts over from a fresh root.
func (m *MCTS) Advance(own, opp int) bool {
	m.line = append(m.line, own, opp)
	if child, ok := m.root.Child(own); ok {
		if grandChild, ok := child.Child(opp); ok {
			m.reroot(grandChild)
			return true
		}
	}
	m.fresh()
	return false
}

// AdvanceOne moves the root one ply down
func (m *MCTS) AdvanceOne(move int) bool {
	m.line = append(m.line, move)
	if child, ok := m.root.Child(move); ok {
		m.reroot(child)
		return true
	}
	m.fresh()
	return false
}

// Retract undoes a two ply Advance. The previous root is restored with its statistics when
// it is still linked, otherwise the tree starts over.
func (m *MCTS) Retract() bool {
	if len(m.line) < 2 {
		m.line = m.line[:0]
		m.fresh()
		return false
	}
	m.line = m.line[:len(m.line)-2]

	if parent := m.root.parent; parent != nil && parent.parent != nil {
		m.root = parent.parent
		m.logger.Debug().Msgf("retracted root to ply %d with %d visits", len(m.line), m.root.visits)
		return true
	}
	m.fresh()
	return false
}

// Reset discards the whole tree
func (m *MCTS) Reset() {
	m.line = m.line[:0]
	m.fresh()
	m.metrics.SetTreeReset(true)
}

// Follow brings the root to the position reached by moves, retracting while the current
// line diverges and advancing along the rest. It reports whether the resulting root
// carries statistics from earlier searches.
func (m *MCTS) Follow(moves []int) bool {
	for !isPrefix(m.line, moves) {
		m.Retract()
	}
	rest := moves[len(m.line):]
	for len(rest) >= 2 {
		m.Advance(rest[0], rest[1])
		rest = rest[2:]
	}
	if len(rest) == 1 {
		m.AdvanceOne(rest[0])
	}

	reused := !m.root.IsLeaf()
	m.metrics.SetTreeReset(!reused)
	return reused
}

func (m *MCTS) reroot(node *Node) {
	m.root.parent = nil
	m.root = node
	m.logger.Debug().Msgf("reusing subtree at ply %d with %d visits", len(m.line), node.visits)
}

func (m *MCTS) fresh() {
	m.root.parent = nil
	m.root = newRoot()
}

func isPrefix(prefix, moves []int) bool {
	if len(prefix) > len(moves) {
		return false
	}
	for i, move := range prefix {
		if moves[i] != move {
			return false
		}
	}
	return true
}

// decided reports whether the game on board is already won or drawn
func decided(board *game.Board) bool {
	if board.Winner() != game.Empty || board.IsFull() {
		return true
	}
	last, ok := board.LastMove()
	return ok && board.Clone().CheckWin(last)
}
