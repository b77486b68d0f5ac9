package searcher

import (
	"math"
)

// Node owns its children; parent is a plain back-reference used for backup and retract.
type Node struct {
	parent   *Node
	move     int
	moves    []int // Children in insertion order
	children map[int]*Node
	prior    float64
	visits   int
	valueSum float64
	value    float64
}

func newRoot() *Node {
	return &Node{move: -1, prior: 1.0}
}

func newNode(parent *Node, move int, prior float64) *Node {
	return &Node{parent: parent, move: move, prior: prior}
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) Move() int {
	return n.move
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Prior() float64 {
	return n.prior
}

func (n *Node) Visits() int {
	return n.visits
}

func (n *Node) ValueSum() float64 {
	return n.valueSum
}

// Value is the mean backed up value, 0 before the first visit
func (n *Node) Value() float64 {
	return n.value
}

func (n *Node) Child(move int) (*Node, bool) {
	child, ok := n.children[move]
	return child, ok
}

// Moves lists the expanded moves in the order they were added
func (n *Node) Moves() []int {
	moves := make([]int, len(n.moves))
	copy(moves, n.moves)
	return moves
}

func (n *Node) score(cPuct float64) float64 {
	parentVisits := 0
	if n.parent != nil {
		parentVisits = n.parent.visits
	}
	return puct(n.value, n.prior, parentVisits, n.visits, cPuct)
}

// SelectChild returns the child with the highest PUCT score. Equal scores resolve to the
// child expanded first.
func (n *Node) SelectChild(cPuct float64) (int, *Node) {
	maxMove := -1
	var maxChild *Node
	maxScore := math.Inf(-1)
	for _, move := range n.moves {
		child := n.children[move]
		score := child.score(cPuct)
		if maxChild == nil || score > maxScore {
			maxScore = score
			maxMove = move
			maxChild = child
		}
	}
	return maxMove, maxChild
}

// Expand adds one child per strictly positive prior, in ascending move order, and
// returns how many were added. Expanded nodes are never expanded again.
func (n *Node) Expand(priors []float64) int {
	if !n.IsLeaf() {
		return 0
	}
	n.children = make(map[int]*Node)
	for move, p := range priors {
		if p <= 0 {
			continue
		}
		n.children[move] = newNode(n, move, p)
		n.moves = append(n.moves, move)
	}
	return len(n.moves)
}

// Backup records one visit with value and returns the parent
func (n *Node) Backup(value float64) *Node {
	n.visits++
	n.valueSum += value
	n.value = n.valueSum / float64(n.visits)
	return n.parent
}

// size counts the nodes of the subtree
func (n *Node) size() int {
	count := 1
	for _, child := range n.children {
		count += child.size()
	}
	return count
}
