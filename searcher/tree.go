package searcher

import (
	"fmt"
	"math"

	"pentago/game"
)

// tree is an arena of nodes. Everything not reachable from root is dropped by reroot.
type tree struct {
	nodes []node
	root  int
	// index holds the root's immediate children by state, for reuse after the opponent replies
	index map[game.StateHash][]int
}

func newTree(state game.State) *tree {
	t := &tree{
		nodes: []node{{state: state, parent: noParent}},
		root:  0,
	}
	t.indexChildren()
	return t
}

func (t *tree) size() int {
	return len(t.nodes)
}

// expand adds one child per distinct successor state. It is only called on nodes without children.
func (t *tree) expand(i int) {
	state := t.nodes[i].state
	moves := state.LegalMoves()
	if len(moves) == 0 {
		if state.IsTerminal() {
			return
		}
		panic(fmt.Errorf("expanding node %d: %w", i, game.ErrNoLegalMoves))
	}

	// Moves reaching the same state share one child, the first in move order
	seen := make(map[game.StateHash][]int, len(moves))
	children := make([]int, 0, len(moves))
	for _, move := range moves {
		next := state.Play(move)
		hash := next.Hash()
		if t.contains(seen[hash], next) {
			continue
		}
		t.nodes = append(t.nodes, node{
			state:  next,
			move:   move,
			parent: i,
		})
		child := len(t.nodes) - 1
		children = append(children, child)
		seen[hash] = append(seen[hash], child)
	}
	t.nodes[i].children = children
	if i == t.root {
		t.indexChildren()
	}
}

// selectLeaf descends by UCB1 until a node without children
func (t *tree) selectLeaf(c float64) int {
	i := t.root
	for len(t.nodes[i].children) > 0 {
		i = t.bestChild(i, c)
	}
	return i
}

func (t *tree) bestChild(i int, c float64) int {
	parentVisits := t.nodes[i].visits
	best := -1
	maxScore := math.Inf(-1)
	for _, child := range t.nodes[i].children {
		score := ucb1(t.nodes[child].winScore, t.nodes[child].visits, parentVisits, c)
		if score == math.Inf(1) { // First unvisited child in expansion order
			return child
		}
		if best == -1 || score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}

// mostWins is the root child with the highest accumulated win score, first one on ties
func (t *tree) mostWins() int {
	children := t.nodes[t.root].children
	if len(children) == 0 {
		return noParent
	}
	best := children[0]
	for _, child := range children[1:] {
		if t.nodes[child].winScore > t.nodes[best].winScore {
			best = child
		}
	}
	return best
}

// reroot keeps only the subtree under i, compacted in breadth-first order with i at index 0.
func (t *tree) reroot(i int) {
	order := []int{i}
	for k := 0; k < len(order); k++ {
		order = append(order, t.nodes[order[k]].children...)
	}

	remap := make(map[int]int, len(order))
	for newIndex, oldIndex := range order {
		remap[oldIndex] = newIndex
	}

	nodes := make([]node, len(order))
	for newIndex, oldIndex := range order {
		n := t.nodes[oldIndex]
		if newIndex == 0 {
			n.parent = noParent
		} else {
			n.parent = remap[n.parent]
		}
		if len(n.children) > 0 {
			children := make([]int, len(n.children))
			for j, child := range n.children {
				children[j] = remap[child]
			}
			n.children = children
		}
		nodes[newIndex] = n
	}

	t.nodes = nodes
	t.root = 0
	t.indexChildren()
}

func (t *tree) indexChildren() {
	t.index = make(map[game.StateHash][]int, len(t.nodes[t.root].children))
	for _, child := range t.nodes[t.root].children {
		hash := t.nodes[child].state.Hash()
		t.index[hash] = append(t.index[hash], child)
	}
}

func (t *tree) contains(candidates []int, state game.State) bool {
	for _, i := range candidates {
		if t.nodes[i].state.Equal(state) {
			return true
		}
	}
	return false
}

// find returns the node for state among the root and its children, or noParent.
func (t *tree) find(state game.State) int {
	if t.nodes[t.root].state.Equal(state) {
		return t.root
	}
	for _, child := range t.index[state.Hash()] {
		if t.nodes[child].state.Equal(state) {
			return child
		}
	}
	return noParent
}
