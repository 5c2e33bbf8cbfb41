package searcher

import (
	"errors"
	"fmt"

	"pentago/book"
	"pentago/game"
)

var ErrEmptyTree = errors.New("no tree to snapshot")

// Snapshot writes the tree under the current root in pre-order.
func (m *MCTS) Snapshot(codec game.Codec) (*book.Book, error) {
	if m.tree == nil {
		return nil, ErrEmptyTree
	}

	b := book.New(codec.Name())
	b.Nodes = make([]book.Node, 0, m.tree.size())

	type frame struct{ index, parent int }
	stack := []frame{{index: m.tree.root, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := m.tree.nodes[f.index]

		state, err := codec.EncodeState(n.state)
		if err != nil {
			return nil, fmt.Errorf("snapshot of node %d: %w", f.index, err)
		}
		var move []byte
		if f.parent != -1 {
			if move, err = codec.EncodeMove(n.move); err != nil {
				return nil, fmt.Errorf("snapshot of node %d: %w", f.index, err)
			}
		}
		b.Nodes = append(b.Nodes, book.Node{
			Parent:   f.parent,
			Move:     move,
			State:    state,
			Visits:   n.visits,
			WinScore: n.winScore,
		})

		// Push in reverse so that children keep their expansion order
		position := len(b.Nodes) - 1
		for k := len(n.children) - 1; k >= 0; k-- {
			stack = append(stack, frame{index: n.children[k], parent: position})
		}
	}
	return b, nil
}

// Restore replaces the tree with the one in b. The search keeps its options.
func (m *MCTS) Restore(b *book.Book, codec game.Codec) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Game != codec.Name() {
		return fmt.Errorf("%w: book is for %q, not %q", book.ErrMalformedBook, b.Game, codec.Name())
	}

	nodes := make([]node, len(b.Nodes))
	for i, bn := range b.Nodes {
		state, err := codec.DecodeState(bn.State)
		if err != nil {
			return fmt.Errorf("restoring node %d: %w", i, err)
		}
		nodes[i].state = state
		nodes[i].parent = bn.Parent
		nodes[i].visits = bn.Visits
		nodes[i].winScore = bn.WinScore
		if i == 0 {
			continue
		}
		// Parents precede their children, so children lists keep expansion order
		if nodes[i].move, err = codec.DecodeMove(bn.Move); err != nil {
			return fmt.Errorf("restoring node %d: %w", i, err)
		}
		nodes[bn.Parent].children = append(nodes[bn.Parent].children, i)
	}

	m.tree = &tree{nodes: nodes, root: 0}
	m.tree.indexChildren()
	return nil
}
