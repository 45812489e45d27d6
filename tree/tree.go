// Package tree builds and walks the breadth-first public game tree that
// every solver operates on. Unrolling stops at a configured depth or at a
// terminal state, whichever comes first; nodes past the cutoff are
// "pseudo-leaves" resolved later by the external value network.
//
// Grounded on original_source's tree.h/tree_test.cc (unroll_tree, the BFS
// contiguous-children layout, and the depth-prefix invariant exercised by
// TestTreeIsBreadthFirst) — tree.h/tree.cc are not present in the example
// pack, so the Node layout and Unroll implementation here are written
// directly from that test file's expectations and the depth/children
// bookkeeping tree_test.cc exercises, in a plain-struct, no-pointers style
// (nolimitholdem's GameState is likewise a flat, comparable value type
// rather than a linked structure).
package tree

import "tossholdem/game"

// Node is one entry in the flattened, breadth-first game tree. Children of
// a node occupy the contiguous index range [ChildrenBegin, ChildrenEnd) in
// the same Tree.Nodes slice.
type Node struct {
	State         game.PublicState
	Parent        int
	Depth         int
	ChildrenBegin int
	ChildrenEnd   int
	// FirstAction is the action that leads to Children[0]; Children[i]
	// corresponds to action FirstAction+i, since legal actions at any
	// state form one contiguous range (game.LegalActionRange).
	FirstAction game.Action
}

// NumChildren reports how many children this node has.
func (n Node) NumChildren() int {
	return n.ChildrenEnd - n.ChildrenBegin
}

// IsLeaf reports whether this node was not expanded further, either
// because it is a terminal game state or because the unroll depth cutoff
// was reached. PseudoLeaf distinguishes the two cases.
func (n Node) IsLeaf() bool {
	return n.ChildrenBegin == n.ChildrenEnd
}

// PseudoLeaf reports whether this leaf needs a value-network query (it is
// a leaf but not a terminal game state).
func (n Node) PseudoLeaf() bool {
	return n.IsLeaf() && !game.IsTerminal(n.State)
}

// Tree is an immutable, breadth-first flattening of the public game tree
// rooted at Nodes[0].
type Tree struct {
	Nodes []Node
}

// Unroll builds the breadth-first tree rooted at root, expanding every
// node whose depth is less than maxDepth and which is not terminal. The
// returned tree satisfies the prefix invariant: for any maxDepth' <
// maxDepth, Unroll(root, maxDepth') is index-for-index identical over the
// nodes it holds (per tree_test.cc's TestTreeIsBreadthFirst).
func Unroll(root game.PublicState, maxDepth int) Tree {
	nodes := []Node{{State: root, Parent: -1, Depth: 0}}

	// nodes[i:] holds nodes already appended but not yet expanded; BFS
	// processes them in order so sibling groups stay contiguous and
	// children always sort after their parents.
	for i := 0; i < len(nodes); i++ {
		node := nodes[i]
		if node.Depth >= maxDepth || game.IsTerminal(node.State) {
			continue
		}

		lo, hi := game.LegalActionRange(node.State)
		begin := len(nodes)
		for a := lo; a < hi; a++ {
			child := Node{
				State:  game.Act(node.State, a),
				Parent: i,
				Depth:  node.Depth + 1,
			}
			nodes = append(nodes, child)
		}
		nodes[i].ChildrenBegin = begin
		nodes[i].ChildrenEnd = len(nodes)
		nodes[i].FirstAction = lo
	}

	return Tree{Nodes: nodes}
}

// Children returns the index range of node i's children.
func (t Tree) Children(i int) (begin, end int) {
	return t.Nodes[i].ChildrenBegin, t.Nodes[i].ChildrenEnd
}

// ActionForChild returns the action that produced child index c of node i.
func (t Tree) ActionForChild(i, c int) game.Action {
	return t.Nodes[i].FirstAction + game.Action(c-t.Nodes[i].ChildrenBegin)
}

// ChildAction pairs a child node index with the action that produced it.
type ChildAction struct {
	Node   int
	Action game.Action
}

// ChildrenActions returns node i's children paired with their producing
// actions, mirroring subgame_solving.cc's ChildrenActionIt range adaptor
// for callers that want both without a separate ActionForChild call per
// child.
func (t Tree) ChildrenActions(i int) []ChildAction {
	begin, end := t.Children(i)
	out := make([]ChildAction, end-begin)
	for c := begin; c < end; c++ {
		out[c-begin] = ChildAction{Node: c, Action: t.ActionForChild(i, c)}
	}
	return out
}
