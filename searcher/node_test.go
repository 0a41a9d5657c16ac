package searcher

import (
	"errors"
	"testing"

	"deepchess/game"

	"github.com/stretchr/testify/require"
)

func TestTreeChildren(t *testing.T) {
	t.Run("expanding once in generation order", func(t *testing.T) {
		root := newMock("root", 0, newMock("a", 0), newMock("b", 0), newMock("c", 0))
		tree := NewTree(root)

		first, err := tree.Children(tree.Root())
		require.NoError(t, err)
		second, err := tree.Children(tree.Root())
		require.NoError(t, err)

		require.Equal(t, first, second, "Children should be cached")
		require.Equal(t, 3, *root.plays, "Each move should be played once")
		require.Equal(t, 4, tree.Len())
		for i, id := range first {
			node := tree.Node(id)
			require.Equal(t, root.children[i].id, node.Move.String())
			require.Equal(t, root.children[i], node.State)
			require.Zero(t, node.Visits)
			require.Zero(t, node.Score)
		}
	})

	t.Run("terminal nodes are never expanded", func(t *testing.T) {
		root := newTerminal("root", 1)
		root.children = []*mockState{newMock("a", 0)}
		tree := NewTree(root)

		children, err := tree.Children(tree.Root())

		require.NoError(t, err)
		require.Empty(t, children)
		require.True(t, tree.IsLeaf(tree.Root()))
		require.Zero(t, *root.plays)
		require.Equal(t, 1, tree.Len())
	})

	t.Run("rules engine errors propagate unchanged", func(t *testing.T) {
		failure := errors.New("broken rules")
		root := newMock("root", 0, newMock("a", 0))
		root.err = failure
		tree := NewTree(root)

		_, err := tree.Children(tree.Root())

		require.ErrorIs(t, err, failure)
		require.Equal(t, 1, tree.Len(), "A failed expansion should not add nodes")
	})

	t.Run("expanding a chess position", func(t *testing.T) {
		tree := NewTree(game.NewPosition())

		children, err := tree.Children(tree.Root())

		require.NoError(t, err)
		require.Len(t, children, 20)
		require.False(t, tree.IsLeaf(children[0]))
	})
}

func TestTreeCopy(t *testing.T) {
	t.Run("copy carries state, statistics and children", func(t *testing.T) {
		root := newMock("root", 0, newMock("a", 0), newMock("b", 0))
		tree := NewTree(root)
		tree.Node(tree.Root()).Visits = 4
		tree.Node(tree.Root()).Score = 2.5

		id, err := tree.Copy(tree.Root())

		require.NoError(t, err)
		require.NotEqual(t, tree.Root(), id)
		original, copied := tree.Node(tree.Root()), tree.Node(id)
		require.Equal(t, original.State, copied.State)
		require.Equal(t, 4, copied.Visits)
		require.Equal(t, 2.5, copied.Score)

		originalChildren, err := tree.Children(tree.Root())
		require.NoError(t, err)
		copiedChildren, err := tree.Children(id)
		require.NoError(t, err)
		require.Equal(t, originalChildren, copiedChildren)
		require.Equal(t, 2, *root.plays, "Copying should not expand again")
	})

	t.Run("mutating the copy leaves the source alone", func(t *testing.T) {
		tree := NewTree(newMock("root", 0, newMock("a", 0)))
		tree.Node(tree.Root()).Visits = 1

		id, err := tree.Copy(tree.Root())
		require.NoError(t, err)
		tree.Node(id).Visits = 10
		tree.Node(id).Score = 7

		require.Equal(t, 1, tree.Node(tree.Root()).Visits)
		require.Zero(t, tree.Node(tree.Root()).Score)
	})

	t.Run("copying a terminal node", func(t *testing.T) {
		tree := NewTree(newTerminal("root", 1))

		id, err := tree.Copy(tree.Root())

		require.NoError(t, err)
		require.True(t, tree.IsLeaf(id))
		children, err := tree.Children(id)
		require.NoError(t, err)
		require.Empty(t, children)
	})
}

func TestNodeAverage(t *testing.T) {
	require.Zero(t, (&Node{}).Average())
	require.Equal(t, 0.25, (&Node{Visits: 4, Score: 1}).Average())
}
