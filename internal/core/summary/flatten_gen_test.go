package summary

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomTree builds a tree of at most maxDepth levels whose node texts are
// unique, so a flattened section can be traced back to its node.
func randomTree(r *rand.Rand, maxDepth int) (root Node, nodes, depth int) {
	var build func(level int) Node
	build = func(level int) Node {
		nodes++
		depth = max(depth, level+1)

		sentences := make([]string, 1+r.IntN(3))
		for i := range sentences {
			sentences[i] = fmt.Sprintf("n%d s%d.", nodes, i)
		}

		var children []Node
		if level+1 < maxDepth {
			// Biased towards leaves so uneven shapes are common.
			for range max(r.IntN(6)-1, 0) {
				children = append(children, build(level+1))
			}
		}
		return NewNode(sentences, children...)
	}
	root = build(0)
	return root, nodes, depth
}

func TestFlatten_GeneratedTrees(t *testing.T) {
	for seed := range uint64(200) {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			root, nodes, depth := randomTree(r, 1+r.IntN(6))

			tree := Flatten(root)
			require.NoError(t, tree.Validate())
			require.Len(t, tree, depth)

			require.Len(t, tree[0], 1)
			assert.Equal(t, root.Text, tree[0][0].Text, "root sits at (0,0)")

			total := 0
			for _, level := range tree {
				total += len(level)
			}
			assert.Equal(t, nodes, total, "every node is flattened exactly once")

			// Concatenated in section order, the child refs of a level
			// enumerate the next level exactly once, in ascending order.
			for l := 0; l+1 < len(tree); l++ {
				refs := collectRefs(tree[l])
				want := make([]int, len(tree[l+1]))
				for i := range want {
					want[i] = i
				}
				assert.Equal(t, want, refs, "level %d", l)
			}
			assert.Empty(t, collectRefs(tree[len(tree)-1]), "the deepest level has no children")

			var walk func(n Node, level, index int)
			walk = func(n Node, level, index int) {
				sec := tree[level][index]
				require.Equal(t, n.Text, sec.Text)
				require.Equal(t, n.SentenceIndices, sec.SentenceIndices)
				require.Len(t, sec.ChildrenInNextLevel, len(n.Children))
				for i, child := range n.Children {
					walk(child, level+1, sec.ChildrenInNextLevel[i])
				}
			}
			walk(root, 0, 0)
		})
	}
}

func collectRefs(level Level) []int {
	var refs []int
	for _, sec := range level {
		refs = append(refs, sec.ChildrenInNextLevel...)
	}
	return refs
}
