package summary

// Flatten converts a summary tree into its level-indexed form. The root lands at
// level 0 index 0. Each node reserves its slot in its level before its children
// are visited, so the indices it records for its children are the ones they are
// assigned during the recursive walk; siblings therefore occupy a contiguous
// ascending run of the next level.
func Flatten(root Node) FlattenedTree {
	var a arena
	a.visit(root, 0)
	return a.levels
}

type arena struct {
	levels FlattenedTree
}

func (a *arena) visit(n Node, level int) int {
	if len(a.levels) == level {
		a.levels = append(a.levels, Level{})
	}

	current := len(a.levels[level])
	a.levels[level] = append(a.levels[level], Section{})

	children := make([]int, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, a.visit(child, level+1))
	}

	a.levels[level][current] = Section{
		Text:                n.Text,
		SentenceIndices:     n.SentenceIndices,
		ChildrenInNextLevel: children,
	}

	return current
}
