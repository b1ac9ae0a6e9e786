package syntax

import "strings"

// attachComments distributes the tree's comments onto nodes. A comment that
// shares a line with preceding code becomes a trailing comment of the last
// statement-level node ending before it. A comment on its own line becomes
// a leading comment of the next statement-level node in the same container.
// A comment with no following node in its container dangles on the
// container itself.
//
// Statement-level anchors are the direct children of the program and of
// braced blocks, and the value expressions of call and subset arguments.
func attachComments(t *Tree) {
	for _, c := range t.Comments {
		container := innermostContainer(t.Root, c.Range.Start)
		anchors := containerAnchors(container)
		if isTrailing(t.Source, c.Range.Start) {
			if prev := lastEndingBefore(anchors, c.Range.Start); prev != nil {
				prev.Trailing = append(prev.Trailing, c)
				continue
			}
			// Code on the line belongs to an enclosing container, e.g. a
			// comment after `{` on the opening line. Fall through to the
			// leading rules.
		}
		if next := firstStartingAfter(anchors, c.Range.End); next != nil {
			next.Leading = append(next.Leading, c)
			continue
		}
		container.Dangling = append(container.Dangling, c)
	}
}

func isContainer(n *Node) bool {
	switch n.Kind {
	case KindProgram, KindBraced, KindCall, KindSubset, KindSubset2:
		return true
	}
	return false
}

// innermostContainer finds the deepest container node whose range contains
// the byte offset. The program node spans the whole file, so there is
// always at least one.
func innermostContainer(root *Node, offset int) *Node {
	best := root
	root.Walk(func(n *Node) bool {
		if n.Start > offset || n.End <= offset {
			return n == root
		}
		if isContainer(n) {
			best = n
		}
		return true
	})
	return best
}

// containerAnchors returns the statement-level nodes a comment may attach
// to inside the container, in source order.
func containerAnchors(container *Node) []*Node {
	switch container.Kind {
	case KindProgram, KindBraced:
		return container.Children
	case KindCall, KindSubset, KindSubset2:
		var anchors []*Node
		for _, arg := range container.Args() {
			if v := arg.Child(0); v != nil {
				anchors = append(anchors, v)
			}
		}
		return anchors
	}
	return nil
}

// isTrailing reports whether non-whitespace code appears between the start
// of the comment's line and the comment itself.
func isTrailing(src string, commentStart int) bool {
	lineStart := strings.LastIndexByte(src[:commentStart], '\n') + 1
	return strings.TrimSpace(src[lineStart:commentStart]) != ""
}

func lastEndingBefore(anchors []*Node, offset int) *Node {
	var best *Node
	for _, a := range anchors {
		if a.End <= offset {
			best = a
		}
	}
	return best
}

func firstStartingAfter(anchors []*Node, offset int) *Node {
	for _, a := range anchors {
		if a.Start >= offset {
			return a
		}
	}
	return nil
}
