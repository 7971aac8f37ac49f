package document

import "strings"

// Resolve walks the heading path from root and returns the matching node.
// Each segment is matched case-insensitively against the current node's
// direct children first; when no direct child matches, every direct child's
// subtree is searched depth-first in child order and the first match wins.
// Ambiguous names therefore resolve to the earliest node in that order,
// which is defined behavior.
func Resolve(root *Node, path []string) (*Node, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	current := root
	for _, segment := range path {
		next := findDirect(current, segment)
		if next == nil {
			next = findInSubtrees(current, segment)
		}
		if next == nil {
			return nil, &HeadingNotFoundError{Segment: segment}
		}
		current = next
	}
	return current, nil
}

// EnvChain collects the environment bindings inherited by node, ordered from
// the document root down to the node itself. Applying the slice in order
// with last-wins semantics makes descendant bindings override ancestor
// bindings of the same key.
func EnvChain(node *Node) []EnvBinding {
	var lineage []*Node
	for cur := node; cur != nil; cur = cur.Parent {
		lineage = append(lineage, cur)
	}

	var chain []EnvBinding
	for i := len(lineage) - 1; i >= 0; i-- {
		chain = append(chain, lineage[i].Env...)
	}
	return chain
}

func findDirect(parent *Node, name string) *Node {
	for _, child := range parent.Children {
		if strings.EqualFold(child.Name, name) {
			return child
		}
	}
	return nil
}

// findInSubtrees searches each direct child's subtree in child order using
// an explicit growable stack. Children are pushed in reverse so pop order
// follows document order.
func findInSubtrees(parent *Node, name string) *Node {
	for _, child := range parent.Children {
		stack := []*Node{child}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if strings.EqualFold(node.Name, name) {
				return node
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}
	return nil
}
