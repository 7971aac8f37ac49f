// Package document defines the in-memory command tree produced by parsing a
// markdown document: headings become nodes, fenced code blocks become command
// bodies, and two-column table rows become scoped environment bindings.
package document

import "strings"

// RootLevel is the synthetic level of the document root. Every real heading
// node carries a level between 1 and 6.
const RootLevel = 0

// Node represents one markdown heading and everything nested beneath it
// until the next heading of equal or lesser level. The root node is
// synthetic (level 0, empty name) and owns the top-level headings.
type Node struct {
	// Level is the heading depth (number of leading '#'), or RootLevel.
	Level int
	// Name is the trimmed heading text.
	Name string
	// Description holds the first plain line found under the heading.
	// It is set at most once; later plain lines are ignored.
	Description string
	// Blocks lists the runnable code blocks in document order.
	Blocks []CodeBlock
	// Env lists the environment bindings declared under this heading, in
	// insertion order. Duplicate keys are retained; the last applied wins.
	Env []EnvBinding
	// Parent is a non-owning back-reference; nil for the root.
	Parent *Node
	// Children are owned sub-headings in document order. Every child has a
	// strictly greater level than its parent.
	Children []*Node
}

// NewRoot returns an empty synthetic root node.
func NewRoot() *Node {
	return &Node{Level: RootLevel}
}

// AddChild attaches child to n, wiring the parent back-reference.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AddBlock appends a code block in document order.
func (n *Node) AddBlock(block CodeBlock) {
	n.Blocks = append(n.Blocks, block)
}

// AddEnv appends an environment binding in insertion order.
func (n *Node) AddEnv(key, value string) {
	n.Env = append(n.Env, EnvBinding{Key: key, Value: value})
}

// SetDescription records the description if none has been captured yet.
func (n *Node) SetDescription(text string) {
	if n.Description != "" {
		return
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		n.Description = trimmed
	}
}

// IsRoot reports whether n is the synthetic document root.
func (n *Node) IsRoot() bool {
	return n.Level == RootLevel && n.Parent == nil
}

// Runnable reports whether the node carries at least one code block.
func (n *Node) Runnable() bool {
	return len(n.Blocks) > 0
}

// Path returns the heading names from the first non-root ancestor down to n.
func (n *Node) Path() []string {
	var names []string
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.Parent {
		names = append(names, cur.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// CodeBlock is a fenced region of text attached to the nearest enclosing
// heading node. Only blocks whose language is known to the interpreter
// registry are ever stored.
type CodeBlock struct {
	// Language is the trimmed fence info string.
	Language string
	// Source is the literal fence body. The final trailing newline is
	// stripped; internal newlines are preserved.
	Source string
}

// EnvBinding is a key/value pair derived from a two-column markdown table
// row, applied to the execution environment of commands under its heading.
type EnvBinding struct {
	Key   string
	Value string
}

// String renders the binding in KEY=value form.
func (b EnvBinding) String() string {
	return b.Key + "=" + b.Value
}
