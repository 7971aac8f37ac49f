// Package display renders the parsed command tree for human inspection.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"

	"github.com/goliatone/go-runbook/document"
)

// Printer writes a tree view of the runnable commands in a document. Nodes
// that carry neither code blocks nor children are omitted; they are prose
// sections, not commands.
type Printer struct {
	out io.Writer
}

// NewPrinter constructs a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Print renders the tree rooted at root. Verbose mode adds each command's
// description, its environment bindings, and the fenced code bodies.
func (p *Printer) Print(root *document.Node, verbose bool) error {
	tree := treeprint.New()
	if root.Description != "" {
		tree.SetValue(root.Description)
	}

	for _, child := range root.Children {
		p.addNode(tree, child, verbose)
	}

	_, err := fmt.Fprint(p.out, tree.String())
	return err
}

func (p *Printer) addNode(branch treeprint.Tree, node *document.Node, verbose bool) {
	if !node.Runnable() && len(node.Children) == 0 {
		return
	}

	child := branch.AddBranch(p.label(node, verbose))
	for _, sub := range node.Children {
		p.addNode(child, sub, verbose)
	}
}

func (p *Printer) label(node *document.Node, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(color.GreenString(node.Name))

	if !verbose {
		if node.Description != "" {
			sb.WriteString("  ")
			sb.WriteString(node.Description)
		}
		return sb.String()
	}

	if node.Description != "" {
		sb.WriteString("  ")
		sb.WriteString(node.Description)
	}
	for _, binding := range node.Env {
		sb.WriteString("\n")
		sb.WriteString(color.BlueString(binding.String()))
	}
	for _, block := range node.Blocks {
		sb.WriteString("\n```")
		sb.WriteString(block.Language)
		sb.WriteString("\n")
		sb.WriteString(block.Source)
		sb.WriteString("\n```")
	}
	return sb.String()
}
