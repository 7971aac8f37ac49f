// Package markdown turns raw markdown text into the runbook command tree.
// It hosts the line-oriented document parser, the optional frontmatter
// manifest, and the upward-walking document locator.
package markdown
