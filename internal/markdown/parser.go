package markdown

import (
	"strings"

	"github.com/goliatone/go-runbook/document"
	"github.com/goliatone/go-runbook/internal/logging"
	"github.com/goliatone/go-runbook/interpreter"
	"github.com/goliatone/go-runbook/pkg/interfaces"
)

// Parser consumes raw markdown and produces a document tree. Parsing is a
// single left-to-right scan over logical lines with mode tracking (code
// fence, table, normal); it never fails on malformed input and degrades
// gracefully instead: unterminated fences and unrecognized table shapes are
// dropped, not reported.
//
// The parser is stateless between calls, so one instance can be reused.
type Parser struct {
	registry *interpreter.Registry
	logger   interfaces.Logger
}

// NewParser constructs a parser bound to the interpreter registry that
// decides which fenced blocks are retained.
func NewParser(registry *interpreter.Registry, logger interfaces.Logger) *Parser {
	if registry == nil {
		registry = interpreter.Builtin()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Parser{registry: registry, logger: logger}
}

// parse-time scanner state. Code-block mode suppresses heading and table
// detection; table mode ends on heading, fence, blank, or non-pipe lines.
type scanState struct {
	current *document.Node

	inCode    bool
	codeLang  string
	codeLines []string

	inTable    bool
	headerSeen bool
}

// Parse builds the command tree for src. The returned node is the synthetic
// document root.
func (p *Parser) Parse(src []byte) *document.Node {
	root := document.NewRoot()
	state := &scanState{current: root}

	for _, raw := range strings.Split(string(src), "\n") {
		line := strings.TrimSuffix(raw, "\r")
		p.scanLine(state, line)
	}

	if state.inCode {
		// Unterminated fence: the pending body never becomes a block.
		p.logger.Debug("parser.fence.unterminated", "language", state.codeLang)
	}

	return root
}

func (p *Parser) scanLine(state *scanState, line string) {
	trimmed := strings.TrimSpace(line)

	if state.inCode {
		if isFence(trimmed) {
			p.closeFence(state)
			return
		}
		state.codeLines = append(state.codeLines, line)
		return
	}

	switch {
	case isFence(trimmed):
		state.inCode = true
		state.codeLang = strings.TrimSpace(trimmed[3:])
		state.codeLines = nil
		p.leaveTable(state)

	case headingLevel(line) > 0:
		level := headingLevel(line)
		name := strings.TrimSpace(line[level:])
		node := &document.Node{Level: level, Name: name}
		p.parentFor(state.current, level).AddChild(node)
		state.current = node
		p.leaveTable(state)

	case strings.Contains(line, "|"):
		p.scanTableLine(state, trimmed)

	default:
		p.leaveTable(state)
		if trimmed != "" {
			state.current.SetDescription(trimmed)
		}
	}
}

// parentFor walks upward from the current node until it finds an ancestor
// with a strictly smaller level, falling back to the document root. Skipped
// heading levels are simply absent from the ancestor chain.
func (p *Parser) parentFor(current *document.Node, level int) *document.Node {
	for node := current; node != nil; node = node.Parent {
		if node.Level < level {
			return node
		}
	}
	// current always descends from the level-0 root, so this is unreachable
	// unless the tree was built by hand; keep the parse total anyway.
	for current.Parent != nil {
		current = current.Parent
	}
	return current
}

func (p *Parser) closeFence(state *scanState) {
	lang := state.codeLang
	state.inCode = false
	state.codeLang = ""

	source := strings.Join(state.codeLines, "\n")
	state.codeLines = nil

	if lang == "" || !p.registry.Known(lang) {
		// Fences with illustrative or missing languages never reach the tree.
		p.logger.Debug("parser.fence.skipped", "language", lang)
		return
	}

	state.current.AddBlock(document.CodeBlock{Language: lang, Source: source})
}

func (p *Parser) scanTableLine(state *scanState, trimmed string) {
	if !state.inTable {
		state.inTable = true
		state.headerSeen = false
	}

	if isTableSeparator(trimmed) {
		return
	}
	if !state.headerSeen {
		state.headerSeen = true
		return
	}

	key, value, ok := splitTableRow(trimmed)
	if !ok {
		p.logger.Debug("parser.table.row_skipped", "row", trimmed)
		return
	}
	state.current.AddEnv(key, value)
}

func (p *Parser) leaveTable(state *scanState) {
	state.inTable = false
	state.headerSeen = false
}

// isFence reports whether the trimmed line opens or closes a code fence:
// exactly three backticks, optionally followed by an info string.
func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") && !strings.HasPrefix(trimmed, "````")
}

// headingLevel returns 1-6 for a heading line ('#' run followed by
// whitespace) and 0 otherwise.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level < 1 || level > 6 {
		return 0
	}
	if level >= len(line) {
		return 0
	}
	if c := line[level]; c != ' ' && c != '\t' {
		return 0
	}
	return level
}

// isTableSeparator matches delimiter rows between the header and the data
// rows, e.g. "| --- | :--- |" or "|===|===|".
func isTableSeparator(trimmed string) bool {
	return strings.Contains(trimmed, "---") || strings.Contains(trimmed, "===")
}

// splitTableRow extracts the first two non-empty trimmed columns of a
// pipe-delimited row. Rows that restate the conventional KEY/VALUE header
// are rejected so copy-pasted tables do not leak a bogus binding.
func splitTableRow(trimmed string) (key, value string, ok bool) {
	var cells []string
	for _, cell := range strings.Split(trimmed, "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		cells = append(cells, cell)
		if len(cells) == 2 {
			break
		}
	}
	if len(cells) < 2 {
		return "", "", false
	}
	if strings.EqualFold(cells[0], "key") || strings.EqualFold(cells[1], "value") {
		return "", "", false
	}
	return cells[0], cells[1], true
}
