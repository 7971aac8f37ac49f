// Package runbook turns a markdown document into an executable command tree:
// headings become named, nestable commands; fenced code blocks under a
// heading become the command's body; two-column markdown tables become
// environment variables scoped to that heading and its descendants.
package runbook

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-runbook/display"
	"github.com/goliatone/go-runbook/document"
	"github.com/goliatone/go-runbook/internal/logging"
	"github.com/goliatone/go-runbook/internal/logging/gologger"
	"github.com/goliatone/go-runbook/internal/markdown"
	"github.com/goliatone/go-runbook/interpreter"
	"github.com/goliatone/go-runbook/pkg/interfaces"
	"github.com/goliatone/go-runbook/runner"
)

// Runbook wires the parser, resolver, and execution engine for a single
// document. Load once, then resolve and run any number of heading paths; the
// tree is read-only after parsing and is discarded with the process.
type Runbook struct {
	config   Config
	registry *interpreter.Registry
	logs     interfaces.LoggerProvider

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	root     *document.Node
	manifest markdown.Manifest
	path     string
}

// Option configures a Runbook.
type Option func(*Runbook)

// WithLoggerProvider injects the provider used to scope module loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(rb *Runbook) {
		rb.logs = provider
	}
}

// WithStdio redirects the streams used by spawned interpreters and the tree
// display. Nil values keep the defaults.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(rb *Runbook) {
		if stdin != nil {
			rb.stdin = stdin
		}
		if stdout != nil {
			rb.stdout = stdout
		}
		if stderr != nil {
			rb.stderr = stderr
		}
	}
}

// New validates the configuration and builds an empty Runbook. Interpreter
// overrides from the configuration are compiled into the registry before any
// document is parsed.
func New(cfg Config, opts ...Option) (*Runbook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := interpreter.Builtin()
	for tag, spec := range cfg.Interpreters {
		registry.Register(tag, interpreter.Spec{
			Command: spec.Command,
			Args:    interpreter.ParseTemplate(spec.Args),
		})
	}

	rb := &Runbook{
		config:   cfg,
		registry: registry,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(rb)
	}

	if rb.logs == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		rb.logs = provider
	}

	return rb, nil
}

// Logs exposes the logger provider so callers can scope their own loggers
// consistently with the facade's modules.
func (rb *Runbook) Logs() interfaces.LoggerProvider {
	return rb.logs
}

// Registry exposes the interpreter registry for inspection.
func (rb *Runbook) Registry() *interpreter.Registry {
	return rb.registry
}

// Root returns the parsed document root, or nil before Load.
func (rb *Runbook) Root() *document.Node {
	return rb.root
}

// Path returns the file path of the loaded document, when known.
func (rb *Runbook) Path() string {
	return rb.path
}

// LoadFile reads and parses the document at path.
func (rb *Runbook) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("runbook: read %s: %w", path, err)
	}
	if err := rb.Load(data); err != nil {
		return err
	}
	rb.path = path
	return nil
}

// Load parses a raw document. An optional frontmatter manifest is applied
// first: its interpreter overrides extend the registry (so fences in those
// languages are retained), its env and description land on the root node.
func (rb *Runbook) Load(src []byte) error {
	manifest, body, err := markdown.ParseManifest(src)
	if err != nil {
		return err
	}
	manifest.ApplyToRegistry(rb.registry)

	parser := markdown.NewParser(rb.registry, logging.ParserLogger(rb.logs))
	root := parser.Parse(body)
	manifest.ApplyToRoot(root)

	rb.manifest = manifest
	rb.root = root
	return nil
}

// Resolve locates the node addressed by headingPath and returns it together
// with its inherited environment chain in root-to-leaf order.
func (rb *Runbook) Resolve(headingPath []string) (*document.Node, []document.EnvBinding, error) {
	node, err := document.Resolve(rb.root, headingPath)
	if err != nil {
		return nil, nil, err
	}
	return node, document.EnvChain(node), nil
}

// Run resolves headingPath and executes its code blocks in document order,
// passing args verbatim to every interpreter. The returned status is 0 on
// success, the first failing block's exit status otherwise.
func (rb *Runbook) Run(ctx context.Context, headingPath, args []string) (int, error) {
	node, bindings, err := rb.Resolve(headingPath)
	if err != nil {
		return 0, err
	}

	engine := runner.New(rb.registry,
		runner.WithLogger(logging.RunnerLogger(rb.logs)),
		runner.WithStdio(rb.stdin, rb.stdout, rb.stderr),
	)
	return engine.Run(ctx, node, bindings, args)
}

// ShowTree renders the command tree to the configured output stream.
func (rb *Runbook) ShowTree(_ context.Context, verbose bool) error {
	if rb.root == nil {
		return fmt.Errorf("runbook: no document loaded")
	}
	return display.NewPrinter(rb.stdout).Print(rb.root, verbose)
}
