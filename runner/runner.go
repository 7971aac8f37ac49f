// Package runner executes the code blocks of a resolved command node, one
// child process at a time, stopping at the first failure.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"

	"github.com/goliatone/go-runbook/document"
	"github.com/goliatone/go-runbook/internal/logging"
	"github.com/goliatone/go-runbook/interpreter"
	"github.com/goliatone/go-runbook/pkg/interfaces"
)

// Runner drives child-process execution for resolved nodes. It never mutates
// the parent process environment: every child receives the base environment
// overlaid with the accumulated bindings, so two runs cannot observe each
// other's state through the runner.
type Runner struct {
	registry *interpreter.Registry
	logger   interfaces.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// baseEnv is the environment children start from before bindings are
	// overlaid. Defaults to os.Environ() captured per run.
	baseEnv func() []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger injects the structured logger used for run telemetry.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStdio redirects the streams inherited by spawned children. Nil values
// keep the current stream.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdin != nil {
			r.stdin = stdin
		}
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// WithBaseEnv overrides the environment children start from. Used by tests
// to isolate spawned processes from the host environment.
func WithBaseEnv(env []string) Option {
	return func(r *Runner) {
		captured := append([]string(nil), env...)
		r.baseEnv = func() []string {
			return append([]string(nil), captured...)
		}
	}
}

// New constructs a runner bound to the given interpreter registry.
func New(registry *interpreter.Registry, opts ...Option) *Runner {
	if registry == nil {
		registry = interpreter.Builtin()
	}
	r := &Runner{
		registry: registry,
		logger:   logging.NoOp(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		baseEnv:  os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the node's code blocks in document order. bindings are the
// inherited environment chain in root-to-leaf order (later entries win on
// key collision); args are appended verbatim to every interpreter
// invocation. The returned status is 0 when every block succeeds, the first
// failing block's exit status otherwise.
//
// One child runs at a time; there is no overlap between sibling blocks.
// Context cancellation kills the running child and stops the run.
func (r *Runner) Run(ctx context.Context, node *document.Node, bindings []document.EnvBinding, args []string) (int, error) {
	if node == nil || !node.Runnable() {
		return 0, ErrNoCodeBlocks
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.NewString()
	logger := logging.WithFields(r.logger, map[string]any{
		"run_id":  runID,
		"command": node.Name,
		"blocks":  len(node.Blocks),
	})
	logger.Debug("runner.run.start")

	env := r.childEnv(bindings)

	for i, block := range node.Blocks {
		if err := ctx.Err(); err != nil {
			return AbnormalExitStatus, err
		}

		spec, ok := r.registry.Resolve(block.Language)
		if !ok {
			// The parser filters unknown languages, so this cannot happen
			// for trees it produced.
			return AbnormalExitStatus, fmt.Errorf("%w: %s", ErrUnknownLanguage, block.Language)
		}

		blockLogger := logging.WithFields(logger, map[string]any{
			"block":       i,
			"language":    block.Language,
			"interpreter": spec.Command,
		})
		blockLogger.Debug("runner.block.start")

		status, err := r.runBlock(ctx, i, spec, block, env, args)
		if err != nil {
			blockLogger.Error("runner.block.failed", "error", err, "status", status)
			return status, err
		}
		blockLogger.Debug("runner.block.done")
	}

	logger.Info("runner.run.success")
	return 0, nil
}

func (r *Runner) runBlock(ctx context.Context, index int, spec interpreter.Spec, block document.CodeBlock, env []string, args []string) (int, error) {
	argv := spec.Expand(block.Source, args)

	cmd := exec.CommandContext(ctx, spec.Command, argv...)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = env

	if err := cmd.Start(); err != nil {
		return AbnormalExitStatus, &SpawnError{Command: spec.Command, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		status := exitErr.ExitCode()
		if status < 0 {
			// Terminated by a signal; no exit code to mirror.
			return AbnormalExitStatus, &ExitError{
				Block:    index,
				Language: block.Language,
				Status:   AbnormalExitStatus,
				Abnormal: true,
			}
		}
		return status, &ExitError{Block: index, Language: block.Language, Status: status}
	}

	return AbnormalExitStatus, &SpawnError{Command: spec.Command, Err: err}
}

// childEnv overlays the accumulated bindings on the base environment. The
// bindings arrive in root-to-leaf order and are appended after the base
// entries, so descendant values win for duplicate keys.
func (r *Runner) childEnv(bindings []document.EnvBinding) []string {
	env := r.baseEnv()
	for _, binding := range bindings {
		env = append(env, binding.String())
	}
	return env
}
