// Package runbookcmd exposes the run and show-tree operations through the
// shared command handler foundation.
package runbookcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-runbook/internal/commands"
	"github.com/goliatone/go-runbook/internal/logging"
	"github.com/goliatone/go-runbook/pkg/interfaces"
)

const (
	runOperation      = "runbook.run"
	showTreeOperation = "runbook.show_tree"
)

// Service is the slice of the runbook facade the command handlers need.
type Service interface {
	// Run resolves the heading path and executes its code blocks, returning
	// the propagated exit status.
	Run(ctx context.Context, headingPath, args []string) (int, error)
	// ShowTree renders the command tree.
	ShowTree(ctx context.Context, verbose bool) error
}

var (
	_ command.Commander[RunCommand]      = (*RunHandler)(nil)
	_ command.Commander[ShowTreeCommand] = (*ShowTreeHandler)(nil)
)

// RunHandler executes RunCommand messages. It records the exit status of the
// last execution so the CLI can propagate it; a handler instance therefore
// serves one invocation at a time.
type RunHandler struct {
	inner  *commands.Handler[RunCommand]
	status int
}

// NewRunHandler creates a handler bound to the supplied service.
func NewRunHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[RunCommand]) *RunHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	h := &RunHandler{}

	exec := func(ctx context.Context, msg RunCommand) error {
		status, err := service.Run(ctx, msg.HeadingPath, msg.Args)
		h.status = status
		return err
	}

	handlerOpts := []commands.HandlerOption[RunCommand]{
		commands.WithLogger[RunCommand](logger),
		commands.WithOperation[RunCommand](runOperation),
		commands.WithMessageFields(func(msg RunCommand) map[string]any {
			fields := map[string]any{
				"heading_path": strings.Join(msg.HeadingPath, " "),
			}
			if len(msg.Args) > 0 {
				fields["args"] = strings.Join(msg.Args, " ")
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	h.inner = commands.NewHandler(exec, handlerOpts...)
	return h
}

// Execute implements command.Commander.
func (h *RunHandler) Execute(ctx context.Context, msg RunCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Status returns the exit status recorded by the most recent Execute call.
func (h *RunHandler) Status() int {
	return h.status
}

// ShowTreeHandler renders the command tree for ShowTreeCommand messages.
type ShowTreeHandler struct {
	inner *commands.Handler[ShowTreeCommand]
}

// NewShowTreeHandler creates a handler bound to the supplied service.
func NewShowTreeHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ShowTreeCommand]) *ShowTreeHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ShowTreeCommand) error {
		return service.ShowTree(ctx, msg.Verbose)
	}

	handlerOpts := []commands.HandlerOption[ShowTreeCommand]{
		commands.WithLogger[ShowTreeCommand](logger),
		commands.WithOperation[ShowTreeCommand](showTreeOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ShowTreeHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *ShowTreeHandler) Execute(ctx context.Context, msg ShowTreeCommand) error {
	return h.inner.Execute(ctx, msg)
}
