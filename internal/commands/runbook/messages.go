package runbookcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	runMessageType      = "runbook.run"
	showTreeMessageType = "runbook.show_tree"
)

// RunCommand executes the code blocks of the node addressed by HeadingPath,
// passing Args verbatim to every spawned interpreter.
type RunCommand struct {
	// HeadingPath is the ordered list of heading names from the document
	// root to the target command.
	HeadingPath []string `json:"heading_path"`
	// Args are the caller-supplied trailing arguments (everything after the
	// literal "--" on the command line).
	Args []string `json:"args,omitempty"`
}

// Type implements command.Message.
func (RunCommand) Type() string { return runMessageType }

// Validate ensures a non-empty heading path with no blank segments.
func (cmd RunCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.HeadingPath, validation.Required, validation.By(func(value any) error {
			segments := value.([]string)
			if len(segments) == 0 {
				return validation.NewError("runbook.run.heading_path_required", "heading path is required")
			}
			for _, segment := range segments {
				if strings.TrimSpace(segment) == "" {
					return validation.NewError("runbook.run.heading_blank", "heading path segments must not be blank")
				}
			}
			return nil
		})),
	)
}

// ShowTreeCommand renders the document's command tree for human inspection.
type ShowTreeCommand struct {
	// Verbose adds descriptions, env bindings, and code bodies to the tree.
	Verbose bool `json:"verbose,omitempty"`
}

// Type implements command.Message.
func (ShowTreeCommand) Type() string { return showTreeMessageType }

// Validate implements command.Message; the command has no invalid states.
func (ShowTreeCommand) Validate() error { return nil }
