package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCodeBlocks signals that resolution succeeded but the node has
	// nothing to run.
	ErrNoCodeBlocks = errors.New("runner: no code blocks found")
	// ErrUnknownLanguage is an internal invariant violation: the parser only
	// stores registry-known blocks, so a failed lookup here means the tree
	// and the registry went out of sync.
	ErrUnknownLanguage = errors.New("runner: code block language missing from registry")
)

// AbnormalExitStatus is the sentinel status reported when a child terminates
// without an exit code (killed by a signal).
const AbnormalExitStatus = 126

// SpawnError reports a child process that could not be started at all,
// carrying the underlying OS error (executable missing, fork/exec failure).
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("runner: spawn %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError reports the first code block whose child process failed. Blocks
// after the failing one are never executed.
type ExitError struct {
	// Block is the zero-based index of the failing block within the node.
	Block int
	// Language is the failing block's fence tag.
	Language string
	// Status is the child's exit status, or AbnormalExitStatus when the
	// child was terminated by a signal.
	Status int
	// Abnormal marks signal termination.
	Abnormal bool
}

func (e *ExitError) Error() string {
	if e.Abnormal {
		return fmt.Sprintf("runner: block %d (%s) terminated abnormally", e.Block, e.Language)
	}
	return fmt.Sprintf("runner: block %d (%s) exited with status %d", e.Block, e.Language, e.Status)
}
