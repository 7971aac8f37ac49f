package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	runbook "github.com/goliatone/go-runbook"
	"github.com/goliatone/go-runbook/document"
	runbookcmd "github.com/goliatone/go-runbook/internal/commands/runbook"
	"github.com/goliatone/go-runbook/internal/logging"
	"github.com/goliatone/go-runbook/internal/markdown"
	"github.com/goliatone/go-runbook/runner"
)

// Exit codes beyond the propagated child status.
const (
	exitOK       = 0
	exitUsage    = 2
	exitNotFound = 3
	exitNoBlocks = 4
	exitAbnormal = runner.AbnormalExitStatus
	exitSpawn    = 127
)

// Environment variables visible to every spawned interpreter.
const (
	envExe  = "RUNBOOK_EXE"
	envFile = "RUNBOOK_FILE"
)

var programName = filepath.Base(os.Args[0])

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(programName, flag.ExitOnError)
	fs.Usage = func() { showHelp(fs.Output()) }

	var (
		verbose  bool
		file     string
		debug    bool
		logLevel string
	)
	fs.BoolVar(&verbose, "v", false, "print more information")
	fs.BoolVar(&verbose, "verbose", false, "print more information")
	fs.StringVar(&file, "f", "", "markdown file to use")
	fs.StringVar(&file, "file", "", "markdown file to use")
	fs.BoolVar(&debug, "d", false, "enable structured logging")
	fs.BoolVar(&debug, "debug", false, "enable structured logging")
	fs.StringVar(&logLevel, "log-level", "debug", "log level when logging is enabled")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	headingPath, trailing := splitArgs(fs.Args())

	if file == "" {
		found, err := discoverDocument()
		if err != nil {
			errorMsg("%v", err)
			return exitUsage
		}
		file = found
	}

	cfg := runbook.DefaultConfig()
	if debug {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = logLevel
	}

	rb, err := runbook.New(cfg)
	if err != nil {
		errorMsg("%v", err)
		return exitUsage
	}

	if err := rb.LoadFile(file); err != nil {
		errorMsg("%v", err)
		return exitUsage
	}

	// Advertise the invocation to spawned children.
	os.Setenv(envExe, os.Args[0])
	os.Setenv(envFile, file)

	ctx := context.Background()
	logger := logging.CommandsLogger(rb.Logs())

	if len(headingPath) == 0 {
		handler := runbookcmd.NewShowTreeHandler(rb, logger)
		if err := handler.Execute(ctx, runbookcmd.ShowTreeCommand{Verbose: verbose}); err != nil {
			errorMsg("%v", err)
			return exitUsage
		}
		return exitOK
	}

	handler := runbookcmd.NewRunHandler(rb, logger)
	err = handler.Execute(ctx, runbookcmd.RunCommand{HeadingPath: headingPath, Args: trailing})
	if err != nil {
		return reportRunError(err, handler.Status())
	}
	return handler.Status()
}

// splitArgs separates the heading path from the interpreter arguments at the
// first literal "--" token.
func splitArgs(args []string) (headingPath, trailing []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// discoverDocument walks upward from the working directory looking for
// <program>.md, .<program>.md, or README.md.
func discoverDocument() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	locator := markdown.NewLocator(os.DirFS("/"), programName)
	rel, err := locator.Discover(strings.TrimPrefix(cwd, "/"))
	if err != nil {
		return "", err
	}
	return "/" + rel, nil
}

// reportRunError maps execution failures to the documented exit codes.
func reportRunError(err error, status int) int {
	var notFound *document.HeadingNotFoundError
	if errors.As(err, &notFound) {
		errorMsg("heading not found: %s", notFound.Segment)
		return exitNotFound
	}
	if errors.Is(err, runner.ErrNoCodeBlocks) {
		errorMsg("no code blocks found")
		return exitNoBlocks
	}

	var spawn *runner.SpawnError
	if errors.As(err, &spawn) {
		errorMsg("%v", spawn)
		return exitSpawn
	}

	var exit *runner.ExitError
	if errors.As(err, &exit) {
		errorMsg("%v", exit)
		if exit.Abnormal {
			return exitAbnormal
		}
		return exit.Status
	}

	errorMsg("%v", err)
	if status > 0 {
		return status
	}
	return exitUsage
}

func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", programName, fmt.Sprintf(format, args...))
}

func showHelp(out io.Writer) {
	fmt.Fprintf(out, "Run markdown code blocks by their heading.\n\n")
	fmt.Fprintf(out, "USAGE:\n")
	fmt.Fprintf(out, "    %s [--file FILE] <heading...> [-- <args...>]\n\n", programName)
	fmt.Fprintf(out, "FLAGS:\n")
	fmt.Fprintf(out, "    -h, --help        Show this help\n")
	fmt.Fprintf(out, "    -v, --verbose     Print more information\n")
	fmt.Fprintf(out, "    -d, --debug       Enable structured logging\n\n")
	fmt.Fprintf(out, "OPTIONS:\n")
	fmt.Fprintf(out, "    -f, --file        Markdown file to use\n")
	fmt.Fprintf(out, "        --log-level   Log level when logging is enabled\n\n")
	fmt.Fprintf(out, "Without a heading path the command tree is printed instead.\n")
}
