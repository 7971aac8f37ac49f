package runbook

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/goliatone/go-runbook/document"
	"github.com/goliatone/go-runbook/runner"
)

const sampleDocument = `---
description: Project tasks
env:
  ZONE: us-east-1
---
# build

Compile the project.

` + "```sh" + `
echo "building"
` + "```" + `

## release

| KEY | VALUE |
| --- | ----- |
| MODE | release |

` + "```sh" + `
echo "mode=$MODE zone=$ZONE"
` + "```" + `

# notes

Nothing runnable here.
`

func loadSample(t *testing.T, stdout *bytes.Buffer) *Runbook {
	t.Helper()

	rb, err := New(DefaultConfig(), WithStdio(nil, stdout, stdout))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rb.Load([]byte(sampleDocument)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rb
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests spawn a POSIX shell")
	}
}

func TestLoadBuildsTree(t *testing.T) {
	rb := loadSample(t, &bytes.Buffer{})

	root := rb.Root()
	if root.Description != "Project tasks" {
		t.Fatalf("manifest description not applied: %q", root.Description)
	}
	if len(root.Env) != 1 || root.Env[0].Key != "ZONE" {
		t.Fatalf("manifest env not applied: %v", root.Env)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected build and notes, got %d children", len(root.Children))
	}
}

func TestResolveReturnsEnvChain(t *testing.T) {
	rb := loadSample(t, &bytes.Buffer{})

	node, bindings, err := rb.Resolve([]string{"build", "release"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Name != "release" {
		t.Fatalf("resolved wrong node %q", node.Name)
	}

	var keys []string
	for _, binding := range bindings {
		keys = append(keys, binding.Key)
	}
	// Root manifest env first, then the release table binding.
	if len(keys) != 2 || keys[0] != "ZONE" || keys[1] != "MODE" {
		t.Fatalf("unexpected binding chain %v", bindings)
	}
}

func TestRunExecutesBlocks(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	rb := loadSample(t, &stdout)

	status, err := rb.Run(context.Background(), []string{"release"}, nil)
	if err != nil || status != 0 {
		t.Fatalf("unexpected result: status %d, err %v", status, err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "mode=release zone=us-east-1" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunHeadingNotFound(t *testing.T) {
	rb := loadSample(t, &bytes.Buffer{})

	_, err := rb.Run(context.Background(), []string{"missing"}, nil)
	var notFound *document.HeadingNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected HeadingNotFoundError, got %v", err)
	}
}

func TestRunProseNode(t *testing.T) {
	rb := loadSample(t, &bytes.Buffer{})

	_, err := rb.Run(context.Background(), []string{"notes"}, nil)
	if !errors.Is(err, runner.ErrNoCodeBlocks) {
		t.Fatalf("expected ErrNoCodeBlocks, got %v", err)
	}
}

func TestShowTree(t *testing.T) {
	var stdout bytes.Buffer
	rb := loadSample(t, &stdout)

	if err := rb.ShowTree(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "build") || !strings.Contains(got, "release") {
		t.Fatalf("tree output missing commands:\n%s", got)
	}
}

func TestShowTreeWithoutDocument(t *testing.T) {
	rb, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rb.ShowTree(context.Background(), false); err == nil {
		t.Fatal("expected an error before any document is loaded")
	}
}

func TestConfigInterpretersReachRegistry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interpreters = map[string]InterpreterConfig{
		"deno": {Command: "deno", Args: []string{"eval", "$CODE"}},
	}

	rb, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rb.Registry().Known("deno") {
		t.Fatal("configured interpreter missing from the registry")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"

	if _, err := New(cfg); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}
