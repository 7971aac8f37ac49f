package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-runbook/document"
	"github.com/goliatone/go-runbook/interpreter"
)

func TestParseManifest(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"description: Project tasks",
		"env:",
		"  ZONE: us-east-1",
		"  APP: runbook",
		"interpreters:",
		"  deno:",
		"    command: deno",
		"    args: [\"eval\", \"$CODE\"]",
		"---",
		"# build",
	}, "\n")

	manifest, body, err := ParseManifest([]byte(source))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manifest.Description != "Project tasks" {
		t.Fatalf("unexpected description %q", manifest.Description)
	}
	if manifest.Env["ZONE"] != "us-east-1" || manifest.Env["APP"] != "runbook" {
		t.Fatalf("unexpected env %v", manifest.Env)
	}
	if spec := manifest.Interpreters["deno"]; spec.Command != "deno" {
		t.Fatalf("unexpected interpreter %v", spec)
	}
	if !strings.Contains(string(body), "# build") {
		t.Fatalf("body lost the markdown content: %q", body)
	}
	if strings.Contains(string(body), "description:") {
		t.Fatalf("frontmatter leaked into the body: %q", body)
	}
}

func TestParseManifestAbsent(t *testing.T) {
	source := "# build\n```sh\nmake\n```\n"

	manifest, body, err := ParseManifest([]byte(source))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manifest.Description != "" || len(manifest.Env) != 0 || len(manifest.Interpreters) != 0 {
		t.Fatalf("expected zero manifest, got %+v", manifest)
	}
	if string(body) != source {
		t.Fatalf("body must pass through unchanged, got %q", body)
	}
}

func TestParseManifestRejectsEmptyInterpreterCommand(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"interpreters:",
		"  deno:",
		"    args: [\"$CODE\"]",
		"---",
		"# build",
	}, "\n")

	if _, _, err := ParseManifest([]byte(source)); err == nil {
		t.Fatal("expected a validation error for the missing command")
	}
}

func TestManifestApplyToRoot(t *testing.T) {
	manifest := Manifest{
		Description: "Project tasks",
		Env:         map[string]string{"B": "2", "A": "1"},
	}

	root := document.NewRoot()
	manifest.ApplyToRoot(root)

	if root.Description != "Project tasks" {
		t.Fatalf("unexpected description %q", root.Description)
	}
	if len(root.Env) != 2 {
		t.Fatalf("unexpected env %v", root.Env)
	}
	// Keys are applied in sorted order for a deterministic tree.
	if root.Env[0].Key != "A" || root.Env[1].Key != "B" {
		t.Fatalf("unexpected env order %v", root.Env)
	}
}

func TestManifestApplyToRegistry(t *testing.T) {
	manifest := Manifest{
		Interpreters: map[string]InterpreterSpec{
			"deno": {Command: "deno", Args: []string{"eval", "$CODE"}},
		},
	}

	registry := interpreter.Builtin()
	manifest.ApplyToRegistry(registry)

	spec, ok := registry.Resolve("deno")
	if !ok {
		t.Fatal("manifest interpreter not registered")
	}
	argv := spec.Expand("console.log(1)", nil)
	if len(argv) != 2 || argv[0] != "eval" || argv[1] != "console.log(1)" {
		t.Fatalf("unexpected argv %v", argv)
	}
}

func TestManifestInterpretersRetainFences(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"interpreters:",
		"  deno:",
		"    command: deno",
		"    args: [\"eval\", \"$CODE\"]",
		"---",
		"# task",
		"```deno",
		"console.log(1)",
		"```",
	}, "\n")

	manifest, body, err := ParseManifest([]byte(source))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := interpreter.Builtin()
	manifest.ApplyToRegistry(registry)

	root := NewParser(registry, nil).Parse(body)
	node := root.Children[0]
	if len(node.Blocks) != 1 || node.Blocks[0].Language != "deno" {
		t.Fatalf("manifest language fence was dropped: %v", node.Blocks)
	}
}
