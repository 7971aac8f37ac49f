package interpreter

import (
	"reflect"
	"testing"
)

func TestBuiltinShellExpansion(t *testing.T) {
	registry := Builtin()

	spec, ok := registry.Resolve("sh")
	if !ok {
		t.Fatal("sh must be a builtin language")
	}
	if spec.Command != "sh" {
		t.Fatalf("unexpected command %q", spec.Command)
	}

	argv := spec.Expand(`echo "hello"`, nil)
	want := []string{"-euc", `echo "hello"`, "--"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("unexpected argv %v, want %v", argv, want)
	}
}

func TestExpandAppendsTrailingArgs(t *testing.T) {
	registry := Builtin()
	spec, _ := registry.Resolve("bash")

	argv := spec.Expand("echo $1", []string{"one", "two"})
	want := []string{"-euc", "echo $1", "--", "one", "two"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("unexpected argv %v, want %v", argv, want)
	}
}

func TestBuiltinMappings(t *testing.T) {
	registry := Builtin()

	cases := []struct {
		tag     string
		command string
		flag    string
	}{
		{"bash", "bash", "-euc"},
		{"zsh", "zsh", "-euc"},
		{"shell", "sh", "-euc"},
		{"js", "node", "-e"},
		{"javascript", "node", "-e"},
		{"py", "python", "-c"},
		{"python", "python", "-c"},
		{"rb", "ruby", "-e"},
		{"ruby", "ruby", "-e"},
		{"php", "php", "-r"},
	}

	for _, tc := range cases {
		spec, ok := registry.Resolve(tc.tag)
		if !ok {
			t.Fatalf("tag %q not registered", tc.tag)
		}
		if spec.Command != tc.command {
			t.Fatalf("tag %q: command %q, want %q", tc.tag, spec.Command, tc.command)
		}
		if len(spec.Args) == 0 || spec.Args[0].Value != tc.flag {
			t.Fatalf("tag %q: first arg %v, want literal %q", tc.tag, spec.Args, tc.flag)
		}
	}
}

func TestAwkTakesBareCode(t *testing.T) {
	spec, ok := Builtin().Resolve("awk")
	if !ok {
		t.Fatal("awk must be a builtin language")
	}

	argv := spec.Expand("{ print $1 }", nil)
	want := []string{"{ print $1 }"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("unexpected argv %v, want %v", argv, want)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	registry := Builtin()

	for _, tag := range []string{"SH", "Sh", " sh "} {
		if !registry.Known(tag) {
			t.Fatalf("tag %q must resolve case-insensitively", tag)
		}
	}
	if registry.Known("rust") {
		t.Fatal("rust must not be a builtin language")
	}
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	registry := Builtin()
	registry.Register("py", Spec{Command: "python3", Args: []Arg{Literal("-c"), CodeSlot()}})

	spec, _ := registry.Resolve("PY")
	if spec.Command != "python3" {
		t.Fatalf("override not applied, command %q", spec.Command)
	}
}

func TestParseTemplate(t *testing.T) {
	args := ParseTemplate([]string{"-e", "$CODE", "$NAME", "--flag"})

	want := []Arg{Literal("-e"), CodeSlot(), NameSlot(), Literal("--flag")}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected template %v, want %v", args, want)
	}
}

func TestExpandNameSlot(t *testing.T) {
	spec := Spec{Command: "deno", Args: ParseTemplate([]string{"run", "$NAME", "$CODE"})}

	argv := spec.Expand("console.log(1)", nil)
	want := []string{"run", "deno", "console.log(1)"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("unexpected argv %v, want %v", argv, want)
	}
}

func TestLiteralDollarCodeDoesNotExpand(t *testing.T) {
	// A literal built programmatically keeps its text even when it reads
	// like a placeholder; only ParseTemplate interprets the sentinels.
	spec := Spec{Command: "printf", Args: []Arg{Literal("$CODE")}}

	argv := spec.Expand("body", nil)
	if !reflect.DeepEqual(argv, []string{"$CODE"}) {
		t.Fatalf("unexpected argv %v", argv)
	}
}

func TestZeroValueRegistry(t *testing.T) {
	var registry Registry
	if registry.Known("sh") {
		t.Fatal("zero-value registry must be empty")
	}

	registry.Register("sh", shellSpec("sh"))
	if !registry.Known("sh") {
		t.Fatal("Register must work on the zero value")
	}
}
