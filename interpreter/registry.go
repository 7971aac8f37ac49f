// Package interpreter maps fenced code block language tags to the argument
// templates used to invoke the matching language runtime.
package interpreter

import "strings"

// ArgKind discriminates the template slot variants. Slots are modeled as a
// tagged variant rather than string sentinels so a literal argument that
// happens to equal "$CODE" or "$NAME" cannot collide with a placeholder.
type ArgKind int

const (
	// KindLiteral passes the slot value through unchanged.
	KindLiteral ArgKind = iota
	// KindCode is replaced by the code block source at invocation time.
	KindCode
	// KindName is replaced by the interpreter executable name. Shell-family
	// interpreters use it when argv[0] must be repeated after flags.
	KindName
)

// Arg is one slot of an interpreter argument template.
type Arg struct {
	Kind  ArgKind
	Value string
}

// Literal returns a pass-through slot.
func Literal(value string) Arg { return Arg{Kind: KindLiteral, Value: value} }

// CodeSlot marks the position of the injected code body.
func CodeSlot() Arg { return Arg{Kind: KindCode} }

// NameSlot marks a repetition of the executable name.
func NameSlot() Arg { return Arg{Kind: KindName} }

// Spec describes how to invoke one language runtime: the executable name and
// the ordered argument template expanded for every code block.
type Spec struct {
	Command string
	Args    []Arg
}

// Expand materializes the template for a concrete code body. Caller-supplied
// trailing arguments are appended verbatim after the template.
func (s Spec) Expand(source string, trailing []string) []string {
	args := make([]string, 0, len(s.Args)+len(trailing))
	for _, arg := range s.Args {
		switch arg.Kind {
		case KindCode:
			args = append(args, source)
		case KindName:
			args = append(args, s.Command)
		default:
			args = append(args, arg.Value)
		}
	}
	return append(args, trailing...)
}

// Registry resolves language tags to interpreter specs. Lookups are
// case-insensitive. The zero value is empty; use Builtin for the default
// mappings.
type Registry struct {
	specs map[string]Spec
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{specs: map[string]Spec{}}
}

// Builtin returns a registry with the default language mappings: the shell
// family, awk, node, python, ruby, and php.
func Builtin() *Registry {
	r := New()

	for _, shell := range []string{"sh", "bash", "zsh", "fish", "dash", "ksh", "ash"} {
		r.Register(shell, shellSpec(shell))
	}
	r.Register("shell", shellSpec("sh"))

	r.Register("awk", Spec{Command: "awk", Args: []Arg{CodeSlot()}})

	node := Spec{Command: "node", Args: []Arg{Literal("-e"), CodeSlot()}}
	r.Register("js", node)
	r.Register("javascript", node)

	python := Spec{Command: "python", Args: []Arg{Literal("-c"), CodeSlot()}}
	r.Register("py", python)
	r.Register("python", python)

	ruby := Spec{Command: "ruby", Args: []Arg{Literal("-e"), CodeSlot()}}
	r.Register("rb", ruby)
	r.Register("ruby", ruby)

	r.Register("php", Spec{Command: "php", Args: []Arg{Literal("-r"), CodeSlot()}})

	return r
}

func shellSpec(command string) Spec {
	return Spec{
		Command: command,
		Args:    []Arg{Literal("-euc"), CodeSlot(), Literal("--")},
	}
}

// Register adds or replaces the spec for a language tag.
func (r *Registry) Register(tag string, spec Spec) {
	if r.specs == nil {
		r.specs = map[string]Spec{}
	}
	r.specs[normalize(tag)] = spec
}

// Resolve returns the spec for a language tag, case-insensitively.
func (r *Registry) Resolve(tag string) (Spec, bool) {
	if r == nil || r.specs == nil {
		return Spec{}, false
	}
	spec, ok := r.specs[normalize(tag)]
	return spec, ok
}

// Known reports whether the tag maps to an interpreter. The parser uses this
// to decide whether a fenced block is retained at all.
func (r *Registry) Known(tag string) bool {
	_, ok := r.Resolve(tag)
	return ok
}

// Tags returns the registered language tags in no particular order.
func (r *Registry) Tags() []string {
	if r == nil {
		return nil
	}
	tags := make([]string, 0, len(r.specs))
	for tag := range r.specs {
		tags = append(tags, tag)
	}
	return tags
}

// ParseTemplate compiles the configuration string form of a template into
// tagged slots. The strings "$CODE" and "$NAME" are recognized only here, at
// the configuration boundary; everything else becomes a literal.
func ParseTemplate(args []string) []Arg {
	out := make([]Arg, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "$CODE":
			out = append(out, CodeSlot())
		case "$NAME":
			out = append(out, NameSlot())
		default:
			out = append(out, Literal(arg))
		}
	}
	return out
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
