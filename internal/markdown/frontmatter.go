package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-runbook/document"
	"github.com/goliatone/go-runbook/interpreter"
)

// Manifest is the optional YAML frontmatter block at the top of a runbook
// document. It carries document-wide settings that have no table or fence
// syntax: a root description, root-level environment bindings applied before
// any table binding, and extra interpreter mappings for this document.
type Manifest struct {
	Description  string                     `yaml:"description"`
	Env          map[string]string          `yaml:"env"`
	Interpreters map[string]InterpreterSpec `yaml:"interpreters"`
}

// InterpreterSpec is the configuration form of an interpreter template. Args
// may contain the $CODE and $NAME placeholders, compiled to tagged template
// slots before reaching the registry.
type InterpreterSpec struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Validate enforces the manifest invariants before any of it is applied.
func (m Manifest) Validate() error {
	for tag, spec := range m.Interpreters {
		if strings.TrimSpace(tag) == "" {
			return validation.NewError(
				"runbook.manifest.interpreter_tag_required",
				"interpreter tag must not be empty",
			)
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("manifest interpreter %q: %w", tag, err)
		}
	}
	for key := range m.Env {
		if strings.TrimSpace(key) == "" {
			return validation.NewError(
				"runbook.manifest.env_key_required",
				"env keys must not be empty",
			)
		}
	}
	return nil
}

// Validate ensures the interpreter override names a command.
func (s InterpreterSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Command, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError(
					"runbook.manifest.interpreter_command_required",
					"command is required",
				)
			}
			return nil
		})),
	)
}

// ParseManifest extracts the manifest and the markdown body from source. A
// document without frontmatter returns a zero manifest and the unmodified
// source; the body always feeds the line parser unchanged.
func ParseManifest(source []byte) (Manifest, []byte, error) {
	var manifest Manifest

	body, err := frontmatter.Parse(bytes.NewReader(source), &manifest)
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return Manifest{}, nil, err
	}

	return manifest, body, nil
}

// ApplyToRoot installs the manifest's description and env bindings on the
// document root. Env keys are applied in sorted order so repeated parses of
// the same document produce an identical tree.
func (m Manifest) ApplyToRoot(root *document.Node) {
	if root == nil {
		return
	}
	root.SetDescription(m.Description)

	keys := make([]string, 0, len(m.Env))
	for key := range m.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		root.AddEnv(key, m.Env[key])
	}
}

// ApplyToRegistry compiles the manifest's interpreter overrides into the
// registry. Manifest entries replace builtin mappings of the same tag for
// the current invocation only.
func (m Manifest) ApplyToRegistry(registry *interpreter.Registry) {
	if registry == nil {
		return
	}
	for tag, spec := range m.Interpreters {
		registry.Register(tag, interpreter.Spec{
			Command: spec.Command,
			Args:    interpreter.ParseTemplate(spec.Args),
		})
	}
}
