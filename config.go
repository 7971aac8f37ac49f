package runbook

import (
	"errors"
	"strings"
)

var (
	ErrLoggingLevelInvalid        = errors.New("runbook: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("runbook: logging format is invalid")
	ErrInterpreterTagRequired     = errors.New("runbook: interpreter tag is required")
	ErrInterpreterCommandRequired = errors.New("runbook: interpreter command is required")
)

// Config captures the runtime options of a runbook invocation.
type Config struct {
	// Logging configures the go-logger provider.
	Logging LoggingConfig
	// Interpreters adds or overrides language mappings on top of the
	// builtin registry. Args may use the $CODE and $NAME placeholders.
	Interpreters map[string]InterpreterConfig
}

// LoggingConfig mirrors the options of the go-logger adapter.
type LoggingConfig struct {
	// Enabled switches structured logging on; the default is a no-op
	// logger so the tool stays silent for interactive use.
	Enabled bool
	// Level is one of trace, debug, info, warn, error, fatal.
	Level string
	// Format is one of console, json, pretty.
	Format string
	// AddSource attaches source locations to log entries.
	AddSource bool
	// Focus restricts output to the named logger namespaces.
	Focus []string
}

// InterpreterConfig is the configuration form of an interpreter template.
type InterpreterConfig struct {
	Command string
	Args    []string
}

// DefaultConfig returns the configuration used when the caller supplies
// nothing: builtin interpreters only, logging disabled.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var (
	validLogLevels  = []string{"", "trace", "debug", "info", "warn", "warning", "error", "fatal"}
	validLogFormats = []string{"", "console", "json", "pretty"}
)

// Validate checks the configuration before any component is built.
func (c Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	for tag, spec := range c.Interpreters {
		if strings.TrimSpace(tag) == "" {
			return ErrInterpreterTagRequired
		}
		if strings.TrimSpace(spec.Command) == "" {
			return ErrInterpreterCommandRequired
		}
	}
	return nil
}

// Validate enforces the logging option domains. Values are compared
// case-insensitively to match the provider's own normalization.
func (c LoggingConfig) Validate() error {
	if !oneOf(validLogLevels, c.Level) {
		return ErrLoggingLevelInvalid
	}
	if !oneOf(validLogFormats, c.Format) {
		return ErrLoggingFormatInvalid
	}
	return nil
}

func oneOf(allowed []string, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, want := range allowed {
		if value == want {
			return true
		}
	}
	return false
}
