package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed caller input such as an
	// unknown tier name or a template with an unterminated placeholder.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownTopic is returned when a topic id is not in the rule set.
	ErrUnknownTopic = errors.New("unknown topic")
)

// ConfigError reports a rule table that failed to load or validate.
// Rule-table problems are fatal at startup.
type ConfigError struct {
	Source string // file name or topic id
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule table %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
