package config

import (
	"errors"
	"fmt"
)

// ConfigError represents a fatal configuration problem: a file that is not
// valid JSON, a missing config key, or a placeholder that cannot be resolved.
// Construction and resolution both fail fast with this type; there is no
// partial load and no retry.
type ConfigError struct {
	// Key is the config key involved, if the error is key-scoped.
	Key string

	// Message is the human-readable description of the problem.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is/As chains over the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if an error is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

func notFoundError(key string) *ConfigError {
	return &ConfigError{
		Key:     key,
		Message: fmt.Sprintf("the config '%s' was not found in the config file", key),
	}
}
