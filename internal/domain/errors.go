package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a broken precondition that must be fixed upstream.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidSnapshot signals a malformed catalog snapshot.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrEntryNotFound signals a missing index entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrCategoryNotFound signals that no category matches a nested path.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidPath signals an unusable category path.
	ErrInvalidPath = errors.New("invalid category path")
	// ErrBatchTooLarge signals that a batch exceeds the configured maximum.
	ErrBatchTooLarge = errors.New("batch too large")
)

// ConfigurationError wraps ErrConfiguration with the component that failed.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Component, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a configuration error for component.
func NewConfigurationError(component, reason string) error {
	return &ConfigurationError{Component: component, Reason: reason}
}
