package listctl

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree declaration. They only ever reach callers
// wrapped in a *ConfigurationError, which adds the package prefix.
var (
	ErrChildrenAlreadySet = errors.New("children already set")
	ErrChildrenForbidden  = errors.New("kind cannot have children")
	ErrInvalidChild       = errors.New("child must be a Node or a string")
	ErrMissingName        = errors.New("name is required")
	ErrMissingRoot        = errors.New("tree builder returned no root")
)

// Sentinel errors for binding and state tokens.
var (
	ErrNotBound     = errors.New("listctl: tree has not been bound")
	ErrBindClosed   = errors.New("listctl: tree already serialized")
	ErrInvalidToken = errors.New("listctl: invalid state token")
	ErrUnknownView  = errors.New("listctl: unknown list view")
)

// ConfigurationError reports a defect in a tree declaration: children set
// twice, children on a leaf kind, or a missing required field.
//
// Configuration errors are programming errors. Fluent builders panic with
// them and the Binder hands them back from Bind; they are never recovered
// into a degraded UI.
type ConfigurationError struct {
	Op   string // operation that failed, e.g. "SetChildren"
	Kind Kind   // kind of the node being declared
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("listctl: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("listctl: %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError checks if err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsBindStateError checks if err reports Binder misuse (serializing before
// binding, or binding after serialization).
func IsBindStateError(err error) bool {
	return errors.Is(err, ErrNotBound) || errors.Is(err, ErrBindClosed)
}

// IsTokenError checks if err reports a state token that could not be
// verified or decoded.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// IsUnknownView checks if err reports a request for an unregistered view.
func IsUnknownView(err error) bool {
	return errors.Is(err, ErrUnknownView)
}

func configErr(op string, kind Kind, err error) *ConfigurationError {
	return &ConfigurationError{Op: op, Kind: kind, Err: err}
}
