package listctl

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrChildrenAlreadySet,
		ErrChildrenForbidden,
		ErrInvalidChild,
		ErrMissingName,
		ErrMissingRoot,
		ErrNotBound,
		ErrBindClosed,
		ErrInvalidToken,
		ErrUnknownView,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestConfigurationError(t *testing.T) {
	err := configErr("SetChildren", KindDivider, ErrChildrenForbidden)

	if got, want := err.Error(), "listctl: SetChildren divider: kind cannot have children"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrChildrenForbidden) {
		t.Error("ConfigurationError should unwrap to its sentinel")
	}

	noKind := configErr("BuildTree", "", ErrMissingRoot)
	if got, want := noKind.Error(), "listctl: BuildTree: tree builder returned no root"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConfigurationErrorFromBuilder(t *testing.T) {
	err := NewText("x").SetChildren("y")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := strings.Count(err.Error(), "listctl:"); got != 1 {
		t.Errorf("Error() = %q, want the package prefix once", err.Error())
	}
}

func TestIsConfigurationError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ConfigurationError", configErr("New", KindFilter, ErrMissingName), true},
		{"wrapped", fmt.Errorf("wrapped: %w", configErr("New", KindFilter, ErrMissingName)), true},
		{"bare sentinel", ErrMissingName, false},
		{"other error", errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigurationError(tt.err); got != tt.expect {
				t.Errorf("IsConfigurationError() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestIsBindStateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrNotBound", ErrNotBound, true},
		{"ErrBindClosed", ErrBindClosed, true},
		{"wrapped", fmt.Errorf("wrapped: %w", ErrBindClosed), true},
		{"other", ErrMissingRoot, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBindStateError(tt.err); got != tt.expect {
				t.Errorf("IsBindStateError() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestIsTokenError(t *testing.T) {
	if !IsTokenError(fmt.Errorf("%w: bad", ErrInvalidToken)) {
		t.Error("wrapped ErrInvalidToken not detected")
	}
	if IsTokenError(ErrNotBound) {
		t.Error("ErrNotBound reported as token error")
	}
	if !IsUnknownView(fmt.Errorf("%w: %q", ErrUnknownView, "x")) {
		t.Error("wrapped ErrUnknownView not detected")
	}
}
