package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingKey matches every MissingKeyError.
	ErrMissingKey = errors.New("missing config key")
	// ErrUnknownProfile matches every UnknownProfileError.
	ErrUnknownProfile = errors.New("unknown profile")
)

// MissingKeyError reports a key defined neither in the active profile nor in
// DEFAULT.
type MissingKeyError struct {
	Profile string
	Key     string
}

func (e *MissingKeyError) Error() string {
	if e.Profile == DefaultSection {
		return fmt.Sprintf("config key %q is not set", e.Key)
	}
	return fmt.Sprintf("config key %q is not set in profile %q or in %s", e.Key, e.Profile, DefaultSection)
}

func (e *MissingKeyError) Unwrap() error { return ErrMissingKey }

// UnknownProfileError reports a requested profile without a matching section.
type UnknownProfileError struct {
	Name  string
	Path  string
	Known []string
}

func (e *UnknownProfileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "profile %q does not exist", e.Name)
	if e.Path != "" {
		fmt.Fprintf(&sb, " in %s", e.Path)
	} else {
		sb.WriteString(" (no config file found)")
	}
	if len(e.Known) > 0 {
		fmt.Fprintf(&sb, "; known profiles: %s", strings.Join(e.Known, ", "))
	}
	return sb.String()
}

func (e *UnknownProfileError) Unwrap() error { return ErrUnknownProfile }

// ValueError reports a value that cannot be converted to the requested type.
type ValueError struct {
	Key   string
	Value string
	Type  string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("config key %q: cannot parse %q as %s: %v", e.Key, e.Value, e.Type, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }
