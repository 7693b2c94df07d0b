package snmp

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a translator or attribute has no defined
// behavior for the requested direction (e.g. encoding a MAC address, or
// removing a remote attribute).
var ErrUnsupported = errors.New("operation not supported")

// FormatError indicates that a wire value (or a value to be encoded) does
// not match the syntactic pattern its translator expects.
type FormatError struct {
	Value string
	Msg   string
	Err   error
}

func formatErrf(value string, err error, format string, args ...any) error {
	return &FormatError{value, fmt.Sprintf(format, args...), err}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", e.Msg, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Value)
}

// UnknownVariantError indicates that an enum translator saw a name or wire
// value with no mapping.
type UnknownVariantError struct {
	Enum  string
	Value string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s has no variant for %q", e.Enum, e.Value)
}

// WriteVerificationError indicates that the value read back after a write
// differs from the value the caller intended to write. The write is treated
// as rejected by the hub; the attribute cache is left untouched.
type WriteVerificationError struct {
	OID    string
	Wanted any
	Got    any
}

func (e *WriteVerificationError) Error() string {
	return fmt.Sprintf("%s: hub did not accept %v, read back as %v", e.OID, e.Wanted, e.Got)
}

// RemoteError is what the bundled transports return on communication
// failure or unknown OIDs. Foreign Transport implementations are free to
// return their own error types; this package propagates them unchanged.
type RemoteError struct {
	Op  string // "get", "set" or "walk"
	OID string
	Msg string
	Err error
}

func remoteErrf(op, oid string, err error, format string, args ...any) error {
	return &RemoteError{op, oid, fmt.Sprintf(format, args...), err}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.OID, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.OID, e.Msg)
}
