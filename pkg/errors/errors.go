package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrETagMismatch = fmt.Errorf("etag mismatch")
	ErrInvalidState = fmt.Errorf("invalid state")
	ErrInvalidArg   = fmt.Errorf("invalid arg")
	ErrNotSupported = fmt.Errorf("not supported")
	ErrMaxExceeded  = fmt.Errorf("max length exceeded")

	// sentinels the typed errors below unwrap to, so callers can errors.Is
	// without caring about the concrete type
	ErrValidation    = fmt.Errorf("validation failed")
	ErrTransport     = fmt.Errorf("transport failure")
	ErrRemoteCommand = fmt.Errorf("remote command failed")
	ErrParse         = fmt.Errorf("parse failure")
	ErrTimeout       = fmt.Errorf("timed out")
)

// ValidationError reports every violated constraint of a JobSpec, not just
// the first. It is always surfaced synchronously; no job record exists yet.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrValidation, e.Violations)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransportError means we could not reach or authenticate with a host at all.
// Distinct from RemoteCommandError, where the connection itself worked.
type TransportError struct {
	Host string
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s on %s: %v", ErrTransport, e.Op, e.Host, e.Err)
}

func (e *TransportError) Unwrap() error { return ErrTransport }

// RemoteCommandError means the connection succeeded but the remote command
// exited non-zero. Stderr is preserved (possibly truncated) for diagnosis.
type RemoteCommandError struct {
	Host     string
	Command  string
	ExitCode int
	Stderr   string
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("%v: %q on %s exited %d: %s", ErrRemoteCommand, e.Command, e.Host, e.ExitCode, e.Stderr)
}

func (e *RemoteCommandError) Unwrap() error { return ErrRemoteCommand }

// ParseError means structured output we expected from a remote command did
// not match (no job id in sbatch output, bad JSON from the inspector, etc).
type ParseError struct {
	Source string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrParse, e.Source, e.Detail)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// TimeoutError means a bounded wait on a remote operation was exceeded.
// Retryable, but always surfaced rather than hung.
type TimeoutError struct {
	Host string
	Op   string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v: %s on %s", ErrTimeout, e.Op, e.Host)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }
