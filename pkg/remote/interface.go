package remote

import (
	"context"

	"github.com/voidshard/slipway/pkg/structs"
)

// Result is the outcome of a remote command that actually ran.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Channel executes commands & moves files on named remote hosts.
//
// Implementations must be safe for concurrent use across hosts; calls against
// the same host may serialize internally (session reuse is per-host
// sequential) but must never block operations on other hosts.
type Channel interface {
	// Execute runs a command on the host and returns stdout, stderr & exit
	// code. A non-zero exit is not an error here; callers that require
	// success should check Result.ExitCode (or use the typed errors in
	// pkg/errors). An error return means we couldn't run the command at all.
	Execute(ctx context.Context, host *structs.RemoteHost, command string) (*Result, error)

	// Upload writes the given bytes to a file on the host.
	Upload(ctx context.Context, host *structs.RemoteHost, data []byte, remotePath string) error

	// EnsureDir creates a directory (and parents) on the host.
	// Idempotent; an existing directory is not an error.
	EnsureDir(ctx context.Context, host *structs.RemoteHost, path string) error

	// TestReachability dials the host and runs a trivial command, returning
	// a structured result. Network-level failure is reported in the result,
	// never as an error; only misconfiguration errors.
	TestReachability(ctx context.Context, host *structs.RemoteHost) (*structs.ConnectionResult, error)

	// Close tears down any cached connections.
	Close() error
}
