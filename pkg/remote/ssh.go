package remote

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/structs"
)

const (
	defaultPort = "22"

	// stderr kept on RemoteCommandError is capped so a chatty command can't
	// bloat persisted error detail
	maxStderr = 4096
)

// SSHChannel is a Channel implementation over SSH, reusing one authenticated
// connection per host for the lifetime of the process where possible.
type SSHChannel struct {
	opts *Options

	mu    sync.Mutex
	conns map[string]*hostConn
}

// hostConn serializes use of a single host's client.
// Operations against different hosts never contend with each other.
type hostConn struct {
	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHChannel returns a new SSH backed Channel.
func NewSSHChannel(opts *Options) *SSHChannel {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	return &SSHChannel{opts: opts, conns: map[string]*hostConn{}}
}

// Close tears down all cached connections.
func (s *SSHChannel) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, hc := range s.conns {
		hc.mu.Lock()
		if hc.client != nil {
			hc.client.Close()
			hc.client = nil
		}
		hc.mu.Unlock()
	}
	s.conns = map[string]*hostConn{}
	return nil
}

// Execute runs a command on the given host.
func (s *SSHChannel) Execute(ctx context.Context, host *structs.RemoteHost, command string) (*Result, error) {
	return s.run(ctx, host, command, nil)
}

// Upload writes data to remotePath on the host.
// We stream through a remote shell rather than SFTP; it needs nothing but a
// POSIX userland on the far side.
func (s *SSHChannel) Upload(ctx context.Context, host *structs.RemoteHost, data []byte, remotePath string) error {
	res, err := s.run(ctx, host, "cat > "+utils.ShellQuote(remotePath), data)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "upload " + remotePath,
			ExitCode: res.ExitCode,
			Stderr:   truncate(res.Stderr),
		}
	}
	return nil
}

// EnsureDir creates path (and parents) on the host. Idempotent.
func (s *SSHChannel) EnsureDir(ctx context.Context, host *structs.RemoteHost, path string) error {
	res, err := s.run(ctx, host, EnsureDirCommand(path), nil)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "mkdir " + path,
			ExitCode: res.ExitCode,
			Stderr:   truncate(res.Stderr),
		}
	}
	return nil
}

// EnsureDirCommand is the remote command EnsureDir runs; exposed so the
// submission pipeline can batch it with other commands.
func EnsureDirCommand(path string) string {
	return "mkdir -p " + utils.ShellQuote(path)
}

// TestReachability dials the host & runs a trivial command. Network failure
// lands in the result, not in the error; only misconfiguration errors.
func (s *SSHChannel) TestReachability(ctx context.Context, host *structs.RemoteHost) (*structs.ConnectionResult, error) {
	cfg, addr, err := s.clientConfig(host)
	if err != nil {
		return nil, err // bad key path / unparsable key: config problem
	}

	out := &structs.ConnectionResult{Host: host.Name, Address: addr}

	res, err := s.run(ctx, host, "hostname", nil)
	if err != nil {
		out.Message = err.Error()
		if host.RequiresTunnel {
			out.Message += " (host requires a manual tunnel; is it up?)"
		}
		return out, nil
	}
	if res.ExitCode != 0 {
		out.Message = fmt.Sprintf("connected but command exited %d: %s", res.ExitCode, truncate(res.Stderr))
		return out, nil
	}

	out.Reachable = true
	out.Hostname = strings.TrimSpace(res.Stdout)
	out.Message = fmt.Sprintf("connected to %s@%s", cfg.User, addr)
	return out, nil
}

// run executes a command on the host, optionally feeding stdin, reusing the
// cached connection where possible & redialling once if it has gone stale.
func (s *SSHChannel) run(ctx context.Context, host *structs.RemoteHost, command string, stdin []byte) (*Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CommandTimeout)
		defer cancel()
	}

	hc := s.conn(host.Name)
	hc.mu.Lock()
	defer hc.mu.Unlock()

	res, err := s.runLocked(ctx, hc, host, command, stdin)
	if err == nil {
		return res, nil
	}
	if _, stale := err.(*staleConnError); !stale {
		return nil, err
	}

	// the cached connection died under us; drop it and try once more
	hc.client.Close()
	hc.client = nil
	return s.runLocked(ctx, hc, host, command, stdin)
}

// staleConnError marks a failure to open a session on a cached client.
type staleConnError struct{ err error }

func (e *staleConnError) Error() string { return e.err.Error() }

func (s *SSHChannel) runLocked(ctx context.Context, hc *hostConn, host *structs.RemoteHost, command string, stdin []byte) (*Result, error) {
	cached := hc.client != nil
	if !cached {
		client, err := s.dial(ctx, host)
		if err != nil {
			return nil, err
		}
		hc.client = client
	}

	session, err := hc.client.NewSession()
	if err != nil {
		if cached {
			return nil, &staleConnError{err: err}
		}
		return nil, &errors.TransportError{Host: host.Name, Op: "session", Err: err}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if stdin != nil {
		session.Stdin = bytes.NewReader(stdin)
	}

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		// best effort; not all sshds honour signals, but the session is
		// closed by the defer either way
		session.Signal(ssh.SIGKILL)
		return nil, &errors.TimeoutError{Host: host.Name, Op: command}
	case err = <-done:
	}

	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	if exit, ok := err.(*ssh.ExitError); ok {
		res.ExitCode = exit.ExitStatus()
		return res, nil
	}
	return nil, &errors.TransportError{Host: host.Name, Op: "execute", Err: err}
}

func (s *SSHChannel) conn(name string) *hostConn {
	s.mu.Lock()
	defer s.mu.Unlock()
	hc, ok := s.conns[name]
	if !ok {
		hc = &hostConn{}
		s.conns[name] = hc
	}
	return hc
}

func (s *SSHChannel) dial(ctx context.Context, host *structs.RemoteHost) (*ssh.Client, error) {
	cfg, addr, err := s.clientConfig(host)
	if err != nil {
		return nil, err
	}

	d := net.Dialer{Timeout: s.opts.DialTimeout}
	netConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &errors.TransportError{Host: host.Name, Op: "dial", Err: err}
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, cfg)
	if err != nil {
		netConn.Close()
		return nil, &errors.TransportError{Host: host.Name, Op: "handshake", Err: err}
	}

	log.Printf("[SSH] connected %s@%s", cfg.User, addr)
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// clientConfig builds the ssh config for a host. Errors here are
// misconfiguration (missing or unparsable key), not network failures.
func (s *SSHChannel) clientConfig(host *structs.RemoteHost) (*ssh.ClientConfig, string, error) {
	keyPath := host.KeyPath
	if strings.HasPrefix(keyPath, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			keyPath = filepath.Join(home, keyPath[2:])
		}
	}

	pem, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w cannot read key for host %s: %v", errors.ErrInvalidArg, host.Name, err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, "", fmt.Errorf("%w cannot parse key for host %s: %v", errors.ErrInvalidArg, host.Name, err)
	}

	addr := host.Address
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultPort)
	}

	return &ssh.ClientConfig{
		User:            host.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         s.opts.DialTimeout,
	}, addr, nil
}

func truncate(s string) string {
	if len(s) > maxStderr {
		return s[:maxStderr] + "...(truncated)"
	}
	return s
}
