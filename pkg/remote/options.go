package remote

import (
	"time"
)

const (
	defaultDialTimeout    = 10 * time.Second
	defaultCommandTimeout = 60 * time.Second
)

// Options for the SSH channel.
type Options struct {
	// DialTimeout bounds connection establishment. Defaults to 10s.
	DialTimeout time.Duration

	// CommandTimeout bounds a single remote command when the caller's
	// context carries no deadline of its own. Defaults to 60s.
	CommandTimeout time.Duration
}

func (o *Options) SetDefaults() {
	if o.DialTimeout <= 0 {
		o.DialTimeout = defaultDialTimeout
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = defaultCommandTimeout
	}
}
