/*Package config loads static host definitions.

Hosts are read once at process start; changing the file requires a
restart.
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/structs"
)

type hostsFile struct {
	Hosts []*structs.RemoteHost `yaml:"hosts"`
}

// Hosts is a read-only set of remote host definitions keyed by name.
type Hosts struct {
	byName map[string]*structs.RemoteHost
	order  []string
}

// LoadHosts reads host definitions from a YAML file.
func LoadHosts(path string) (*Hosts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w failed to read host config %s: %v", errors.ErrInvalidArg, path, err)
	}
	return parseHosts(data)
}

func parseHosts(data []byte) (*Hosts, error) {
	f := &hostsFile{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w failed to parse host config: %v", errors.ErrInvalidArg, err)
	}
	if len(f.Hosts) == 0 {
		// catches garbage yaml scalars as well as genuinely empty files
		return nil, fmt.Errorf("%w no hosts defined in config", errors.ErrInvalidArg)
	}
	return NewHosts(f.Hosts)
}

// NewHosts builds a host set from already-loaded definitions.
func NewHosts(hosts []*structs.RemoteHost) (*Hosts, error) {
	hs := &Hosts{byName: map[string]*structs.RemoteHost{}}
	for _, h := range hosts {
		if h.Name == "" {
			return nil, fmt.Errorf("%w host with empty name", errors.ErrInvalidArg)
		}
		if h.Address == "" || h.User == "" {
			return nil, fmt.Errorf("%w host %s missing address or user", errors.ErrInvalidArg, h.Name)
		}
		if _, ok := hs.byName[h.Name]; ok {
			return nil, fmt.Errorf("%w duplicate host %s", errors.ErrInvalidArg, h.Name)
		}
		hs.byName[h.Name] = h
		hs.order = append(hs.order, h.Name)
	}
	return hs, nil
}

// Get returns the host with the given name, or nil.
func (h *Hosts) Get(name string) *structs.RemoteHost {
	return h.byName[name]
}

// All returns hosts in file order.
func (h *Hosts) All() []*structs.RemoteHost {
	out := make([]*structs.RemoteHost, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, h.byName[name])
	}
	return out
}
