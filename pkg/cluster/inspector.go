package cluster

import (
	"context"
	"strings"
	"time"

	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/remote"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

const (
	// DefaultTTL is how long availability snapshots are served from cache.
	DefaultTTL = 60 * time.Second
)

// Inspector answers "what's free on this cluster right now", with a short
// cache so a busy dashboard doesn't hammer remote scheduler commands.
//
// Failures are explicit: a host whose inspection command fails returns an
// error, never an empty snapshot, so callers can tell "no GPUs free" apart
// from "couldn't determine availability".
type Inspector struct {
	ch    remote.Channel
	cache Cache
}

// NewInspector returns an Inspector. A nil cache gets the default TTL cache.
func NewInspector(ch remote.Channel, cache Cache) *Inspector {
	if cache == nil {
		cache = NewTTLCache(DefaultTTL, nil)
	}
	return &Inspector{ch: ch, cache: cache}
}

// GetAvailability returns a host's resource snapshot, from cache when fresh.
// Cached results carry Cached=true and their age.
func (i *Inspector) GetAvailability(ctx context.Context, host *structs.RemoteHost) (*structs.ResourceSnapshot, error) {
	if snap, age, ok := i.cache.Get(host.Name); ok {
		out := *snap // shallow copy so the cached entry's flags stay pristine
		out.Cached = true
		out.CacheAgeSeconds = int(age.Seconds())
		return &out, nil
	}

	res, err := i.ch.Execute(ctx, host, slurm.InspectCommand())
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "inspect",
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	nodes, pending := slurm.SplitInspectOutput(res.Stdout)
	snap := slurm.BuildSnapshot(host.Name, nodes, pending)
	snap.CollectedAt = time.Now().Unix()
	filterGPUTypes(snap, host.AllowedGPUTypes)

	i.cache.Put(host.Name, snap)
	return snap, nil
}

// GetPartitions returns the partitions jobs may target on a host, from cache
// when fresh. Hosts with a configured allow-list skip the remote query
// entirely.
func (i *Inspector) GetPartitions(ctx context.Context, host *structs.RemoteHost) ([]string, error) {
	if len(host.AllowedPartitions) > 0 {
		return append([]string{}, host.AllowedPartitions...), nil
	}
	if parts, ok := i.cache.GetPartitions(host.Name); ok {
		return parts, nil
	}

	res, err := i.ch.Execute(ctx, host, slurm.PartitionsCommand())
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  slurm.PartitionsCommand(),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	parts := slurm.ParsePartitions(res.Stdout)
	if len(parts) == 0 {
		return nil, &errors.ParseError{Source: "sinfo", Detail: "no partitions in output"}
	}
	i.cache.PutPartitions(host.Name, parts)
	return parts, nil
}

// filterGPUTypes drops accelerator types the host's config doesn't allow and
// recomputes the free total. Snapshot types are lowercased by the parser so
// the allow-list match is case-insensitive.
func filterGPUTypes(snap *structs.ResourceSnapshot, allowed []string) {
	if len(allowed) == 0 {
		return
	}
	ok := map[string]bool{}
	for _, a := range allowed {
		ok[strings.ToLower(a)] = true
	}

	kept := []structs.GPUAvailability{}
	free := 0
	for _, g := range snap.GPUs {
		if !ok[g.GPUType] {
			continue
		}
		kept = append(kept, g)
		free += g.Available
	}
	snap.GPUs = kept
	snap.TotalFreeGPUs = free
}
