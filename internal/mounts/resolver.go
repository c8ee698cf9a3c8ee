// Package mounts normalizes a container's bind-mount specs into the
// serialized mount lists the launch unit consumes.
package mounts

import (
	"fmt"
	"sort"
	"strings"

	"spawnc/internal/container"
)

// Every container gets the host's package store bind-mounted read-only,
// with ID-mapped access so the container's user-namespace range sees sane
// ownership.
const (
	storePath   = "/nix/store"
	storeOption = "idmap"
)

// Lists holds the serialized bind-mount lists, partitioned by writability
// and ordered by container path.
type Lists struct {
	Bind         []string
	BindReadOnly []string
}

// Resolve partitions and serializes a container's bind mounts. Each entry
// takes the form "hostPath:containerPath" with an optional trailing
// comma-joined options segment; the host path defaults to the container path
// when unset. The injected store bind participates in the same ordering as
// operator-declared entries.
func Resolve(binds []container.BindSpec) (Lists, error) {
	entries := make([]container.BindSpec, 0, len(binds)+1)
	entries = append(entries, container.BindSpec{
		ContainerPath: storePath,
		HostPath:      storePath,
		Options:       []string{storeOption},
		ReadOnly:      true,
	})

	seen := map[string]struct{}{storePath: {}}
	for _, b := range binds {
		if b.ContainerPath == "" {
			return Lists{}, fmt.Errorf("%w: empty container path", container.ErrInvalidBindSpec)
		}
		if _, dup := seen[b.ContainerPath]; dup {
			return Lists{}, fmt.Errorf("%w: duplicate container path %q", container.ErrInvalidBindSpec, b.ContainerPath)
		}
		seen[b.ContainerPath] = struct{}{}
		entries = append(entries, b)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ContainerPath < entries[j].ContainerPath })

	var out Lists
	for _, e := range entries {
		s := serialize(e)
		if e.ReadOnly {
			out.BindReadOnly = append(out.BindReadOnly, s)
		} else {
			out.Bind = append(out.Bind, s)
		}
	}
	return out, nil
}

func serialize(b container.BindSpec) string {
	host := b.HostPath
	if host == "" {
		host = b.ContainerPath
	}
	s := host + ":" + b.ContainerPath
	if len(b.Options) > 0 {
		s += ":" + strings.Join(b.Options, ",")
	}
	return s
}
