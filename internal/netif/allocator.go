// Package netif derives the host-side network interface identity for a
// container from its declared network mode. Point-to-point containers get a
// dedicated "ve-<name>" veth link; zoned containers share a "vz-<zone>"
// bridge with every other container naming the same zone.
package netif

import (
	"errors"
	"fmt"
)

// MaxNameLen is the kernel limit on interface names (IFNAMSIZ minus the
// trailing NUL).
const MaxNameLen = 15

const (
	vethPrefix   = "ve-"
	bridgePrefix = "vz-"
)

// Kind is the link kind of an allocated interface.
type Kind string

const (
	KindVeth   Kind = "veth"
	KindBridge Kind = "bridge"
)

// ErrNameTooLong reports a composed interface name exceeding MaxNameLen.
// The fix is a shorter container or zone name; the allocator never
// truncates silently.
var ErrNameTooLong = errors.New("interface name exceeds 15 characters")

// Assignment is the derived network identity for one container.
type Assignment struct {
	Name string
	Kind Kind
	Zone string
}

// Allocate derives the interface assignment for a container. A zone selects
// the shared bridge for that zone; otherwise the container gets its own
// point-to-point link. Returns nil for containers without networking.
func Allocate(containerName, zone string) (*Assignment, error) {
	a := &Assignment{}
	if zone != "" {
		a.Name = bridgePrefix + zone
		a.Kind = KindBridge
		a.Zone = zone
	} else {
		a.Name = vethPrefix + containerName
		a.Kind = KindVeth
	}

	if len(a.Name) > MaxNameLen {
		return nil, fmt.Errorf("container %q: %w: %q", containerName, ErrNameTooLong, a.Name)
	}
	return a, nil
}
