package container

import (
	"fmt"
	"regexp"
	"sort"

	"spawnc/internal/netconf"
)

// Network modes. "veth" gives the container a dedicated point-to-point link
// to the host, "zone" attaches it to a shared bridge named by Zone, "none"
// disables container networking entirely.
const (
	ModeNone = "none"
	ModeVeth = "veth"
	ModeZone = "zone"
)

// Network describes how a container attaches to the host network.
type Network struct {
	Mode string `mapstructure:"mode"`
	Zone string `mapstructure:"zone"`
}

// BindSpec describes one mount from the host into the container.
// HostPath defaults to ContainerPath when empty; the default is applied at
// serialization time, not stored back into the spec.
type BindSpec struct {
	ContainerPath string   `mapstructure:"container_path"`
	HostPath      string   `mapstructure:"host_path"`
	Options       []string `mapstructure:"options"`
	ReadOnly      bool     `mapstructure:"read_only"`
}

// Definition is the operator-authored desired state for one container.
// Exactly one of Config (an inline NixOS configuration) and SystemPath
// (a prebuilt system closure) must be set.
type Definition struct {
	Name             string     `mapstructure:"-"`
	AutoStart        bool       `mapstructure:"auto_start"`
	RestartIfChanged bool       `mapstructure:"restart_on_change"`
	Network          Network    `mapstructure:"network"`
	Binds            []BindSpec `mapstructure:"bind"`
	Config           string     `mapstructure:"config"`
	SystemPath       string     `mapstructure:"system_path"`

	// Operator override layers for the generated link configurations.
	// Unset fields fall through to the per-kind baseline.
	HostNetwork      *netconf.LinkConfig `mapstructure:"host_network"`
	ContainerNetwork *netconf.LinkConfig `mapstructure:"container_network"`
}

// validNamePattern constrains names to what is safe as both a filesystem
// path segment and an interface-name fragment.
var validNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_-]*$`)

// Validate checks a single definition for internal consistency.
func (d *Definition) Validate() error {
	if !validNamePattern.MatchString(d.Name) {
		return fmt.Errorf("container %q: %w", d.Name, ErrInvalidName)
	}

	if (d.Config == "") == (d.SystemPath == "") {
		return fmt.Errorf("container %q: %w", d.Name, ErrConflictingSource)
	}

	switch d.Network.Mode {
	case ModeNone, ModeVeth:
		if d.Network.Zone != "" {
			return fmt.Errorf("container %q: zone %q requires network mode %q", d.Name, d.Network.Zone, ModeZone)
		}
	case ModeZone:
		if d.Network.Zone == "" {
			return fmt.Errorf("container %q: network mode %q requires a zone", d.Name, ModeZone)
		}
	default:
		return fmt.Errorf("container %q: unknown network mode %q", d.Name, d.Network.Mode)
	}

	seen := make(map[string]struct{}, len(d.Binds))
	for _, b := range d.Binds {
		if b.ContainerPath == "" {
			return fmt.Errorf("container %q: %w: empty container path", d.Name, ErrInvalidBindSpec)
		}
		if _, dup := seen[b.ContainerPath]; dup {
			return fmt.Errorf("container %q: %w: duplicate container path %q", d.Name, ErrInvalidBindSpec, b.ContainerPath)
		}
		seen[b.ContainerPath] = struct{}{}
	}

	return nil
}

// ValidateSet checks a whole definition set: per-definition consistency plus
// name uniqueness across the set.
func ValidateSet(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for i := range defs {
		d := &defs[i]
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("container %q: %w", d.Name, ErrDuplicateContainerName)
		}
		seen[d.Name] = struct{}{}

		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SortByName orders a definition set by container name in place so every
// downstream artifact collection inherits a deterministic order.
func SortByName(defs []Definition) {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
}
