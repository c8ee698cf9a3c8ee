// Package netconf models the link configuration consumed by the host's
// network manager and the priority-based merge that produces it. Each side
// of a container link (host, container) is resolved from a stack of layers:
// a kind-specific baseline, optional explicit defaults, the operator's
// override, and forced values. Merging is field-wise: the highest-priority
// layer that explicitly sets a field wins, unset fields fall through.
package netconf

import "sort"

// Priority orders the layers of a link-configuration merge.
type Priority int

const (
	PriorityBaseline Priority = iota
	PriorityDefault
	PriorityOverride
	PriorityForced
)

// DHCPServerConfig is the one nested sub-table of a link configuration.
// It merges one level down with the same field-wise rule as the top level.
type DHCPServerConfig struct {
	EmitDNS    *bool    `mapstructure:"emit_dns" yaml:"emit_dns,omitempty"`
	DNS        []string `mapstructure:"dns" yaml:"dns,omitempty"`
	PoolOffset *int     `mapstructure:"pool_offset" yaml:"pool_offset,omitempty"`
	PoolSize   *int     `mapstructure:"pool_size" yaml:"pool_size,omitempty"`
}

// LinkConfig is a partial link configuration. Nil pointer (or nil slice)
// means "not set by this layer"; list-valued fields replace the lower
// layer's list wholesale, they are never concatenated across layers.
type LinkConfig struct {
	Addresses           []string          `mapstructure:"addresses" yaml:"addresses,omitempty"`
	DHCP                *string           `mapstructure:"dhcp" yaml:"dhcp,omitempty"`
	DHCPServer          *bool             `mapstructure:"dhcp_server" yaml:"dhcp_server,omitempty"`
	DHCPServerConfig    *DHCPServerConfig `mapstructure:"dhcp_server_config" yaml:"dhcp_server_config,omitempty"`
	IPMasquerade        *string           `mapstructure:"ip_masquerade" yaml:"ip_masquerade,omitempty"`
	LinkLocalAddressing *string           `mapstructure:"link_local_addressing" yaml:"link_local_addressing,omitempty"`
	MulticastDNS        *bool             `mapstructure:"multicast_dns" yaml:"multicast_dns,omitempty"`
	IPv6AcceptRA        *bool             `mapstructure:"ipv6_accept_ra" yaml:"ipv6_accept_ra,omitempty"`
	IPv6SendRA          *bool             `mapstructure:"ipv6_send_ra" yaml:"ipv6_send_ra,omitempty"`
}

// Layer is one entry in a merge stack.
type Layer struct {
	Priority Priority
	Config   LinkConfig
}

// Merge folds a stack of layers into the final link configuration. Layer
// order in the argument list breaks ties between equal priorities (later
// wins), though in practice each priority appears at most once.
func Merge(layers ...Layer) LinkConfig {
	sorted := make([]Layer, len(layers))
	copy(sorted, layers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	var out LinkConfig
	for _, l := range sorted {
		applyLayer(&out, &l.Config)
	}
	return out
}

func applyLayer(dst, src *LinkConfig) {
	if src.Addresses != nil {
		dst.Addresses = append([]string(nil), src.Addresses...)
	}
	if src.DHCP != nil {
		dst.DHCP = ptrCopy(src.DHCP)
	}
	if src.DHCPServer != nil {
		dst.DHCPServer = ptrCopy(src.DHCPServer)
	}
	if src.DHCPServerConfig != nil {
		if dst.DHCPServerConfig == nil {
			dst.DHCPServerConfig = &DHCPServerConfig{}
		}
		applyDHCPServerLayer(dst.DHCPServerConfig, src.DHCPServerConfig)
	}
	if src.IPMasquerade != nil {
		dst.IPMasquerade = ptrCopy(src.IPMasquerade)
	}
	if src.LinkLocalAddressing != nil {
		dst.LinkLocalAddressing = ptrCopy(src.LinkLocalAddressing)
	}
	if src.MulticastDNS != nil {
		dst.MulticastDNS = ptrCopy(src.MulticastDNS)
	}
	if src.IPv6AcceptRA != nil {
		dst.IPv6AcceptRA = ptrCopy(src.IPv6AcceptRA)
	}
	if src.IPv6SendRA != nil {
		dst.IPv6SendRA = ptrCopy(src.IPv6SendRA)
	}
}

func applyDHCPServerLayer(dst, src *DHCPServerConfig) {
	if src.EmitDNS != nil {
		dst.EmitDNS = ptrCopy(src.EmitDNS)
	}
	if src.DNS != nil {
		dst.DNS = append([]string(nil), src.DNS...)
	}
	if src.PoolOffset != nil {
		dst.PoolOffset = ptrCopy(src.PoolOffset)
	}
	if src.PoolSize != nil {
		dst.PoolSize = ptrCopy(src.PoolSize)
	}
}

func ptrCopy[T any](p *T) *T {
	v := *p
	return &v
}

// Ptr returns a pointer to v, for building layers inline.
func Ptr[T any](v T) *T {
	return &v
}
