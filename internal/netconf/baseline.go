package netconf

import "spawnc/internal/netif"

// Address pools handed to the network manager for the host side of a link.
// The 0.0.0.0 form asks the manager to pick an unused range from the
// private pool; the prefix length depends on the link kind. A /30 is enough
// for a point-to-point pair, a /27 leaves room for a zone's members. Every
// host link also carries a fixed IPv6 link-local address.
const (
	bridgeAddressPool = "0.0.0.0/27"
	vethAddressPool   = "0.0.0.0/30"
	linkLocalAddress  = "fe80::1/64"
)

// ContainerInterface is the interface name seen from inside the container,
// fixed by the isolation layer regardless of the host-side link name.
const ContainerInterface = "host0"

// HostBaseline is the lowest-priority layer for the host side of a
// container link: the host acts as DHCP server and IPv4 masquerading
// gateway for the container's traffic.
func HostBaseline(kind netif.Kind) Layer {
	pool := vethAddressPool
	if kind == netif.KindBridge {
		pool = bridgeAddressPool
	}
	return Layer{
		Priority: PriorityBaseline,
		Config: LinkConfig{
			Addresses:  []string{pool, linkLocalAddress},
			DHCPServer: Ptr(true),
			DHCPServerConfig: &DHCPServerConfig{
				EmitDNS: Ptr(true),
			},
			IPMasquerade: Ptr("both"),
			IPv6SendRA:   Ptr(true),
		},
	}
}

// ContainerBaseline is the lowest-priority layer for the container side of
// a link: a plain DHCP client with link-local addressing and multicast
// discovery enabled.
func ContainerBaseline() Layer {
	return Layer{
		Priority: PriorityBaseline,
		Config: LinkConfig{
			DHCP:                Ptr("yes"),
			LinkLocalAddressing: Ptr("yes"),
			MulticastDNS:        Ptr(true),
			IPv6AcceptRA:        Ptr(true),
		},
	}
}

// Match selects the links a configuration applies to, by name and kind.
type Match struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind,omitempty"`
}

// Unit is a complete, resolved link-configuration payload for one side of
// a container link.
type Unit struct {
	Match Match      `yaml:"match"`
	Link  LinkConfig `yaml:"link"`
}

// HostUnit resolves the host-side payload for an interface assignment,
// layering the operator override (if any) over the kind baseline.
func HostUnit(a *netif.Assignment, override *LinkConfig) Unit {
	layers := []Layer{HostBaseline(a.Kind)}
	if override != nil {
		layers = append(layers, Layer{Priority: PriorityOverride, Config: *override})
	}
	return Unit{
		Match: Match{Name: a.Name, Kind: string(a.Kind)},
		Link:  Merge(layers...),
	}
}

// ContainerUnit resolves the container-side payload, layering the operator
// override (if any) over the client baseline. The match is always the
// container's fixed inner interface.
func ContainerUnit(override *LinkConfig) Unit {
	layers := []Layer{ContainerBaseline()}
	if override != nil {
		layers = append(layers, Layer{Priority: PriorityOverride, Config: *override})
	}
	return Unit{
		Match: Match{Name: ContainerInterface},
		Link:  Merge(layers...),
	}
}
