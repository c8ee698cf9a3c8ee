// Package hostcfg derives the host-global artifacts: firewall allowances
// for the dynamically named container interfaces, filesystem bootstrap
// rules for persistent state directories, activation-target membership and
// restart triggers. The whole set is a pure fold over the container set and
// is rebuilt wholesale on every resolution pass.
package hostcfg

import (
	"fmt"
	"sort"
	"strings"
)

// The persistent state directory for a container lives under MachinesDir
// and is pre-created owned by the fixed user-namespace base UID/GID, so
// the range assigned on first boot stays stable afterwards. There is no
// migration path if the base ever changes.
const (
	MachinesDir = "/var/lib/machines"
	BaseUID     = 231072
	BaseGID     = 231072
)

// DHCP and multicast-DNS traffic from containers arrives on interfaces
// whose names are only known at runtime, so the allowances match on the
// two kind prefixes instead of concrete names.
const (
	vethPattern   = "ve-+"
	bridgePattern = "vz-+"
	dhcpPort      = 67
	mdnsPort      = 5353
)

// ActivationTarget is the host's multi-container activation target.
const ActivationTarget = "machines.target"

// Allowance opens a set of ports on interfaces matching a name pattern.
type Allowance struct {
	Interface string `yaml:"interface"`
	TCPPorts  []int  `yaml:"tcp_ports,omitempty"`
	UDPPorts  []int  `yaml:"udp_ports,omitempty"`
}

// TmpfilesRule pre-creates one directory with fixed ownership.
type TmpfilesRule struct {
	Path string `yaml:"path"`
	Mode string `yaml:"mode"`
	UID  int    `yaml:"uid"`
	GID  int    `yaml:"gid"`
}

// Container is the slice of a resolved container this fold consumes.
type Container struct {
	Name             string
	AutoStart        bool
	RestartIfChanged bool
	SystemPath       string
}

// Set is the complete host-global artifact set, keyed and ordered by
// container name.
type Set struct {
	Firewall        []Allowance       `yaml:"firewall,omitempty"`
	Tmpfiles        []TmpfilesRule    `yaml:"tmpfiles,omitempty"`
	Activation      []string          `yaml:"activation,omitempty"`
	RestartTriggers map[string]string `yaml:"restart_triggers,omitempty"`
}

// Build folds the container set into the host artifact set. An empty
// container set yields an empty Set; otherwise the two interface-pattern
// allowances are present exactly once regardless of container count.
func Build(containers []Container) Set {
	var s Set
	if len(containers) == 0 {
		return s
	}

	s.Firewall = []Allowance{
		{Interface: vethPattern, UDPPorts: []int{dhcpPort, mdnsPort}},
		{Interface: bridgePattern, UDPPorts: []int{dhcpPort, mdnsPort}},
	}
	s.RestartTriggers = make(map[string]string)

	sorted := make([]Container, len(containers))
	copy(sorted, containers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, c := range sorted {
		s.Tmpfiles = append(s.Tmpfiles, TmpfilesRule{
			Path: MachinesDir + "/" + c.Name,
			Mode: "0700",
			UID:  BaseUID,
			GID:  BaseGID,
		})
		if c.AutoStart {
			s.Activation = append(s.Activation, c.Name)
		}
		if c.RestartIfChanged {
			s.RestartTriggers[c.Name] = c.SystemPath
		}
	}
	return s
}

// RenderTmpfiles serializes the bootstrap rules in tmpfiles.d line format.
func (s Set) RenderTmpfiles() string {
	var b strings.Builder
	for _, r := range s.Tmpfiles {
		fmt.Fprintf(&b, "d %s %s %d %d -\n", r.Path, r.Mode, r.UID, r.GID)
	}
	return b.String()
}

// RenderFirewall serializes the allowances as an nftables input-chain
// snippet.
func (s Set) RenderFirewall() string {
	if len(s.Firewall) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("table inet containers {\n")
	b.WriteString("\tchain input {\n")
	b.WriteString("\t\ttype filter hook input priority 0; policy accept;\n")
	for _, a := range s.Firewall {
		if len(a.TCPPorts) > 0 {
			fmt.Fprintf(&b, "\t\tiifname \"%s\" tcp dport { %s } accept\n", a.Interface, joinPorts(a.TCPPorts))
		}
		if len(a.UDPPorts) > 0 {
			fmt.Fprintf(&b, "\t\tiifname \"%s\" udp dport { %s } accept\n", a.Interface, joinPorts(a.UDPPorts))
		}
	}
	b.WriteString("\t}\n}\n")
	return b.String()
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
