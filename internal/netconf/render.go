package netconf

import (
	"fmt"
	"strings"
)

// Render serializes a resolved unit into the network manager's file format.
// Field order is fixed so repeated resolutions of unchanged input are
// byte-identical.
func (u Unit) Render() string {
	var b strings.Builder

	b.WriteString("[Match]\n")
	fmt.Fprintf(&b, "Name=%s\n", u.Match.Name)
	if u.Match.Kind != "" {
		fmt.Fprintf(&b, "Kind=%s\n", u.Match.Kind)
	}

	b.WriteString("\n[Network]\n")
	for _, addr := range u.Link.Addresses {
		fmt.Fprintf(&b, "Address=%s\n", addr)
	}
	writeString(&b, "DHCP", u.Link.DHCP)
	writeBool(&b, "DHCPServer", u.Link.DHCPServer)
	writeString(&b, "IPMasquerade", u.Link.IPMasquerade)
	writeString(&b, "LinkLocalAddressing", u.Link.LinkLocalAddressing)
	writeBool(&b, "MulticastDNS", u.Link.MulticastDNS)
	writeBool(&b, "IPv6AcceptRA", u.Link.IPv6AcceptRA)
	writeBool(&b, "IPv6SendRA", u.Link.IPv6SendRA)

	if s := u.Link.DHCPServerConfig; s != nil {
		b.WriteString("\n[DHCPServer]\n")
		writeBool(&b, "EmitDNS", s.EmitDNS)
		if len(s.DNS) > 0 {
			fmt.Fprintf(&b, "DNS=%s\n", strings.Join(s.DNS, " "))
		}
		writeInt(&b, "PoolOffset", s.PoolOffset)
		writeInt(&b, "PoolSize", s.PoolSize)
	}

	return b.String()
}

func writeString(b *strings.Builder, key string, v *string) {
	if v != nil {
		fmt.Fprintf(b, "%s=%s\n", key, *v)
	}
}

func writeBool(b *strings.Builder, key string, v *bool) {
	if v != nil {
		fmt.Fprintf(b, "%s=%s\n", key, yesNo(*v))
	}
}

func writeInt(b *strings.Builder, key string, v *int) {
	if v != nil {
		fmt.Fprintf(b, "%s=%d\n", key, *v)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
