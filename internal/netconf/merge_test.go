package netconf

import (
	"testing"

	"spawnc/internal/netif"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OverrideWinsPerField(t *testing.T) {
	base := Layer{Priority: PriorityBaseline, Config: LinkConfig{
		DHCPServer:   Ptr(true),
		IPMasquerade: Ptr("both"),
	}}
	override := Layer{Priority: PriorityOverride, Config: LinkConfig{
		IPMasquerade: Ptr("no"),
	}}

	merged := Merge(base, override)

	// Overridden field takes the operator value, untouched field falls
	// through to the baseline.
	require.NotNil(t, merged.IPMasquerade)
	assert.Equal(t, "no", *merged.IPMasquerade)
	require.NotNil(t, merged.DHCPServer)
	assert.True(t, *merged.DHCPServer)
}

func TestMerge_PriorityOrderNotArgumentOrder(t *testing.T) {
	override := Layer{Priority: PriorityOverride, Config: LinkConfig{DHCP: Ptr("ipv4")}}
	base := Layer{Priority: PriorityBaseline, Config: LinkConfig{DHCP: Ptr("yes")}}

	merged := Merge(override, base)
	require.NotNil(t, merged.DHCP)
	assert.Equal(t, "ipv4", *merged.DHCP)
}

func TestMerge_ForcedBeatsOverride(t *testing.T) {
	merged := Merge(
		Layer{Priority: PriorityForced, Config: LinkConfig{DHCP: Ptr("yes")}},
		Layer{Priority: PriorityOverride, Config: LinkConfig{DHCP: Ptr("no")}},
	)
	require.NotNil(t, merged.DHCP)
	assert.Equal(t, "yes", *merged.DHCP)
}

func TestMerge_ListsReplaceNotConcatenate(t *testing.T) {
	base := Layer{Priority: PriorityBaseline, Config: LinkConfig{
		Addresses: []string{"0.0.0.0/30", "fe80::1/64"},
	}}
	override := Layer{Priority: PriorityOverride, Config: LinkConfig{
		Addresses: []string{"10.10.0.1/24"},
	}}

	merged := Merge(base, override)
	assert.Equal(t, []string{"10.10.0.1/24"}, merged.Addresses)
}

func TestMerge_SubTableMergesOneLevelDown(t *testing.T) {
	base := Layer{Priority: PriorityBaseline, Config: LinkConfig{
		DHCPServerConfig: &DHCPServerConfig{EmitDNS: Ptr(true)},
	}}
	override := Layer{Priority: PriorityOverride, Config: LinkConfig{
		DHCPServerConfig: &DHCPServerConfig{DNS: []string{"9.9.9.9"}},
	}}

	merged := Merge(base, override)
	require.NotNil(t, merged.DHCPServerConfig)
	require.NotNil(t, merged.DHCPServerConfig.EmitDNS)
	assert.True(t, *merged.DHCPServerConfig.EmitDNS)
	assert.Equal(t, []string{"9.9.9.9"}, merged.DHCPServerConfig.DNS)
}

func TestMerge_DoesNotAliasLayerPayloads(t *testing.T) {
	addrs := []string{"10.0.0.1/24"}
	base := Layer{Priority: PriorityBaseline, Config: LinkConfig{Addresses: addrs}}

	merged := Merge(base)
	addrs[0] = "changed"
	assert.Equal(t, []string{"10.0.0.1/24"}, merged.Addresses)
}

func TestHostUnit_BaselineOnly(t *testing.T) {
	a, err := netif.Allocate("web", "")
	require.NoError(t, err)

	u := HostUnit(a, nil)
	assert.Equal(t, "ve-web", u.Match.Name)
	assert.Equal(t, "veth", u.Match.Kind)
	assert.Equal(t, []string{"0.0.0.0/30", "fe80::1/64"}, u.Link.Addresses)
	require.NotNil(t, u.Link.DHCPServer)
	assert.True(t, *u.Link.DHCPServer)
	require.NotNil(t, u.Link.IPMasquerade)
	assert.Equal(t, "both", *u.Link.IPMasquerade)
}

func TestHostUnit_BridgePrefixLength(t *testing.T) {
	a, err := netif.Allocate("web", "dmz")
	require.NoError(t, err)

	u := HostUnit(a, nil)
	assert.Equal(t, "vz-dmz", u.Match.Name)
	assert.Equal(t, "bridge", u.Match.Kind)
	assert.Equal(t, []string{"0.0.0.0/27", "fe80::1/64"}, u.Link.Addresses)
}

func TestContainerUnit_BaselineOnly(t *testing.T) {
	u := ContainerUnit(nil)
	assert.Equal(t, ContainerInterface, u.Match.Name)
	require.NotNil(t, u.Link.DHCP)
	assert.Equal(t, "yes", *u.Link.DHCP)
	require.NotNil(t, u.Link.MulticastDNS)
	assert.True(t, *u.Link.MulticastDNS)
	require.NotNil(t, u.Link.IPv6AcceptRA)
	assert.True(t, *u.Link.IPv6AcceptRA)
	assert.Nil(t, u.Link.DHCPServer)
}

func TestUnit_RenderDeterministic(t *testing.T) {
	a, err := netif.Allocate("web", "")
	require.NoError(t, err)

	u := HostUnit(a, &LinkConfig{
		DHCPServerConfig: &DHCPServerConfig{DNS: []string{"9.9.9.9"}, PoolOffset: Ptr(2)},
	})

	want := `[Match]
Name=ve-web
Kind=veth

[Network]
Address=0.0.0.0/30
Address=fe80::1/64
DHCPServer=yes
IPMasquerade=both
IPv6SendRA=yes

[DHCPServer]
EmitDNS=yes
DNS=9.9.9.9
PoolOffset=2
`
	assert.Equal(t, want, u.Render())
	assert.Equal(t, u.Render(), u.Render())
}
