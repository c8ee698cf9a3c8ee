package nixeval

import (
	"strings"
	"testing"

	"spawnc/internal/netconf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression_ForcedInputs(t *testing.T) {
	expr := Expression("web", Request{Config: "{ ... }: { }"})

	assert.Contains(t, expr, "boot.isContainer = lib.mkForce true;")
	assert.Contains(t, expr, `networking.hostName = lib.mkDefault "web";`)
	assert.Contains(t, expr, "nixpkgs.hostPlatform = lib.mkDefault builtins.currentSystem;")
	assert.Contains(t, expr, "config.system.build.toplevel")
}

func TestExpression_VethOpensServiceDiscovery(t *testing.T) {
	withVeth := Expression("web", Request{Config: "{ ... }: { }", Veth: true})
	assert.Contains(t, withVeth, "networking.firewall.allowedTCPPorts = [ 5353 ];")
	assert.Contains(t, withVeth, "networking.firewall.allowedUDPPorts = [ 5353 ];")

	without := Expression("web", Request{Config: "{ ... }: { }"})
	assert.NotContains(t, without, "allowedTCPPorts")
	assert.NotContains(t, without, "allowedUDPPorts")
}

func TestExpression_InjectedNetwork(t *testing.T) {
	network := netconf.ContainerUnit(nil)
	expr := Expression("web", Request{Config: "{ ... }: { }", Network: &network})

	assert.Contains(t, expr, `systemd.network.networks."20-host0"`)
	assert.Contains(t, expr, `matchConfig.Name = "host0";`)
	assert.Contains(t, expr, `DHCP = "yes";`)
	assert.Contains(t, expr, "MulticastDNS = true;")
}

func TestExpression_InjectedNetworkHonorsOverride(t *testing.T) {
	override := netconf.LinkConfig{DHCP: netconf.Ptr("no")}
	network := netconf.ContainerUnit(&override)
	expr := Expression("web", Request{Config: "{ ... }: { }", Network: &network})

	assert.Contains(t, expr, `DHCP = "no";`)
	assert.NotContains(t, expr, `DHCP = "yes";`)
}

func TestExpression_ModuleReferences(t *testing.T) {
	expr := Expression("web", Request{
		Config:   "./containers/web.nix",
		Overlays: []string{"/etc/spawnc/overlays/hardening.nix", "{ ... }: { }"},
	})

	// Paths are imported as-is, inline expressions get parenthesized.
	assert.Contains(t, expr, "      ./containers/web.nix\n")
	assert.Contains(t, expr, "      /etc/spawnc/overlays/hardening.nix\n")
	assert.Contains(t, expr, "      ({ ... }: { })\n")
}

func TestExpression_ForcedComesBeforeOverlays(t *testing.T) {
	expr := Expression("web", Request{Config: "./web.nix", Overlays: []string{"./overlay.nix"}})

	idxForced := strings.Index(expr, "forced\n")
	idxConfig := strings.Index(expr, "./web.nix")
	idxOverlay := strings.Index(expr, "./overlay.nix")
	require.NotEqual(t, -1, idxForced)
	require.NotEqual(t, -1, idxConfig)
	require.NotEqual(t, -1, idxOverlay)
	assert.Less(t, idxForced, idxConfig)
	assert.Less(t, idxConfig, idxOverlay)
}

func TestExpression_Deterministic(t *testing.T) {
	req := Request{Config: "./web.nix", Overlays: []string{"./a.nix", "./b.nix"}, Veth: true}
	assert.Equal(t, Expression("web", req), Expression("web", req))
}
