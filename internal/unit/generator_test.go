package unit

import (
	"testing"

	"spawnc/internal/mounts"
	"spawnc/internal/netif"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMounts() mounts.Lists {
	return mounts.Lists{
		Bind:         []string{"/srv:/srv"},
		BindReadOnly: []string{"/nix/store:/nix/store:idmap"},
	}
}

func TestGenerate_ExecParams(t *testing.T) {
	a := Generate("web", "/nix/store/aaa-system", testMounts(), nil)

	assert.True(t, a.Exec.Ephemeral)
	assert.False(t, a.Exec.Boot)
	assert.Equal(t, []string{"/nix/store/aaa-system/init"}, a.Exec.Parameters)
	assert.Equal(t, "pick", a.Exec.PrivateUsers)
	assert.Equal(t, "host", a.Exec.LinkJournal)
	assert.Equal(t, "off", a.Exec.Timezone)
	assert.Equal(t, "SIGRTMIN+4", a.Exec.KillSignal)
}

func TestGenerate_FilesParams(t *testing.T) {
	a := Generate("web", "/nix/store/aaa-system", testMounts(), nil)

	assert.Equal(t, "chown", a.Files.PrivateUsersOwnership)
	assert.Equal(t, []string{"/srv:/srv"}, a.Files.Bind)
	assert.Equal(t, []string{"/nix/store:/nix/store:idmap"}, a.Files.BindReadOnly)
}

func TestGenerate_NetworkDisabled(t *testing.T) {
	a := Generate("web", "/nix/store/aaa-system", testMounts(), nil)

	assert.True(t, a.Network.Private)
	assert.False(t, a.Network.VirtualEthernet)
	assert.Empty(t, a.Network.Zone)
}

func TestGenerate_NetworkVeth(t *testing.T) {
	assignment, err := netif.Allocate("web", "")
	require.NoError(t, err)

	a := Generate("web", "/nix/store/aaa-system", testMounts(), assignment)
	assert.True(t, a.Network.Private)
	assert.True(t, a.Network.VirtualEthernet)
	assert.Empty(t, a.Network.Zone)
}

func TestGenerate_NetworkZone(t *testing.T) {
	assignment, err := netif.Allocate("db", "backend")
	require.NoError(t, err)

	a := Generate("db", "/nix/store/bbb-system", testMounts(), assignment)
	assert.True(t, a.Network.VirtualEthernet)
	assert.Equal(t, "backend", a.Network.Zone)
}

func TestArtifact_Render(t *testing.T) {
	assignment, err := netif.Allocate("web", "")
	require.NoError(t, err)

	a := Generate("web", "/nix/store/aaa-system", testMounts(), assignment)
	want := `[Exec]
Ephemeral=yes
Boot=no
Parameters=/nix/store/aaa-system/init
PrivateUsers=pick
LinkJournal=host
Timezone=off
KillSignal=SIGRTMIN+4

[Files]
PrivateUsersOwnership=chown
Bind=/srv:/srv
BindReadOnly=/nix/store:/nix/store:idmap

[Network]
Private=yes
VirtualEthernet=yes
`
	assert.Equal(t, want, a.Render())
}

func TestArtifact_RenderZone(t *testing.T) {
	assignment, err := netif.Allocate("db", "backend")
	require.NoError(t, err)

	a := Generate("db", "/nix/store/bbb-system", mounts.Lists{}, assignment)
	assert.Contains(t, a.Render(), "Zone=backend\n")
}
