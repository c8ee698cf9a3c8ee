package mounts

import (
	"testing"

	"spawnc/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_InjectsStoreBind(t *testing.T) {
	lists, err := Resolve(nil)
	require.NoError(t, err)

	assert.Empty(t, lists.Bind)
	assert.Equal(t, []string{"/nix/store:/nix/store:idmap"}, lists.BindReadOnly)
}

func TestResolve_Serialization(t *testing.T) {
	lists, err := Resolve([]container.BindSpec{
		{ContainerPath: "/var/lib/x", HostPath: "/data", Options: []string{"idmap"}, ReadOnly: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/data:/var/lib/x:idmap", "/nix/store:/nix/store:idmap"}, lists.BindReadOnly)
}

func TestResolve_HostPathDefaultsToContainerPath(t *testing.T) {
	lists, err := Resolve([]container.BindSpec{{ContainerPath: "/srv"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv:/srv"}, lists.Bind)
}

func TestResolve_EmptyOptionsOmitTrailingSegment(t *testing.T) {
	lists, err := Resolve([]container.BindSpec{
		{ContainerPath: "/srv", HostPath: "/data", Options: []string{}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/data:/srv"}, lists.Bind)
}

func TestResolve_MultipleOptions(t *testing.T) {
	lists, err := Resolve([]container.BindSpec{
		{ContainerPath: "/srv", Options: []string{"idmap", "norbind"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv:/srv:idmap,norbind"}, lists.Bind)
}

func TestResolve_OrderedByContainerPath(t *testing.T) {
	lists, err := Resolve([]container.BindSpec{
		{ContainerPath: "/zzz", ReadOnly: true},
		{ContainerPath: "/aaa", ReadOnly: true},
	})
	require.NoError(t, err)

	// The injected store bind sorts between the operator entries.
	assert.Equal(t, []string{"/aaa:/aaa", "/nix/store:/nix/store:idmap", "/zzz:/zzz"}, lists.BindReadOnly)
}

func TestResolve_DuplicateContainerPath(t *testing.T) {
	_, err := Resolve([]container.BindSpec{
		{ContainerPath: "/srv"},
		{ContainerPath: "/srv", HostPath: "/other"},
	})
	assert.ErrorIs(t, err, container.ErrInvalidBindSpec)
}

func TestResolve_Deterministic(t *testing.T) {
	binds := []container.BindSpec{
		{ContainerPath: "/srv"},
		{ContainerPath: "/data", ReadOnly: true},
	}
	first, err := Resolve(binds)
	require.NoError(t, err)
	second, err := Resolve(binds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
