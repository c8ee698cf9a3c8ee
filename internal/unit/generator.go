// Package unit assembles the per-container parameters consumed by the
// init system's container-launch unit. This is pure assembly over already
// validated input; it never fails.
package unit

import (
	"fmt"
	"strings"

	"spawnc/internal/mounts"
	"spawnc/internal/netif"
)

// ExecParams drives the container's process setup.
type ExecParams struct {
	Ephemeral    bool     `yaml:"ephemeral"`
	Boot         bool     `yaml:"boot"`
	Parameters   []string `yaml:"parameters"`
	PrivateUsers string   `yaml:"private_users"`
	LinkJournal  string   `yaml:"link_journal"`
	Timezone     string   `yaml:"timezone"`
	KillSignal   string   `yaml:"kill_signal"`
}

// FilesParams drives the container's filesystem setup.
type FilesParams struct {
	PrivateUsersOwnership string   `yaml:"private_users_ownership"`
	Bind                  []string `yaml:"bind,omitempty"`
	BindReadOnly          []string `yaml:"bind_read_only,omitempty"`
}

// NetworkParams drives the container's network namespace setup.
type NetworkParams struct {
	Private         bool   `yaml:"private"`
	VirtualEthernet bool   `yaml:"virtual_ethernet"`
	Zone            string `yaml:"zone,omitempty"`
}

// Artifact is the generated launch-unit parameter triple for one container.
type Artifact struct {
	Name    string        `yaml:"name"`
	Exec    ExecParams    `yaml:"exec"`
	Files   FilesParams   `yaml:"files"`
	Network NetworkParams `yaml:"network"`
}

// Generate derives the launch-unit parameters for a resolved container.
// The root is ephemeral (state is discarded on stop), the system's init is
// invoked directly instead of a full boot, UID/GID ranges come from
// automatic user-namespace selection, the journal is linked to the host,
// timezone handling stays with the guest, and shutdown is requested with
// the init system's orderly-poweroff real-time signal. assignment is nil
// for containers without networking.
func Generate(name, systemPath string, m mounts.Lists, assignment *netif.Assignment) Artifact {
	a := Artifact{
		Name: name,
		Exec: ExecParams{
			Ephemeral:    true,
			Boot:         false,
			Parameters:   []string{systemPath + "/init"},
			PrivateUsers: "pick",
			LinkJournal:  "host",
			Timezone:     "off",
			KillSignal:   "SIGRTMIN+4",
		},
		Files: FilesParams{
			PrivateUsersOwnership: "chown",
			Bind:                  m.Bind,
			BindReadOnly:          m.BindReadOnly,
		},
		Network: NetworkParams{
			Private: true,
		},
	}

	if assignment != nil {
		a.Network.VirtualEthernet = true
		a.Network.Zone = assignment.Zone
	}
	return a
}

// Render serializes the artifact in the init system's unit-file format.
func (a Artifact) Render() string {
	var b strings.Builder

	b.WriteString("[Exec]\n")
	fmt.Fprintf(&b, "Ephemeral=%s\n", yesNo(a.Exec.Ephemeral))
	fmt.Fprintf(&b, "Boot=%s\n", yesNo(a.Exec.Boot))
	for _, p := range a.Exec.Parameters {
		fmt.Fprintf(&b, "Parameters=%s\n", p)
	}
	fmt.Fprintf(&b, "PrivateUsers=%s\n", a.Exec.PrivateUsers)
	fmt.Fprintf(&b, "LinkJournal=%s\n", a.Exec.LinkJournal)
	fmt.Fprintf(&b, "Timezone=%s\n", a.Exec.Timezone)
	fmt.Fprintf(&b, "KillSignal=%s\n", a.Exec.KillSignal)

	b.WriteString("\n[Files]\n")
	fmt.Fprintf(&b, "PrivateUsersOwnership=%s\n", a.Files.PrivateUsersOwnership)
	for _, m := range a.Files.Bind {
		fmt.Fprintf(&b, "Bind=%s\n", m)
	}
	for _, m := range a.Files.BindReadOnly {
		fmt.Fprintf(&b, "BindReadOnly=%s\n", m)
	}

	b.WriteString("\n[Network]\n")
	fmt.Fprintf(&b, "Private=%s\n", yesNo(a.Network.Private))
	fmt.Fprintf(&b, "VirtualEthernet=%s\n", yesNo(a.Network.VirtualEthernet))
	if a.Network.Zone != "" {
		fmt.Fprintf(&b, "Zone=%s\n", a.Network.Zone)
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
