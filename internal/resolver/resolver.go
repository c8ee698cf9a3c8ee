// Package resolver runs the resolution pass: it validates the container
// definition set, bridges inline configurations to the external evaluator,
// and compiles the set into the complete artifact collection the host's
// process and network managers consume. The pass is a pure function of its
// input; every collection it emits is ordered by container name so
// repeated runs over identical input are byte-identical.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"spawnc/internal/container"
	"spawnc/internal/hostcfg"
	"spawnc/internal/mounts"
	"spawnc/internal/netconf"
	"spawnc/internal/netif"
	"spawnc/internal/nixeval"
	"spawnc/internal/unit"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Resolved is the full per-container artifact bundle.
type Resolved struct {
	Name       string
	SystemPath string
	Definition container.Definition

	// Interface and the two network units are nil for containers with
	// networking disabled.
	Interface        *netif.Assignment
	HostNetwork      *netconf.Unit
	ContainerNetwork *netconf.Unit

	Binds mounts.Lists
	Unit  unit.Artifact
}

// Artifacts is the output of one resolution pass.
type Artifacts struct {
	PassID     string
	Containers []Resolved
	Host       hostcfg.Set
}

// Resolver compiles definition sets. The evaluator is only invoked for
// containers specified by inline configuration.
type Resolver struct {
	evaluator nixeval.Evaluator
	overlays  []string
}

// New returns a resolver using the given evaluator and shared overlay
// list.
func New(evaluator nixeval.Evaluator, overlays []string) *Resolver {
	return &Resolver{evaluator: evaluator, overlays: overlays}
}

// Resolve runs one pass over the definition set. Any validation or
// evaluation failure aborts the pass; no partial artifact set is returned.
func (r *Resolver) Resolve(ctx context.Context, defs []container.Definition) (*Artifacts, error) {
	set := make([]container.Definition, len(defs))
	copy(set, defs)
	container.SortByName(set)

	if err := container.ValidateSet(set); err != nil {
		return nil, err
	}

	log.Debug("Starting resolution pass", "containers", len(set))

	resolved := make([]Resolved, len(set))
	for i, def := range set {
		rc, err := prepare(def)
		if err != nil {
			return nil, err
		}
		resolved[i] = rc
	}

	if err := r.resolvePaths(ctx, resolved); err != nil {
		return nil, err
	}

	hostContainers := make([]hostcfg.Container, len(resolved))
	for i := range resolved {
		rc := &resolved[i]
		rc.Unit = unit.Generate(rc.Name, rc.SystemPath, rc.Binds, rc.Interface)
		hostContainers[i] = hostcfg.Container{
			Name:             rc.Name,
			AutoStart:        rc.Definition.AutoStart,
			RestartIfChanged: rc.Definition.RestartIfChanged,
			SystemPath:       rc.SystemPath,
		}
	}

	passID := passIdentifier(resolved)
	log.Info("Resolution pass complete", "pass_id", passID, "containers", len(resolved))
	return &Artifacts{
		PassID:     passID,
		Containers: resolved,
		Host:       hostcfg.Build(hostContainers),
	}, nil
}

// passNamespace scopes the name-based pass identifiers to this compiler.
var passNamespace = uuid.MustParse("1e0cb4f1-22d5-4a42-b09c-2e7ca6f4c0d7")

// passIdentifier derives the pass id from the resolved container set, so
// identical input always yields a byte-identical artifact set, manifest
// included. The fingerprint covers everything the emitted artifacts are
// derived from: the per-container renders plus the flags feeding the
// host-global fold.
func passIdentifier(resolved []Resolved) string {
	var b strings.Builder
	for _, rc := range resolved {
		b.WriteString(rc.Name)
		b.WriteByte(0)
		b.WriteString(rc.SystemPath)
		b.WriteByte(0)
		fmt.Fprintf(&b, "%t:%t\x00", rc.Definition.AutoStart, rc.Definition.RestartIfChanged)
		b.WriteString(rc.Unit.Render())
		if rc.HostNetwork != nil {
			b.WriteString(rc.HostNetwork.Render())
		}
		if rc.ContainerNetwork != nil {
			b.WriteString(rc.ContainerNetwork.Render())
		}
	}
	return uuid.NewSHA1(passNamespace, []byte(b.String())).String()
}

// Validate runs the validation half of a pass without invoking the
// evaluator: definition-set checks plus interface allocation and bind
// resolution for every container.
func Validate(defs []container.Definition) error {
	set := make([]container.Definition, len(defs))
	copy(set, defs)
	container.SortByName(set)

	if err := container.ValidateSet(set); err != nil {
		return err
	}
	for _, def := range set {
		if _, err := prepare(def); err != nil {
			return err
		}
	}
	return nil
}

// prepare derives everything that does not depend on the resolved system
// path: the interface assignment, both link configurations and the bind
// lists. Failing here is cheap, before any evaluator round trip.
func prepare(def container.Definition) (Resolved, error) {
	rc := Resolved{
		Name:       def.Name,
		SystemPath: def.SystemPath,
		Definition: def,
	}

	if def.Network.Mode != container.ModeNone {
		assignment, err := netif.Allocate(def.Name, def.Network.Zone)
		if err != nil {
			return Resolved{}, err
		}
		rc.Interface = assignment

		host := netconf.HostUnit(assignment, def.HostNetwork)
		guest := netconf.ContainerUnit(def.ContainerNetwork)
		rc.HostNetwork = &host
		rc.ContainerNetwork = &guest
	}

	binds, err := mounts.Resolve(def.Binds)
	if err != nil {
		return Resolved{}, fmt.Errorf("container %q: %w", def.Name, err)
	}
	rc.Binds = binds

	return rc, nil
}

// resolvePaths fills in the system path of every inline-configured
// container, fanning the evaluator calls out across containers. On
// multiple failures the first in name order wins, keeping the reported
// error deterministic.
func (r *Resolver) resolvePaths(ctx context.Context, resolved []Resolved) error {
	var wg sync.WaitGroup
	errs := make([]error, len(resolved))

	for i := range resolved {
		rc := &resolved[i]
		if rc.Definition.Config == "" {
			continue
		}

		wg.Add(1)
		go func(rc *Resolved, slot *error) {
			defer wg.Done()
			req := nixeval.Request{
				Config:   rc.Definition.Config,
				Overlays: r.overlays,
				Network:  rc.ContainerNetwork,
				Veth:     rc.Interface != nil && rc.Interface.Kind == netif.KindVeth,
			}
			path, err := r.evaluator.Evaluate(ctx, rc.Name, req)
			if err != nil {
				*slot = err
				return
			}
			rc.SystemPath = path
		}(rc, &errs[i])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
