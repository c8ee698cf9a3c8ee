// Package output writes a resolved artifact set to disk. All file content
// comes from deterministic renderers, so a repeated pass over unchanged
// input rewrites byte-identical files.
package output

import (
	"fmt"
	"path/filepath"

	"spawnc/internal/hostcfg"
	"spawnc/internal/resolver"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Writer persists artifact sets below a base directory.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter returns a writer rooted at dir on the given filesystem.
func NewWriter(fs afero.Fs, dir string) *Writer {
	return &Writer{fs: fs, dir: dir}
}

// Manifest is the machine-readable summary of one pass, for the host's
// configuration management to consume.
type Manifest struct {
	PassID          string              `yaml:"pass_id"`
	Containers      []ManifestContainer `yaml:"containers"`
	Firewall        []hostcfg.Allowance `yaml:"firewall,omitempty"`
	Activation      []string            `yaml:"activation,omitempty"`
	ActivationUnit  string              `yaml:"activation_unit,omitempty"`
	RestartTriggers map[string]string   `yaml:"restart_triggers,omitempty"`
}

// ManifestContainer is one container's summary entry.
type ManifestContainer struct {
	Name       string `yaml:"name"`
	SystemPath string `yaml:"system_path"`
	Interface  string `yaml:"interface,omitempty"`
}

// Write renders and writes the full artifact set.
func (w *Writer) Write(a *resolver.Artifacts) error {
	for _, rc := range a.Containers {
		if err := w.writeFile(filepath.Join("nspawn", rc.Name+".nspawn"), rc.Unit.Render()); err != nil {
			return err
		}
		if rc.HostNetwork != nil {
			name := filepath.Join("network", rc.Interface.Name+"-host.network")
			if err := w.writeFile(name, rc.HostNetwork.Render()); err != nil {
				return err
			}
		}
		if rc.ContainerNetwork != nil {
			name := filepath.Join("network", rc.Name+"-container.network")
			if err := w.writeFile(name, rc.ContainerNetwork.Render()); err != nil {
				return err
			}
		}
	}

	if len(a.Containers) > 0 {
		if err := w.writeFile(filepath.Join("tmpfiles.d", "containers.conf"), a.Host.RenderTmpfiles()); err != nil {
			return err
		}
		if err := w.writeFile("firewall.nft", a.Host.RenderFirewall()); err != nil {
			return err
		}
	}

	manifest, err := renderManifest(a)
	if err != nil {
		return err
	}
	if err := w.writeFile("manifest.yaml", manifest); err != nil {
		return err
	}

	log.Info("Wrote artifact set", "dir", w.dir, "containers", len(a.Containers))
	return nil
}

func renderManifest(a *resolver.Artifacts) (string, error) {
	m := Manifest{
		PassID:          a.PassID,
		Containers:      []ManifestContainer{},
		Firewall:        a.Host.Firewall,
		Activation:      a.Host.Activation,
		RestartTriggers: a.Host.RestartTriggers,
	}
	if len(a.Host.Activation) > 0 {
		m.ActivationUnit = hostcfg.ActivationTarget
	}
	for _, rc := range a.Containers {
		entry := ManifestContainer{Name: rc.Name, SystemPath: rc.SystemPath}
		if rc.Interface != nil {
			entry.Interface = rc.Interface.Name
		}
		m.Containers = append(m.Containers, entry)
	}

	out, err := yaml.Marshal(&m)
	if err != nil {
		return "", fmt.Errorf("failed to render manifest: %w", err)
	}
	return string(out), nil
}

func (w *Writer) writeFile(rel, content string) error {
	path := filepath.Join(w.dir, rel)
	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(w.fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Debug("Wrote artifact", "path", path, "bytes", len(content))
	return nil
}
