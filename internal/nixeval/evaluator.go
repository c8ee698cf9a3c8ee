// Package nixeval bridges a container defined by inline configuration to
// the external evaluator that turns it into a built system path. The
// evaluator sits behind a narrow interface so the resolution pass can be
// tested without touching a real nix installation.
package nixeval

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"spawnc/internal/netconf"

	"github.com/charmbracelet/log"
)

// ErrInlineEvaluation wraps a failure of the inner evaluation. Any such
// failure aborts the whole resolution pass; partial artifact sets are
// never emitted.
var ErrInlineEvaluation = errors.New("inline evaluation failed")

// ServiceDiscoveryPort is opened on both transport protocols inside guests
// with point-to-point networking, so multicast DNS keeps working across
// the veth link.
const ServiceDiscoveryPort = 5353

// Request carries one container's inline evaluation inputs.
type Request struct {
	// Config is the operator's inline configuration: either a module file
	// path (absolute or ./relative) or a module expression.
	Config string

	// Overlays are the shared configuration fragments applied to every
	// inline evaluation.
	Overlays []string

	// Network is the resolved container-side link configuration to inject,
	// already merged under any operator container-side override.
	Network *netconf.Unit

	// Veth reports point-to-point networking, which pulls in the inbound
	// service-discovery allowances.
	Veth bool
}

// Evaluator resolves an inline configuration to a built system path.
type Evaluator interface {
	Evaluate(ctx context.Context, name string, req Request) (string, error)
}

// CLIEvaluator shells out to the nix binary.
type CLIEvaluator struct {
	nix string
}

// NewCLIEvaluator returns an evaluator invoking the given nix binary
// ("nix" when empty).
func NewCLIEvaluator(nixBinary string) *CLIEvaluator {
	if nixBinary == "" {
		nixBinary = "nix"
	}
	return &CLIEvaluator{nix: nixBinary}
}

// Evaluate synthesizes the full evaluation expression for the container
// and builds it, returning the resulting system path.
func (e *CLIEvaluator) Evaluate(ctx context.Context, name string, req Request) (string, error) {
	expr := Expression(name, req)
	log.Debug("Evaluating inline container configuration", "container", name, "nix", e.nix)

	cmd := exec.CommandContext(ctx, e.nix, "build", "--impure", "--no-link", "--print-out-paths", "--expr", expr)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("container %q: %w: %s", name, ErrInlineEvaluation, detail)
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" {
		return "", fmt.Errorf("container %q: %w: evaluator produced no output path", name, ErrInlineEvaluation)
	}
	log.Debug("Inline evaluation finished", "container", name, "path", path)
	return path, nil
}

// Expression synthesizes the evaluation expression: the forced module
// (isolation markers, default host name, host platform inheritance, and
// the injected network wiring) imported ahead of the operator's config and
// the shared overlays.
func Expression(name string, req Request) string {
	var b strings.Builder

	b.WriteString("let\n")
	b.WriteString("  forced = { lib, ... }: {\n")
	b.WriteString("    boot.isContainer = lib.mkForce true;\n")
	b.WriteString("    systemd.network.enable = lib.mkForce true;\n")
	fmt.Fprintf(&b, "    networking.hostName = lib.mkDefault %q;\n", name)
	b.WriteString("    nixpkgs.hostPlatform = lib.mkDefault builtins.currentSystem;\n")
	if req.Veth {
		fmt.Fprintf(&b, "    networking.firewall.allowedTCPPorts = [ %d ];\n", ServiceDiscoveryPort)
		fmt.Fprintf(&b, "    networking.firewall.allowedUDPPorts = [ %d ];\n", ServiceDiscoveryPort)
	}
	if req.Network != nil {
		writeNetworkModule(&b, req.Network)
	}
	b.WriteString("  };\n")
	b.WriteString("  configuration = {\n")
	b.WriteString("    imports = [\n")
	b.WriteString("      forced\n")
	fmt.Fprintf(&b, "      %s\n", moduleRef(req.Config))
	for _, overlay := range req.Overlays {
		fmt.Fprintf(&b, "      %s\n", moduleRef(overlay))
	}
	b.WriteString("    ];\n")
	b.WriteString("  };\n")
	b.WriteString("in (import <nixpkgs/nixos> { inherit configuration; }).config.system.build.toplevel\n")

	return b.String()
}

// writeNetworkModule renders the injected container-side network unit as
// module options, in the same fixed field order as the on-disk rendering.
func writeNetworkModule(b *strings.Builder, u *netconf.Unit) {
	fmt.Fprintf(b, "    systemd.network.networks.%q = {\n", "20-"+u.Match.Name)
	fmt.Fprintf(b, "      matchConfig.Name = %q;\n", u.Match.Name)
	b.WriteString("      networkConfig = {\n")
	if len(u.Link.Addresses) > 0 {
		fmt.Fprintf(b, "        Address = [ %s ];\n", quoteList(u.Link.Addresses))
	}
	writeNixString(b, "DHCP", u.Link.DHCP)
	writeNixBool(b, "DHCPServer", u.Link.DHCPServer)
	writeNixString(b, "IPMasquerade", u.Link.IPMasquerade)
	writeNixString(b, "LinkLocalAddressing", u.Link.LinkLocalAddressing)
	writeNixBool(b, "MulticastDNS", u.Link.MulticastDNS)
	writeNixBool(b, "IPv6AcceptRA", u.Link.IPv6AcceptRA)
	writeNixBool(b, "IPv6SendRA", u.Link.IPv6SendRA)
	b.WriteString("      };\n")
	if s := u.Link.DHCPServerConfig; s != nil {
		b.WriteString("      dhcpServerConfig = {\n")
		writeNixBool(b, "EmitDNS", s.EmitDNS)
		if len(s.DNS) > 0 {
			fmt.Fprintf(b, "        DNS = [ %s ];\n", quoteList(s.DNS))
		}
		if s.PoolOffset != nil {
			fmt.Fprintf(b, "        PoolOffset = %d;\n", *s.PoolOffset)
		}
		if s.PoolSize != nil {
			fmt.Fprintf(b, "        PoolSize = %d;\n", *s.PoolSize)
		}
		b.WriteString("      };\n")
	}
	b.WriteString("    };\n")
}

// moduleRef turns an operator-supplied module reference into expression
// text: paths are imported as-is, anything else is treated as an inline
// module expression.
func moduleRef(s string) string {
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") {
		return s
	}
	return "(" + s + ")"
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return strings.Join(quoted, " ")
}

func writeNixString(b *strings.Builder, key string, v *string) {
	if v != nil {
		fmt.Fprintf(b, "        %s = %q;\n", key, *v)
	}
}

func writeNixBool(b *strings.Builder, key string, v *bool) {
	if v != nil {
		fmt.Fprintf(b, "        %s = %t;\n", key, *v)
	}
}
