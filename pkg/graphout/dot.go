// Package graphout renders a resolved dependency closure as a Graphviz
// graph. Layout is delegated entirely to Graphviz; pacdump only emits
// nodes, edges and labels.
package graphout

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pacdump/pacdump/pkg/query"
)

// Options configures DOT emission.
type Options struct {
	// Detailed adds repository and version details to node labels.
	// When false, only "name version" is shown.
	Detailed bool
	// Optional includes edges for resolved optional dependencies, drawn
	// dashed.
	Optional bool
}

// ToDOT converts a closure resolution to Graphviz DOT. Nodes are keyed on
// "name=version"; edges point from a package to the satisfier of each of
// its resolved dependency specifications. Unsatisfied specifications have
// no edge.
func ToDOT(res *query.Resolution, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, p := range res.Packages {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", p.Key(), fmtLabel(p, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, p := range res.Packages {
		for _, dep := range p.DependsOn {
			if dep.Satisfier != "" {
				fmt.Fprintf(&buf, "  %q -> %q;\n", p.Key(), dep.Satisfier)
			}
		}
		if !opts.Optional {
			continue
		}
		for _, dep := range p.OptionalDeps {
			if dep.Satisfier != "" {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", p.Key(), dep.Satisfier)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p *query.PackageInfo, detailed bool) string {
	label := p.Name + " " + p.Version
	if !detailed {
		return label
	}
	parts := []string{label}
	if p.Repository != "" {
		parts = append(parts, "repo: "+p.Repository)
	}
	if p.InstallReason != "" {
		parts = append(parts, "reason: "+p.InstallReason)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
