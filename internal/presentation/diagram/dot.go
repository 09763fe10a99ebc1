// Package diagram renders device graphs as Graphviz DOT and Mermaid text.
package diagram

import (
	"fmt"
	"strings"

	"github.com/aretw0/devicegraph/pkg/graph"
)

// Options control diagram rendering.
type Options struct {
	// Ports draws devices as records with one field per allocated port and
	// attaches edges to the fields.
	Ports bool
}

type edge struct {
	a, b         string
	portA, portB string
}

// DOT renders g as an undirected Graphviz graph. Parallel links between the
// same nodes are drawn once, labeled with their count. Assemblies are blue,
// submodules purple with a dashed edge to their owner.
func DOT(g *graph.DeviceGraph, name string, opts Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "graph %s {\n", quote(name))
	sb.WriteString("    graph [stylesheet=\"highlightStyle.css\"")
	if opts.Ports {
		sb.WriteString(", rankdir=LR")
	}
	sb.WriteString("];\n")
	sb.WriteString("    node [style=filled, fillcolor=\"#EEEEEE\"")
	if opts.Ports {
		sb.WriteString(", shape=record")
	}
	sb.WriteString("];\n")
	sb.WriteString("    edge [penwidth=2];\n")

	for _, d := range g.Devices() {
		label := escapeLabel(d.Name())
		if d.Model() != "" {
			label += `\nmodel=` + escapeLabel(d.Model())
		}
		if opts.Ports {
			if fields := portFields(d); fields != "" {
				label += "|" + fields
			}
		}
		attrs := fmt.Sprintf("label=%s", quote(label))
		switch {
		case d.IsAssembly():
			attrs += ", color=blue, fontcolor=blue"
		case d.Owner() != nil:
			attrs += ", color=purple, fontcolor=purple"
		}
		fmt.Fprintf(&sb, "    %s [%s];\n", quote(d.Name()), attrs)
	}

	edges, counts := collectEdges(g, opts.Ports)
	for _, e := range edges {
		a, b := quote(e.a), quote(e.b)
		if opts.Ports {
			a += ":" + quote(e.portA)
			b += ":" + quote(e.portB)
		}
		var attrs []string
		if n := counts[e]; n > 1 {
			attrs = append(attrs, fmt.Sprintf("label=\"%d\"", n))
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, "    %s -- %s [%s];\n", a, b, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&sb, "    %s -- %s;\n", a, b)
		}
	}

	for _, d := range g.Devices() {
		if owner := d.Owner(); owner != nil {
			fmt.Fprintf(&sb, "    %s -- %s [color=purple, style=dashed];\n", quote(d.Name()), quote(owner.Name()))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// collectEdges groups links by their endpoints in first-seen order.
func collectEdges(g *graph.DeviceGraph, ports bool) ([]edge, map[edge]int) {
	counts := make(map[edge]int)
	var order []edge
	for _, l := range g.Links() {
		e := edge{a: l.A.Device().Name(), b: l.B.Device().Name()}
		if ports {
			e.portA, e.portB = l.A.Label(), l.B.Label()
		}
		if counts[e] == 0 {
			order = append(order, e)
		}
		counts[e]++
	}
	return order, counts
}

func portFields(d *graph.Device) string {
	ports := d.Ports()
	if len(ports) == 0 {
		return ""
	}
	fields := make([]string, len(ports))
	for i, p := range ports {
		l := escapeLabel(p.Label())
		fields[i] = fmt.Sprintf("<%s> %s", l, l)
	}
	return "{" + strings.Join(fields, "|") + "}"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

var recordEscaper = strings.NewReplacer(
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func escapeLabel(s string) string {
	return recordEscaper.Replace(s)
}
