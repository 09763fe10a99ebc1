package diagram

import (
	"fmt"
	"strings"

	"github.com/aretw0/devicegraph/pkg/graph"
)

// Mermaid produces a Mermaid flowchart of g.
// It applies semantic styling:
// - Assembly: [[Subroutine]]
// - Submodule: ([Stadium]) with a dotted edge to its owner
// - Default: [Rectangle]
// Parallel links are drawn once with their count as the edge label.
func Mermaid(g *graph.DeviceGraph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, d := range g.Devices() {
		opener, closer := "[", "]"
		switch {
		case d.IsAssembly():
			opener, closer = "[[", "]]"
		case d.Owner() != nil:
			opener, closer = "([", "])"
		}

		label := d.Name()
		if d.Model() != "" {
			label += " <br/> " + d.Model()
		}
		label = strings.ReplaceAll(label, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(d.Name()), opener, label, closer)
	}

	edges, counts := collectEdges(g, false)
	for _, e := range edges {
		arrow := "---"
		if n := counts[e]; n > 1 {
			arrow = fmt.Sprintf("---|%d|", n)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.a), arrow, sanitizeMermaidID(e.b))
	}

	for _, d := range g.Devices() {
		if owner := d.Owner(); owner != nil {
			fmt.Fprintf(&sb, "    %s -.- %s\n", sanitizeMermaidID(d.Name()), sanitizeMermaidID(owner.Name()))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(
		".", "_",
		"-", "_",
		"/", "_",
		"\\", "_",
		"(", "_",
		")", "_",
		" ", "_",
	)
	return r.Replace(id)
}
