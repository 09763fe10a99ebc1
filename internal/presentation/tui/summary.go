package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/devicegraph/pkg/graph"
)

// Summary renders a markdown report of g: device counts per category,
// then totals and the rank breakdown of partitioned devices.
func Summary(g *graph.DeviceGraph, title string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	counts := g.CountDevices()
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	sb.WriteString("| Category | Devices |\n")
	sb.WriteString("|---|---:|\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "| %s | %d |\n", c, counts[c])
	}

	var assemblies, submodules int
	ranks := make(map[int]int)
	unpartitioned := 0
	for _, d := range g.Devices() {
		if d.IsAssembly() {
			assemblies++
		}
		if d.Owner() != nil {
			submodules++
		}
		if p, ok := d.EffectivePartition(); ok {
			ranks[p.Rank]++
		} else {
			unpartitioned++
		}
	}

	sb.WriteString("\n## Totals\n\n")
	fmt.Fprintf(&sb, "- Devices: %d\n", g.Len())
	fmt.Fprintf(&sb, "- Assemblies: %d\n", assemblies)
	fmt.Fprintf(&sb, "- Submodules: %d\n", submodules)
	fmt.Fprintf(&sb, "- Links: %d\n", g.LinkCount())

	if len(ranks) > 0 {
		keys := make([]int, 0, len(ranks))
		for r := range ranks {
			keys = append(keys, r)
		}
		sort.Ints(keys)

		sb.WriteString("\n## Ranks\n\n")
		sb.WriteString("| Rank | Devices |\n")
		sb.WriteString("|---:|---:|\n")
		for _, r := range keys {
			fmt.Fprintf(&sb, "| %d | %d |\n", r, ranks[r])
		}
		if unpartitioned > 0 {
			fmt.Fprintf(&sb, "\n%d devices have no partition.\n", unpartitioned)
		}
	}
	return sb.String()
}
