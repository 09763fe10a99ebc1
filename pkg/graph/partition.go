package graph

import (
	"fmt"
	"sort"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// FollowLinks expands, pass after pass, every assembly on a link that
// touches the given rank, until every such link joins two primitives.
// Assemblies elsewhere stay unexpanded. With prune set, the graph is pruned
// to the rank first, and after each expansion the new links with no
// endpoint on the rank are dropped together with the new devices they
// leave untouched.
func (g *DeviceGraph) FollowLinks(rank int, prune bool) error {
	if g.busy {
		return fmt.Errorf("%w: follow links", domain.ErrExpansionActive)
	}
	if err := g.CheckPartition(); err != nil {
		return err
	}
	if prune {
		g.prune(rank)
	}
	for pass := 0; ; pass++ {
		candidates := g.linkedAssemblies(rank)
		if len(candidates) == 0 {
			return nil
		}
		g.logger.Debug("follow links pass", "rank", rank, "pass", pass, "candidates", len(candidates))
		for _, d := range candidates {
			if d.graph != g {
				continue
			}
			x, err := g.expand(d)
			if err != nil {
				return err
			}
			if prune {
				g.pruneExpansion(x, rank)
			}
		}
	}
}

// linkedAssemblies returns the assemblies that are an endpoint of a link
// with at least one endpoint on rank, sorted by name.
func (g *DeviceGraph) linkedAssemblies(rank int) []*Device {
	seen := make(map[*Device]bool)
	for k := range g.links {
		d0, d1 := k.a.device, k.b.device
		if !g.onRank(d0, rank) && !g.onRank(d1, rank) {
			continue
		}
		for _, d := range []*Device{d0, d1} {
			if d.IsAssembly() {
				seen[d] = true
			}
		}
	}
	out := make([]*Device, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// pruneExpansion drops what an expansion produced that the rank cannot see.
func (g *DeviceGraph) pruneExpansion(x *Expansion, rank int) {
	keep := make(map[*Device]bool)
	var droppedLinks int
	for _, k := range x.newLinks {
		if _, live := g.links[k]; !live {
			continue
		}
		d0, d1 := k.a.device, k.b.device
		if g.onRank(d0, rank) || g.onRank(d1, rank) {
			markGroup(keep, d0)
			markGroup(keep, d1)
			continue
		}
		g.unlink(k.a, k.b)
		droppedLinks++
	}
	var droppedDevices int
	for _, d := range x.newDevices {
		if d.graph != g || keep[d] {
			continue
		}
		if g.onRank(d, rank) {
			markGroup(keep, d)
			continue
		}
		g.removeDevice(d)
		droppedDevices++
	}
	g.reportPrune(rank, droppedDevices, droppedLinks)
}

// Prune removes every link with no endpoint on rank and every device that
// is neither on rank nor linked to a device on rank. A kept device keeps its
// whole owner and submodule group.
func (g *DeviceGraph) Prune(rank int) error {
	if g.busy {
		return fmt.Errorf("%w: prune", domain.ErrExpansionActive)
	}
	if err := g.CheckPartition(); err != nil {
		return err
	}
	g.prune(rank)
	return nil
}

func (g *DeviceGraph) prune(rank int) {
	keep := make(map[*Device]bool)
	for _, d := range g.devices {
		if g.onRank(d, rank) {
			markGroup(keep, d)
		}
	}

	var dead []linkKey
	for k := range g.links {
		d0, d1 := k.a.device, k.b.device
		if g.onRank(d0, rank) || g.onRank(d1, rank) {
			markGroup(keep, d0)
			markGroup(keep, d1)
			continue
		}
		dead = append(dead, k)
	}
	for _, k := range dead {
		g.unlink(k.a, k.b)
	}

	var removed []*Device
	for _, d := range g.devices {
		if !keep[d] {
			removed = append(removed, d)
		}
	}
	for _, d := range removed {
		g.removeDevice(d)
	}
	g.reportPrune(rank, len(removed), len(dead))
}

func (g *DeviceGraph) reportPrune(rank, devices, links int) {
	if devices == 0 && links == 0 {
		return
	}
	g.logger.Debug("pruned graph", "rank", rank, "devices", devices, "links", links)
	if g.hooks.OnPrune != nil {
		g.hooks.OnPrune(PruneEvent{Rank: rank, Devices: devices, Links: links})
	}
}

// markGroup marks d's top-level owner and every submodule below it.
func markGroup(keep map[*Device]bool, d *Device) {
	var walk func(*Device)
	walk = func(n *Device) {
		if keep[n] {
			return
		}
		keep[n] = true
		for _, s := range n.subs {
			walk(s.Device)
		}
	}
	walk(d.Root())
}
