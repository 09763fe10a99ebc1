package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// Expansion is the context an assembly's expansion procedure runs in. It is
// valid only for the duration of the call that received it.
type Expansion struct {
	g      *DeviceGraph
	device *Device

	newDevices []*Device
	newLinks   []linkKey
	spliced    int
	dropped    int
	done       bool
}

// Self returns the assembly being expanded.
func (x *Expansion) Self() *Device { return x.device }

// Attrs returns the graph-global attributes.
func (x *Expansion) Attrs() domain.Attrs { return x.g.Attrs() }

// Add registers an interior device. Its name is prefixed with the
// assembly's name and it inherits the assembly's partition when it has none.
func (x *Expansion) Add(d *Device) error {
	if x.done {
		return fmt.Errorf("%w: expansion of %s already finished", domain.ErrExpansionActive, x.device.name)
	}
	return x.g.add(x, d.Root())
}

// Link connects two ports. When one of them belongs to the assembly being
// expanded, the assembly's existing external link on that port is moved onto
// the other port instead.
func (x *Expansion) Link(p0, p1 *DevicePort) error {
	return x.LinkWithLatency(p0, p1, domain.ZeroLatency)
}

// LinkWithLatency is Link with an explicit latency. Spliced links carry the
// sum of the external and interior latencies.
func (x *Expansion) LinkWithLatency(p0, p1 *DevicePort, latency domain.Latency) error {
	if x.done {
		return fmt.Errorf("%w: expansion of %s already finished", domain.ErrExpansionActive, x.device.name)
	}
	return x.g.link(x, p0, p1, latency)
}

// splice moves the external link of boundary port bp onto interior port ip.
func (x *Expansion) splice(bp, ip *DevicePort, latency domain.Latency) error {
	g := x.g
	if ip.device == x.device {
		return x.passThrough(bp, ip, latency)
	}
	other := bp.link
	if other == nil {
		g.logger.Debug("dropping link to unconnected boundary port", "port", bp.String(), "interior", ip.String())
		x.dropped++
		return nil
	}
	if t0, t1 := ip.Type(), other.Type(); t0 != t1 {
		return fmt.Errorf("%w: %s (%q) and %s (%q)", domain.ErrPortTypeMismatch, ip, t0, other, t1)
	}
	if g.isUsed(ip) || ip.link != nil {
		return fmt.Errorf("%w: %s", domain.ErrPortAlreadyLinked, ip)
	}
	sum, err := g.links[keyOf(bp, other)].Add(latency)
	if err != nil {
		return fmt.Errorf("splice %s: %w", bp, err)
	}
	if err := g.add(x, ip.device.Root()); err != nil {
		return err
	}
	g.unlink(bp, other)
	g.record(x, ip, other, sum)
	x.spliced++
	return nil
}

// passThrough handles an interior link between two boundary ports of the
// assembly: their external partners are joined directly.
func (x *Expansion) passThrough(a, b *DevicePort, latency domain.Latency) error {
	g := x.g
	if a == b {
		return fmt.Errorf("%w: %s cannot link to itself", domain.ErrPortAlreadyLinked, a)
	}
	if a.link == b {
		g.unlink(a, b)
		x.dropped++
		return nil
	}
	ea, eb := a.link, b.link
	if ea == nil || eb == nil {
		// One side leads nowhere, so the other side's link dies with the assembly.
		for _, p := range []*DevicePort{a, b} {
			if p.link != nil {
				g.unlink(p, p.link)
			}
		}
		x.dropped++
		return nil
	}
	if t0, t1 := ea.Type(), eb.Type(); t0 != t1 {
		return fmt.Errorf("%w: %s (%q) and %s (%q)", domain.ErrPortTypeMismatch, ea, t0, eb, t1)
	}
	sum, err := g.links[keyOf(a, ea)].Add(latency)
	if err == nil {
		sum, err = sum.Add(g.links[keyOf(b, eb)])
	}
	if err != nil {
		return fmt.Errorf("splice %s to %s: %w", a, b, err)
	}
	g.unlink(a, ea)
	g.unlink(b, eb)
	g.record(x, ea, eb, sum)
	x.spliced += 2
	return nil
}

// expand runs d's expansion procedure and removes d from the graph.
func (g *DeviceGraph) expand(d *Device) (*Expansion, error) {
	x := &Expansion{g: g, device: d}
	g.busy = true
	err := func() error {
		defer func() {
			g.busy = false
			x.done = true
		}()
		return d.kind.expand(d, x)
	}()
	if err != nil {
		return x, fmt.Errorf("expand %s: %w", d.name, err)
	}
	for _, p := range d.Ports() {
		if p.link != nil {
			return x, fmt.Errorf("%w: %s is still linked to %s", domain.ErrUnexpandedPort, p, p.link)
		}
	}

	g.logger.Debug("expanded assembly",
		"device", d.name,
		"type", d.kind.typ,
		"added", len(x.newDevices),
		"spliced", x.spliced,
	)
	if g.hooks.OnExpand != nil {
		g.hooks.OnExpand(ExpandEvent{
			Device:   d.name,
			Type:     d.kind.typ,
			Category: d.Category(),
			Added:    len(x.newDevices),
			Spliced:  x.spliced,
			Dropped:  x.dropped,
		})
	}
	delete(g.devices, d.name)
	d.dealloc()
	return x, nil
}

type flattenConfig struct {
	levels  int
	prefix  string
	rank    int
	hasRank bool
	only    map[*Device]bool
}

// FlattenOption narrows which assemblies Flatten expands.
type FlattenOption func(*flattenConfig)

// Levels bounds the number of expansion passes. Levels(0) expands nothing.
func Levels(n int) FlattenOption {
	return func(c *flattenConfig) { c.levels = n }
}

// UnderName restricts expansion to devices named prefix or nested under it
// in the dotted naming.
func UnderName(prefix string) FlattenOption {
	return func(c *flattenConfig) { c.prefix = prefix }
}

// OnRank restricts expansion to devices whose effective partition is the
// given rank.
func OnRank(rank int) FlattenOption {
	return func(c *flattenConfig) {
		c.rank = rank
		c.hasRank = true
	}
}

// Only expands exactly the given devices, in a single pass.
func Only(devs ...*Device) FlattenOption {
	return func(c *flattenConfig) {
		c.only = make(map[*Device]bool, len(devs))
		for _, d := range devs {
			c.only[d] = true
		}
	}
}

// Flatten expands assemblies in passes until none match or the level bound
// is reached. Within a pass, candidates are expanded in name order.
func (g *DeviceGraph) Flatten(opts ...FlattenOption) error {
	if g.busy {
		return fmt.Errorf("%w: flatten", domain.ErrExpansionActive)
	}
	cfg := flattenConfig{levels: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	_, err := g.flatten(cfg)
	return err
}

func (g *DeviceGraph) flatten(cfg flattenConfig) ([]*Expansion, error) {
	var done []*Expansion
	for level := 0; cfg.levels < 0 || level < cfg.levels; level++ {
		candidates := g.candidates(cfg)
		if len(candidates) == 0 {
			break
		}
		g.logger.Debug("flatten pass", "level", level, "candidates", len(candidates))
		for _, d := range candidates {
			if d.graph != g {
				continue
			}
			x, err := g.expand(d)
			if err != nil {
				return done, err
			}
			done = append(done, x)
		}
		if cfg.only != nil {
			break
		}
	}
	return done, nil
}

func (g *DeviceGraph) candidates(cfg flattenConfig) []*Device {
	var out []*Device
	for _, d := range g.devices {
		if !d.IsAssembly() {
			continue
		}
		if cfg.only != nil && !cfg.only[d] {
			continue
		}
		if cfg.prefix != "" && !underName(d.name, cfg.prefix) {
			continue
		}
		if cfg.hasRank && !g.onRank(d, cfg.rank) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// underName matches whole dotted segments: "a.b" is under "a" but "ab" is not.
func underName(name, prefix string) bool {
	return name == prefix || strings.HasPrefix(name, prefix+".")
}
