package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/devicegraph/internal/logging"
	"github.com/aretw0/devicegraph/pkg/domain"
)

// Link is a snapshot of one undirected connection, with endpoints ordered
// by their string form.
type Link struct {
	A, B    *DevicePort
	Latency domain.Latency
}

// DeviceGraph is a registry of named devices and the links between their
// ports. The zero value is not usable; call New.
type DeviceGraph struct {
	attrs   domain.Attrs
	devices map[string]*Device
	links   map[linkKey]domain.Latency
	// used holds every port that is an endpoint of a registered link.
	used map[*DevicePort]struct{}

	// busy is set while an expansion procedure runs.
	busy bool

	logger *slog.Logger
	hooks  Hooks
}

// Option configures a DeviceGraph.
type Option func(*DeviceGraph)

// WithLogger sets the logger graph transformations report to.
func WithLogger(logger *slog.Logger) Option {
	return func(g *DeviceGraph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithHooks registers transformation callbacks.
func WithHooks(h Hooks) Option {
	return func(g *DeviceGraph) { g.hooks = h }
}

// WithGlobalAttrs sets the graph-global attributes.
func WithGlobalAttrs(attrs domain.Attrs) Option {
	return func(g *DeviceGraph) { g.attrs = attrs.Clone() }
}

// New creates an empty graph.
func New(opts ...Option) *DeviceGraph {
	g := &DeviceGraph{
		devices: make(map[string]*Device),
		links:   make(map[linkKey]domain.Latency),
		used:    make(map[*DevicePort]struct{}),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Attrs returns the graph-global attributes.
func (g *DeviceGraph) Attrs() domain.Attrs { return g.attrs.Clone() }

// SetAttr sets one graph-global attribute.
func (g *DeviceGraph) SetAttr(key string, v domain.Value) { g.attrs.Set(key, v) }

// Add registers a device under its name. Adding a device that is already
// registered is a no-op; adding a submodule adds its top-level owner, which
// brings in every submodule with it.
func (g *DeviceGraph) Add(d *Device) error {
	if g.busy {
		return fmt.Errorf("%w: use the expansion context to add %s", domain.ErrExpansionActive, d.name)
	}
	return g.add(nil, d.Root())
}

// Link connects two ports, adding the owning devices when needed. The
// latency defaults to zero.
func (g *DeviceGraph) Link(p0, p1 *DevicePort) error {
	return g.LinkWithLatency(p0, p1, domain.ZeroLatency)
}

// LinkWithLatency connects two ports with an explicit latency.
func (g *DeviceGraph) LinkWithLatency(p0, p1 *DevicePort, latency domain.Latency) error {
	if g.busy {
		return fmt.Errorf("%w: use the expansion context to link %s and %s", domain.ErrExpansionActive, p0, p1)
	}
	return g.link(nil, p0, p1, latency)
}

func (g *DeviceGraph) add(x *Expansion, d *Device) error {
	if d.graph == g {
		return nil
	}
	if d.removed {
		return fmt.Errorf("device %s was removed from its graph", d.name)
	}
	if d.graph != nil {
		return fmt.Errorf("device %s is registered in another graph", d.name)
	}

	name := d.name
	if x != nil {
		name = x.device.name + "." + d.name
	}
	if existing, ok := g.devices[name]; ok && existing != d {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateName, name)
	}
	if x != nil {
		d.name = name
		if !d.hasPartition && x.device.hasPartition {
			d.SetPartition(x.device.partition)
		}
		x.newDevices = append(x.newDevices, d)
	}
	g.devices[name] = d
	d.graph = g

	for _, s := range d.subs {
		if err := g.add(x, s.Device); err != nil {
			return err
		}
	}
	return nil
}

func (g *DeviceGraph) link(x *Expansion, p0, p1 *DevicePort, latency domain.Latency) error {
	if p0 == nil || p1 == nil {
		return errors.New("link with a nil port")
	}
	if p0.device == nil || p1.device == nil {
		return fmt.Errorf("link %s to %s: port is detached", p0, p1)
	}
	if latency == "" {
		latency = domain.ZeroLatency
	}
	if x != nil {
		switch x.device {
		case p0.device:
			return x.splice(p0, p1, latency)
		case p1.device:
			return x.splice(p1, p0, latency)
		}
	}
	if err := g.checkLinkable(p0, p1); err != nil {
		return err
	}
	if err := g.add(x, p0.device.Root()); err != nil {
		return err
	}
	if err := g.add(x, p1.device.Root()); err != nil {
		return err
	}
	g.record(x, p0, p1, latency)
	return nil
}

func (g *DeviceGraph) checkLinkable(p0, p1 *DevicePort) error {
	if p0 == p1 {
		return fmt.Errorf("%w: %s cannot link to itself", domain.ErrPortAlreadyLinked, p0)
	}
	if t0, t1 := p0.Type(), p1.Type(); t0 != t1 {
		return fmt.Errorf("%w: %s (%q) and %s (%q)", domain.ErrPortTypeMismatch, p0, t0, p1, t1)
	}
	for _, p := range []*DevicePort{p0, p1} {
		if g.isUsed(p) || p.link != nil {
			return fmt.Errorf("%w: %s", domain.ErrPortAlreadyLinked, p)
		}
	}
	return nil
}

func (g *DeviceGraph) isUsed(p *DevicePort) bool {
	_, ok := g.used[p]
	return ok
}

func (g *DeviceGraph) record(x *Expansion, p0, p1 *DevicePort, latency domain.Latency) {
	k := keyOf(p0, p1)
	g.links[k] = latency
	g.used[p0] = struct{}{}
	g.used[p1] = struct{}{}
	p0.link = p1
	p1.link = p0
	if x != nil {
		x.newLinks = append(x.newLinks, k)
	}
	if g.hooks.OnLink != nil {
		g.hooks.OnLink(LinkEvent{A: p0.String(), B: p1.String(), Latency: latency})
	}
}

func (g *DeviceGraph) unlink(p0, p1 *DevicePort) domain.Latency {
	k := keyOf(p0, p1)
	latency := g.links[k]
	delete(g.links, k)
	delete(g.used, p0)
	delete(g.used, p1)
	p0.link = nil
	p1.link = nil
	return latency
}

// removeDevice drops a device and every link on its ports.
func (g *DeviceGraph) removeDevice(d *Device) {
	for _, p := range d.ports {
		if p.link != nil {
			g.unlink(p, p.link)
		}
	}
	delete(g.devices, d.name)
	d.dealloc()
}

// Device looks up a registered device by name.
func (g *DeviceGraph) Device(name string) (*Device, bool) {
	d, ok := g.devices[name]
	return d, ok
}

// Len returns the number of registered devices.
func (g *DeviceGraph) Len() int { return len(g.devices) }

// LinkCount returns the number of registered links.
func (g *DeviceGraph) LinkCount() int { return len(g.links) }

// Devices returns the registered devices sorted by name.
func (g *DeviceGraph) Devices() []*Device {
	out := make([]*Device, 0, len(g.devices))
	for _, d := range g.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Links returns the registered links in a stable order.
func (g *DeviceGraph) Links() []Link {
	out := make([]Link, 0, len(g.links))
	for k, latency := range g.links {
		a, b := k.a, k.b
		if b.String() < a.String() {
			a, b = b, a
		}
		out = append(out, Link{A: a, B: b, Latency: latency})
	}
	sort.Slice(out, func(i, j int) bool {
		if ai, aj := out[i].A.String(), out[j].A.String(); ai != aj {
			return ai < aj
		}
		return out[i].B.String() < out[j].B.String()
	})
	return out
}

// Latency returns the latency of the link between two ports.
func (g *DeviceGraph) Latency(p0, p1 *DevicePort) (domain.Latency, bool) {
	l, ok := g.links[keyOf(p0, p1)]
	return l, ok
}

// CountDevices tallies registered devices by category.
func (g *DeviceGraph) CountDevices() map[string]int {
	counts := make(map[string]int)
	for _, d := range g.devices {
		counts[d.Category()]++
	}
	return counts
}

// VerifyLinks reports every device whose required ports are not linked.
// All failures are joined into one error, ordered by device and port name.
func (g *DeviceGraph) VerifyLinks() error {
	linked := make(map[*Device]map[string]bool)
	for k := range g.links {
		for _, p := range []*DevicePort{k.a, k.b} {
			if linked[p.device] == nil {
				linked[p.device] = make(map[string]bool)
			}
			linked[p.device][p.key.name] = true
		}
	}

	var errs []error
	for _, d := range g.Devices() {
		for _, name := range d.kind.ports.Required() {
			if !linked[d][name] {
				errs = append(errs, fmt.Errorf("%w: %s.%s", domain.ErrMissingRequiredPort, d.name, name))
			}
		}
	}
	return errors.Join(errs...)
}

// CheckPartition fails when any device has no effective partition.
func (g *DeviceGraph) CheckPartition() error {
	var errs []error
	for _, d := range g.Devices() {
		if _, ok := d.EffectivePartition(); !ok {
			errs = append(errs, fmt.Errorf("%w: %s", domain.ErrMissingPartition, d.name))
		}
	}
	return errors.Join(errs...)
}

// Dealloc tears the graph down, clearing every back-reference so device
// and port cycles can be collected.
func (g *DeviceGraph) Dealloc() {
	for _, d := range g.devices {
		d.dealloc()
	}
	g.devices = make(map[string]*Device)
	g.links = make(map[linkKey]domain.Latency)
	g.used = make(map[*DevicePort]struct{})
}

func (g *DeviceGraph) onRank(d *Device, rank int) bool {
	p, ok := d.EffectivePartition()
	return ok && p.Rank == rank
}
