package graph

import (
	"errors"
	"fmt"

	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/schema"
)

// Submodule is one entry of a device's composition list. Submodules are not
// graph edges: they are parameter slots a backend fills with the child.
type Submodule struct {
	Device   *Device
	Slot     string
	Index    int
	HasIndex bool
}

// Device is a node of a DeviceGraph: a primitive bound to a backend library,
// or an assembly that expands into other devices.
type Device struct {
	name  string
	model string
	kind  *Kind
	attrs domain.Attrs

	ports    map[portKey]*DevicePort
	counters map[string]int

	subs  []Submodule
	owner *Device

	partition    domain.Partition
	hasPartition bool

	// graph is the graph the device is registered in, nil before Add.
	graph   *DeviceGraph
	removed bool
}

// DeviceOption configures a device at construction.
type DeviceOption func(*Device)

// WithModel sets the model, the second half of the device category.
func WithModel(model string) DeviceOption {
	return func(d *Device) { d.model = model }
}

// WithAttrs overlays instance attributes on the kind defaults.
func WithAttrs(attrs domain.Attrs) DeviceOption {
	return func(d *Device) { d.attrs = d.attrs.Merge(attrs) }
}

// WithPartition assigns the device to a partition.
func WithPartition(p domain.Partition) DeviceOption {
	return func(d *Device) { d.SetPartition(p) }
}

// NewDevice constructs a device of the given kind. Assemblies without an
// expansion procedure and attributes violating the kind schema are rejected
// here, before the device can reach a graph.
func NewDevice(kind *Kind, name string, opts ...DeviceOption) (*Device, error) {
	if kind == nil {
		return nil, fmt.Errorf("%w: device %s has no kind", domain.ErrInvalidKind, name)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: %s device without a name", domain.ErrInvalidKind, kind.typ)
	}
	if kind.library == "" && kind.expand == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingExpansion, kind.typ)
	}
	d := &Device{
		name:  name,
		kind:  kind,
		attrs: kind.attrs.Clone(),
		ports: make(map[portKey]*DevicePort),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := schema.Validate(kind.schema, d.attrs); err != nil {
		return nil, fmt.Errorf("device %s: %w", name, err)
	}
	return d, nil
}

func (d *Device) Name() string    { return d.name }
func (d *Device) Model() string   { return d.model }
func (d *Device) Kind() *Kind     { return d.kind }
func (d *Device) Type() string    { return d.kind.typ }
func (d *Device) Library() string { return d.kind.library }

// IsAssembly reports whether the device must be expanded before a backend
// can realize it.
func (d *Device) IsAssembly() bool { return d.kind.library == "" }

// Attrs returns a copy of the attribute bag.
func (d *Device) Attrs() domain.Attrs { return d.attrs.Clone() }

// Attr returns one attribute.
func (d *Device) Attr(key string) (domain.Value, bool) { return d.attrs.Get(key) }

// SetAttr sets one attribute.
func (d *Device) SetAttr(key string, v domain.Value) { d.attrs.Set(key, v) }

// Category is "Type" or "Type_Model" and keys CountDevices.
func (d *Device) Category() string {
	if d.model != "" {
		return d.kind.typ + "_" + d.model
	}
	return d.kind.typ
}

// SetPartition assigns the device to a rank and optional thread.
func (d *Device) SetPartition(p domain.Partition) {
	d.partition = p
	d.hasPartition = true
}

// Partition returns the partition assigned to this device itself.
func (d *Device) Partition() (domain.Partition, bool) {
	return d.partition, d.hasPartition
}

// EffectivePartition is the partition that decides where the device lives:
// a submodule lives with its top-level owner, falling back to its own
// assignment when the owner has none.
func (d *Device) EffectivePartition() (domain.Partition, bool) {
	root := d.Root()
	if root.hasPartition {
		return root.partition, true
	}
	return d.partition, d.hasPartition
}

// Owner returns the device this one is a submodule of.
func (d *Device) Owner() *Device { return d.owner }

// Root walks the owner chain to the top-level device.
func (d *Device) Root() *Device {
	r := d
	for r.owner != nil {
		r = r.owner
	}
	return r
}

// Submodules returns a copy of the composition list.
func (d *Device) Submodules() []Submodule {
	out := make([]Submodule, len(d.subs))
	copy(out, d.subs)
	return out
}

// AddSubmodule attaches child to the named slot.
func (d *Device) AddSubmodule(child *Device, slot string) error {
	return d.addSubmodule(Submodule{Device: child, Slot: slot})
}

// AddSubmoduleAt attaches child to an indexed slot.
func (d *Device) AddSubmoduleAt(child *Device, slot string, index int) error {
	return d.addSubmodule(Submodule{Device: child, Slot: slot, Index: index, HasIndex: true})
}

func (d *Device) addSubmodule(s Submodule) error {
	child := s.Device
	if child == nil {
		return errors.New("submodule is nil")
	}
	if d.IsAssembly() || child.IsAssembly() {
		return fmt.Errorf("%w: %s, %s", domain.ErrSubmoduleLibrary, child.name, d.name)
	}
	if d.graph != nil || child.graph != nil {
		return fmt.Errorf("%w: %s into %s", domain.ErrSubmoduleAfterAdd, child.name, d.name)
	}
	if child.owner != nil || child == d {
		return fmt.Errorf("submodule %s already belongs to %s", child.name, child.Root().name)
	}
	child.owner = d
	d.subs = append(d.subs, s)
	return nil
}

// Port returns the port instance for a name. A single port is created once
// and the same instance is returned on every call. For an indexed port the
// next unused index is assigned.
func (d *Device) Port(name string) (*DevicePort, error) {
	spec, err := d.spec(name)
	if err != nil {
		return nil, err
	}
	if spec.Cardinality.IsSingle() {
		return d.cached(portKey{name: name, index: noIndex}), nil
	}
	return d.indexed(spec, d.counters[name])
}

// PortAt returns the port instance at an explicit index.
func (d *Device) PortAt(name string, index int) (*DevicePort, error) {
	spec, err := d.spec(name)
	if err != nil {
		return nil, err
	}
	if spec.Cardinality.IsSingle() {
		return nil, fmt.Errorf("%w: %s.%s[%d]", domain.ErrIndexedSinglePort, d.name, name, index)
	}
	return d.indexed(spec, index)
}

// Ports returns the port instances created so far.
func (d *Device) Ports() []*DevicePort {
	out := make([]*DevicePort, 0, len(d.ports))
	for _, p := range d.ports {
		out = append(out, p)
	}
	sortPorts(out)
	return out
}

func (d *Device) spec(name string) (domain.PortSpec, error) {
	if d.removed {
		return domain.PortSpec{}, fmt.Errorf("device %s was removed from its graph", d.name)
	}
	spec, ok := d.kind.ports.Lookup(name)
	if !ok {
		return domain.PortSpec{}, fmt.Errorf("%w: %s has no port %q", domain.ErrUnknownPort, d.name, name)
	}
	return spec, nil
}

func (d *Device) indexed(spec domain.PortSpec, index int) (*DevicePort, error) {
	if !spec.Cardinality.Allows(index) {
		limit, _ := spec.Cardinality.Limit()
		return nil, fmt.Errorf("%w: %s.%s index %d (limit %d)",
			domain.ErrCardinalityExceeded, d.name, spec.Name, index, limit)
	}
	if d.counters == nil {
		d.counters = make(map[string]int)
	}
	if index+1 > d.counters[spec.Name] {
		d.counters[spec.Name] = index + 1
	}
	return d.cached(portKey{name: spec.Name, index: index}), nil
}

func (d *Device) cached(key portKey) *DevicePort {
	if p, ok := d.ports[key]; ok {
		return p
	}
	p := newDevicePort(d, key)
	d.ports[key] = p
	return p
}

func (d *Device) String() string { return d.name }

// dealloc drops every reference the device holds so nothing removed from
// a graph keeps the rest of it reachable.
func (d *Device) dealloc() {
	for _, p := range d.ports {
		p.link = nil
		p.device = nil
	}
	d.ports = nil
	d.counters = nil
	d.subs = nil
	d.owner = nil
	d.graph = nil
	d.removed = true
}
