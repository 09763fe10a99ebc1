package graph

import (
	"sort"
	"sync/atomic"
)

const noIndex = -1

type portKey struct {
	name  string
	index int
}

var portSerial atomic.Uint64

// DevicePort is a concrete port of a device. Ports are created on demand by
// Device.Port and Device.PortAt and compared by identity.
type DevicePort struct {
	device *Device
	key    portKey
	link   *DevicePort
	// id orders the endpoints of a link key.
	id uint64
}

func newDevicePort(d *Device, key portKey) *DevicePort {
	return &DevicePort{device: d, key: key, id: portSerial.Add(1)}
}

// Device returns the owning device, nil once the device left its graph.
func (p *DevicePort) Device() *Device { return p.device }

// Name is the declared port name.
func (p *DevicePort) Name() string { return p.key.name }

// Index returns the port index, or false for a single port.
func (p *DevicePort) Index() (int, bool) {
	return p.key.index, p.key.index != noIndex
}

// Link returns the port this one is connected to.
func (p *DevicePort) Link() *DevicePort { return p.link }

// Type is the port's type tag.
func (p *DevicePort) Type() string {
	if p.device == nil {
		return ""
	}
	spec, _ := p.device.kind.ports.Lookup(p.key.name)
	return spec.Type
}

// Label renders the backend port name, applying the port's index format.
func (p *DevicePort) Label() string {
	if p.key.index == noIndex || p.device == nil {
		return p.key.name
	}
	spec, _ := p.device.kind.ports.Lookup(p.key.name)
	return spec.FormatIndex(p.key.index)
}

func (p *DevicePort) String() string {
	if p.device == nil {
		return "<detached>." + p.Label()
	}
	return p.device.name + "." + p.Label()
}

// linkKey is the unordered pair of a link's endpoints.
type linkKey struct {
	a, b *DevicePort
}

func keyOf(p0, p1 *DevicePort) linkKey {
	if p1.id < p0.id {
		p0, p1 = p1, p0
	}
	return linkKey{a: p0, b: p1}
}

func sortPorts(ps []*DevicePort) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].key.name != ps[j].key.name {
			return ps[i].key.name < ps[j].key.name
		}
		return ps[i].key.index < ps[j].key.index
	})
}
