// Package inspect projects a device graph into the read-only views served
// by the HTTP and MCP adapters.
package inspect

import (
	"sync"

	"github.com/aretw0/devicegraph/internal/presentation/diagram"
	"github.com/aretw0/devicegraph/pkg/graph"
)

// Device is the view of one device.
type Device struct {
	Name      string         `json:"name" jsonschema_description:"Full device name"`
	Type      string         `json:"type" jsonschema_description:"Device kind"`
	Model     string         `json:"model,omitempty"`
	Library   string         `json:"library,omitempty" jsonschema_description:"Backend component, empty for assemblies"`
	Assembly  bool           `json:"assembly"`
	Owner     string         `json:"owner,omitempty" jsonschema_description:"Device this one is a submodule of"`
	Partition *Partition     `json:"partition,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
	Ports     []string       `json:"ports" jsonschema_description:"Labels of the instantiated ports"`
}

// Partition is the rank and optional thread a device is placed on.
type Partition struct {
	Rank   int  `json:"rank"`
	Thread *int `json:"thread,omitempty"`
}

// Link is the view of one link.
type Link struct {
	A       string `json:"a"`
	B       string `json:"b"`
	Latency string `json:"latency"`
}

// Summary holds the graph totals.
type Summary struct {
	Name       string         `json:"name"`
	Devices    int            `json:"devices"`
	Links      int            `json:"links"`
	Assemblies int            `json:"assemblies"`
	Categories map[string]int `json:"categories" jsonschema_description:"Device count per type or type_model"`
}

// View guards a graph shared by concurrent readers. The graph is never
// modified through a View; Swap replaces it as a whole.
type View struct {
	mu    sync.RWMutex
	graph *graph.DeviceGraph
	name  string
}

// New creates a view of g under the given name.
func New(g *graph.DeviceGraph, name string) *View {
	return &View{graph: g, name: name}
}

// Name is the graph name used in diagrams and the summary.
func (v *View) Name() string { return v.name }

// Swap replaces the viewed graph.
func (v *View) Swap(g *graph.DeviceGraph) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.graph = g
}

// Devices lists every device by name, without attributes.
func (v *View) Devices() []Device {
	v.mu.RLock()
	defer v.mu.RUnlock()

	devices := v.graph.Devices()
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, toDevice(d, false))
	}
	return out
}

// Device returns one device with its attributes.
func (v *View) Device(name string) (Device, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	d, ok := v.graph.Device(name)
	if !ok {
		return Device{}, false
	}
	return toDevice(d, true), true
}

// Links lists every link in a stable order.
func (v *View) Links() []Link {
	v.mu.RLock()
	defer v.mu.RUnlock()

	links := v.graph.Links()
	out := make([]Link, 0, len(links))
	for _, l := range links {
		out = append(out, Link{A: l.A.String(), B: l.B.String(), Latency: string(l.Latency)})
	}
	return out
}

// Summary counts devices, links and assemblies.
func (v *View) Summary() Summary {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := Summary{
		Name:       v.name,
		Devices:    v.graph.Len(),
		Links:      v.graph.LinkCount(),
		Categories: v.graph.CountDevices(),
	}
	for _, d := range v.graph.Devices() {
		if d.IsAssembly() {
			out.Assemblies++
		}
	}
	return out
}

// DOT renders the graph in Graphviz syntax, with ports as record fields
// when ports is set.
func (v *View) DOT(ports bool) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return diagram.DOT(v.graph, v.name, diagram.Options{Ports: ports})
}

// Mermaid renders the graph as a Mermaid flowchart.
func (v *View) Mermaid() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return diagram.Mermaid(v.graph)
}

func toDevice(d *graph.Device, withAttrs bool) Device {
	out := Device{
		Name:     d.Name(),
		Type:     d.Type(),
		Model:    d.Model(),
		Library:  d.Library(),
		Assembly: d.IsAssembly(),
		Ports:    []string{},
	}
	if owner := d.Owner(); owner != nil {
		out.Owner = owner.Name()
	}
	if p, ok := d.Partition(); ok {
		out.Partition = &Partition{Rank: p.Rank}
		if p.HasThread {
			thread := p.Thread
			out.Partition.Thread = &thread
		}
	}
	if withAttrs {
		out.Attrs = d.Attrs().Map()
	}
	for _, p := range d.Ports() {
		out.Ports = append(out.Ports, p.Label())
	}
	return out
}
