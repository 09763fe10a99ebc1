// Package loader reads architecture descriptions written in YAML and turns
// them into device graphs.
//
// A file declares device kinds and a top-level graph:
//
//	name: pair
//	kinds:
//	  Core:
//	    library: cpu.Core
//	    ports:
//	      - {name: mem, type: Mem}
//	  Node:
//	    ports:
//	      - {name: net, type: Net, optional: true}
//	    devices:
//	      - {name: core, kind: Core}
//	      - {name: mem, kind: Memory}
//	    links:
//	      - [core.mem, mem.cpu, 10ns]
//	graph:
//	  devices:
//	    - {name: n0, kind: Node, partition: 0}
//	    - {name: n1, kind: Node, partition: 1}
//	  links:
//	    - [n0.net, n1.net]
//
// A kind without a library is an assembly; its devices and links are its
// interior, and the device name "self" refers to the assembly's own ports.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/devicegraph/pkg/datasheet"
	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/dsl"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/registry"
	"github.com/aretw0/devicegraph/pkg/schema"
	"gopkg.in/yaml.v3"
)

// selfName refers to the assembly being expanded inside a kind body.
const selfName = "self"

type config struct {
	registry  *registry.Registry
	datasheet datasheet.Datasheet
	graphOpts []graph.Option
	dir       string
}

// Option configures how a document is built.
type Option func(*config)

// WithRegistry resolves kinds the document does not declare from reg, and
// registers the document's kinds into it.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithDatasheet supplies per-model attributes. They sit between the kind
// defaults and the attributes written on a device.
func WithDatasheet(ds datasheet.Datasheet) Option {
	return func(c *config) { c.datasheet = datasheet.Merge(c.datasheet, ds) }
}

// WithGraphOptions are passed to graph.New.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(c *config) { c.graphOpts = append(c.graphOpts, opts...) }
}

// Parse decodes a document. Unknown fields are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty architecture document")
		}
		return nil, fmt.Errorf("failed to parse architecture: %w", err)
	}
	return &doc, nil
}

// ParseFile parses the document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open architecture: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Load parses and builds a document.
func Load(r io.Reader, opts ...Option) (*graph.DeviceGraph, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// LoadFile parses and builds the document at path. Datasheets named in
// the document are resolved relative to it.
func LoadFile(path string, opts ...Option) (*graph.DeviceGraph, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(append([]Option{WithBaseDir(filepath.Dir(path))}, opts...)...)
}

// WithBaseDir resolves relative datasheet paths against dir.
func WithBaseDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}

// Build registers the document's kinds and constructs its graph.
func (doc *Document) Build(opts ...Option) (*graph.DeviceGraph, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = registry.NewRegistry()
	}

	var sheets datasheet.Datasheet
	for _, p := range doc.Datasheets {
		if !filepath.IsAbs(p) && cfg.dir != "" {
			p = filepath.Join(cfg.dir, p)
		}
		ds, err := datasheet.Load(p)
		if err != nil {
			return nil, err
		}
		sheets = datasheet.Merge(sheets, ds)
	}
	// Datasheets given as options win over the ones the file names.
	cfg.datasheet = datasheet.Merge(sheets, cfg.datasheet)

	if err := doc.registerKinds(cfg); err != nil {
		return nil, err
	}

	gopts := append([]graph.Option{graph.WithGlobalAttrs(domain.NewAttrs(doc.Attrs))}, cfg.graphOpts...)
	g := graph.New(gopts...)
	devices, err := cfg.devices(doc.Graph.Devices)
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if err := g.Add(d); err != nil {
			return nil, err
		}
	}
	byName := indexDevices(devices)
	for _, l := range doc.Graph.Links {
		p0, err := resolve(byName, l.A)
		if err != nil {
			return nil, err
		}
		p1, err := resolve(byName, l.B)
		if err != nil {
			return nil, err
		}
		if err := g.LinkWithLatency(p0, p1, domain.Latency(l.Latency)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (doc *Document) registerKinds(cfg *config) error {
	types := make([]string, 0, len(doc.Kinds))
	for typ := range doc.Kinds {
		types = append(types, typ)
	}
	sort.Strings(types)

	b := dsl.New()
	for _, typ := range types {
		decl := doc.Kinds[typ]
		var kb *dsl.KindBuilder
		if decl.Library != "" {
			if len(decl.Devices) > 0 || len(decl.Links) > 0 {
				return fmt.Errorf("%w: %s has a library and a body", domain.ErrInvalidKind, typ)
			}
			kb = b.Primitive(typ, decl.Library)
		} else {
			kb = b.Assembly(typ, cfg.expandBody(decl.Body))
		}
		for _, p := range decl.Ports {
			var pb *dsl.PortBuilder
			switch {
			case p.Limit > 0:
				pb = kb.Bounded(p.Name, p.Type, p.Limit)
			case p.Multi:
				pb = kb.Multi(p.Name, p.Type)
			default:
				pb = kb.Single(p.Name, p.Type)
			}
			if p.Optional {
				pb.Optional()
			}
			if p.Format != "" {
				pb.Format(p.Format)
			}
		}
		for _, k := range sortedKeys(decl.Attrs) {
			kb.Attr(k, decl.Attrs[k])
		}
		if len(decl.Schema) > 0 {
			s, err := schema.ParseTypeMap(decl.Schema)
			if err != nil {
				return fmt.Errorf("kind %s: %w", typ, err)
			}
			for k, t := range s {
				kb.AttrSchema(k, t)
			}
		}
	}

	reg, err := b.Build()
	if err != nil {
		return err
	}
	for _, typ := range reg.Types() {
		k, _ := reg.Lookup(typ)
		cfg.registry.Register(k)
	}
	return nil
}

// expandBody builds the expansion procedure of a declarative assembly.
// Kinds are resolved when the assembly expands, so bodies may refer to
// kinds in any order.
func (cfg *config) expandBody(body Body) graph.ExpandFunc {
	return func(self *graph.Device, x *graph.Expansion) error {
		devices, err := cfg.devices(body.Devices)
		if err != nil {
			return err
		}
		byName := indexDevices(devices)
		if _, clash := byName[selfName]; clash {
			return fmt.Errorf("%w: %q is reserved", domain.ErrDuplicateName, selfName)
		}
		byName[selfName] = self
		for _, d := range devices {
			if err := x.Add(d); err != nil {
				return err
			}
		}
		for _, l := range body.Links {
			p0, err := resolve(byName, l.A)
			if err != nil {
				return err
			}
			p1, err := resolve(byName, l.B)
			if err != nil {
				return err
			}
			if err := x.LinkWithLatency(p0, p1, domain.Latency(l.Latency)); err != nil {
				return err
			}
		}
		return nil
	}
}

func (cfg *config) devices(decls []DeviceDecl) ([]*graph.Device, error) {
	out := make([]*graph.Device, 0, len(decls))
	for _, decl := range decls {
		d, err := cfg.device(decl)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (cfg *config) device(decl DeviceDecl) (*graph.Device, error) {
	kind, ok := cfg.registry.Lookup(decl.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: device %s has unknown kind %q", domain.ErrInvalidKind, decl.Name, decl.Kind)
	}
	opts := []graph.DeviceOption{graph.WithModel(decl.Model)}
	if decl.Model != "" {
		if attrs, ok := cfg.datasheet.Attrs(decl.Kind, decl.Model); ok {
			opts = append(opts, graph.WithAttrs(attrs))
		}
	}
	opts = append(opts, graph.WithAttrs(domain.NewAttrs(decl.Attrs)))
	if p := decl.Partition; p != nil {
		if p.Thread != nil {
			opts = append(opts, graph.WithPartition(domain.OnThread(p.Rank, *p.Thread)))
		} else {
			opts = append(opts, graph.WithPartition(domain.OnRank(p.Rank)))
		}
	}

	d, err := kind.New(decl.Name, opts...)
	if err != nil {
		return nil, err
	}
	for _, s := range decl.Submodules {
		sub, err := cfg.device(s.DeviceDecl)
		if err != nil {
			return nil, err
		}
		if s.Index != nil {
			err = d.AddSubmoduleAt(sub, s.Slot, *s.Index)
		} else {
			err = d.AddSubmodule(sub, s.Slot)
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// indexDevices maps each device and its submodules by declared name.
func indexDevices(devices []*graph.Device) map[string]*graph.Device {
	out := make(map[string]*graph.Device)
	var walk func(*graph.Device)
	walk = func(d *graph.Device) {
		out[d.Name()] = d
		for _, s := range d.Submodules() {
			walk(s.Device)
		}
	}
	for _, d := range devices {
		walk(d)
	}
	return out
}

func resolve(byName map[string]*graph.Device, endpoint string) (*graph.DevicePort, error) {
	e, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	d, ok := byName[e.Device]
	if !ok {
		return nil, fmt.Errorf("link endpoint %q: unknown device %q", endpoint, e.Device)
	}
	if e.HasIndex {
		return d.PortAt(e.Port, e.Index)
	}
	return d.Port(e.Port)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
