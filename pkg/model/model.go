// Package model turns a flattened device graph into a backend-neutral
// component model: the document a simulator loads to instantiate
// components, wire their ports and apply their parameters.
package model

import (
	"errors"
	"fmt"
	"maps"
	"sort"

	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/google/uuid"
)

// MinLatency replaces zero latencies on links; backends reject a link that
// takes no time.
const MinLatency domain.Latency = "1ps"

// SelfPartitioner is the partitioner program option set for multi-rank runs,
// telling the backend to honor the partitions recorded on components.
const SelfPartitioner = "sst.self"

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/aretw0/devicegraph"))

// Model is the serialized form of a graph.
type Model struct {
	ID             uuid.UUID                 `json:"id" cbor:"id"`
	ProgramOptions map[string]any            `json:"program_options" cbor:"program_options"`
	GlobalParams   map[string]map[string]any `json:"global_params" cbor:"global_params"`
	Components     []Component               `json:"components" cbor:"components"`
	Links          []Link                    `json:"links" cbor:"links"`
}

// Component is a top-level primitive.
type Component struct {
	Name             string         `json:"name" cbor:"name"`
	Type             string         `json:"type" cbor:"type"`
	Params           map[string]any `json:"params" cbor:"params"`
	ParamsGlobalSets []string       `json:"params_global_sets" cbor:"params_global_sets"`
	Partition        *Partition     `json:"partition,omitempty" cbor:"partition,omitempty"`
	Subcomponents    []Subcomponent `json:"subcomponents,omitempty" cbor:"subcomponents,omitempty"`
}

// Subcomponent fills a parameter slot of its owner.
type Subcomponent struct {
	SlotName         string         `json:"slot_name" cbor:"slot_name"`
	Type             string         `json:"type" cbor:"type"`
	SlotNumber       *int           `json:"slot_number" cbor:"slot_number"`
	Params           map[string]any `json:"params" cbor:"params"`
	ParamsGlobalSets []string       `json:"params_global_sets" cbor:"params_global_sets"`
	Subcomponents    []Subcomponent `json:"subcomponents,omitempty" cbor:"subcomponents,omitempty"`
}

type Partition struct {
	Rank   int `json:"rank" cbor:"rank"`
	Thread int `json:"thread" cbor:"thread"`
}

type Link struct {
	Name  string   `json:"name" cbor:"name"`
	Left  Endpoint `json:"left" cbor:"left"`
	Right Endpoint `json:"right" cbor:"right"`
}

type Endpoint struct {
	Component string `json:"component" cbor:"component"`
	Port      string `json:"port" cbor:"port"`
	Latency   string `json:"latency" cbor:"latency"`
}

// Options control how a model is built.
type Options struct {
	// Name identifies the model; the ID is derived from it.
	Name string
	// ProgramOptions are copied into the model as-is.
	ProgramOptions map[string]any
	// NRanks above one selects the self partitioner.
	NRanks int
	// Stringify renders every native parameter as a string and nil as "".
	Stringify bool
}

// Build converts a graph into a model. The graph must be flattened: any
// link touching an assembly is an error, while unlinked assemblies are
// skipped.
func Build(g *graph.DeviceGraph, opts Options) (*Model, error) {
	m := &Model{
		ID:             ID(opts.Name),
		ProgramOptions: maps.Clone(opts.ProgramOptions),
		GlobalParams:   make(map[string]map[string]any),
		Components:     []Component{},
		Links:          []Link{},
	}
	if m.ProgramOptions == nil {
		m.ProgramOptions = make(map[string]any)
	}
	if opts.NRanks > 1 {
		m.ProgramOptions["partitioner"] = SelfPartitioner
	}

	globals, err := EncodeAttrs(g.Attrs(), opts.Stringify)
	if err != nil {
		return nil, fmt.Errorf("global params: %w", err)
	}
	globalSet := make([]string, 0, len(globals))
	for k, v := range globals {
		m.GlobalParams[k] = map[string]any{k: v}
		globalSet = append(globalSet, k)
	}
	sort.Strings(globalSet)

	for _, d := range g.Devices() {
		if d.Owner() != nil || d.IsAssembly() {
			continue
		}
		ps, err := params(d, opts.Stringify)
		if err != nil {
			return nil, err
		}
		c := Component{
			Name:             d.Name(),
			Type:             d.Library(),
			Params:           ps,
			ParamsGlobalSets: globalSet,
		}
		if p, ok := d.Partition(); ok {
			c.Partition = &Partition{Rank: p.Rank, Thread: p.ThreadOrZero()}
		}
		subs, err := subcomponents(d, globalSet, opts.Stringify)
		if err != nil {
			return nil, err
		}
		c.Subcomponents = subs
		m.Components = append(m.Components, c)
	}

	var errs []error
	for _, l := range g.Links() {
		for _, p := range []*graph.DevicePort{l.A, l.B} {
			if p.Device().IsAssembly() {
				errs = append(errs, fmt.Errorf("%w: %s", domain.ErrNoLibrary, p.Device().Name()))
			}
		}
		latency := l.Latency
		if latency.IsZero() {
			latency = MinLatency
		}
		m.Links = append(m.Links, Link{
			Name:  fmt.Sprintf("%s__%s__%s", l.A, l.Latency, l.B),
			Left:  Endpoint{Component: l.A.Device().Name(), Port: l.A.Label(), Latency: string(latency)},
			Right: Endpoint{Component: l.B.Device().Name(), Port: l.B.Label(), Latency: string(latency)},
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// ID derives the deterministic model ID of a name.
func ID(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(name))
}

func params(d *graph.Device, stringify bool) (map[string]any, error) {
	attrs := d.Attrs()
	attrs.Set("type", domain.String(d.Type()))
	if d.Model() != "" {
		attrs.Set("model", domain.String(d.Model()))
	} else {
		attrs.Set("model", domain.Null())
	}
	out, err := EncodeAttrs(attrs, stringify)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", d.Name(), err)
	}
	return out, nil
}

func subcomponents(d *graph.Device, globalSet []string, stringify bool) ([]Subcomponent, error) {
	var out []Subcomponent
	for _, s := range d.Submodules() {
		if s.Device.IsAssembly() {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoLibrary, s.Device.Name())
		}
		ps, err := params(s.Device, stringify)
		if err != nil {
			return nil, err
		}
		sub := Subcomponent{
			SlotName:         s.Slot,
			Type:             s.Device.Library(),
			Params:           ps,
			ParamsGlobalSets: globalSet,
		}
		if s.HasIndex {
			idx := s.Index
			sub.SlotNumber = &idx
		}
		nested, err := subcomponents(s.Device, globalSet, stringify)
		if err != nil {
			return nil, err
		}
		sub.Subcomponents = nested
		out = append(out, sub)
	}
	return out, nil
}
