package dsl

import (
	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/schema"
)

// KindBuilder provides a fluent API for configuring a device kind.
type KindBuilder struct {
	spec  graph.KindSpec
	ports []*PortBuilder
}

// Primitive starts a standalone kind bound to a backend library.
func Primitive(typ, library string) *KindBuilder {
	return &KindBuilder{spec: graph.KindSpec{Type: typ, Library: library}}
}

// Assembly starts a standalone kind realized by an expansion procedure.
func Assembly(typ string, expand graph.ExpandFunc) *KindBuilder {
	return &KindBuilder{spec: graph.KindSpec{Type: typ, Expand: expand}}
}

// Single declares a port with exactly one instance. Ports are required
// unless marked Optional.
func (k *KindBuilder) Single(name, typ string) *PortBuilder {
	return k.port(name, typ, domain.Single())
}

// Multi declares an indexed port with no index limit.
func (k *KindBuilder) Multi(name, typ string) *PortBuilder {
	return k.port(name, typ, domain.Multi())
}

// Bounded declares an indexed port accepting indices below limit.
func (k *KindBuilder) Bounded(name, typ string, limit int) *PortBuilder {
	return k.port(name, typ, domain.Bounded(limit))
}

func (k *KindBuilder) port(name, typ string, c domain.Cardinality) *PortBuilder {
	pb := &PortBuilder{
		KindBuilder: k,
		spec:        domain.PortSpec{Name: name, Type: typ, Cardinality: c, Required: true},
	}
	k.ports = append(k.ports, pb)
	return pb
}

// Attr adds a default attribute.
func (k *KindBuilder) Attr(key string, value any) *KindBuilder {
	k.spec.Attrs.Set(key, domain.ValueOf(value))
	return k
}

// AttrSchema constrains an attribute; devices violating it are rejected at
// construction.
func (k *KindBuilder) AttrSchema(key string, t schema.Type) *KindBuilder {
	if k.spec.Schema == nil {
		k.spec.Schema = make(schema.Schema)
	}
	k.spec.Schema[key] = t
	return k
}

// Expand sets or replaces the expansion procedure.
func (k *KindBuilder) Expand(fn graph.ExpandFunc) *KindBuilder {
	k.spec.Expand = fn
	return k
}

// Build validates and freezes the kind.
func (k *KindBuilder) Build() (*graph.Kind, error) {
	spec := k.spec
	spec.Ports = make([]domain.PortSpec, 0, len(k.ports))
	for _, pb := range k.ports {
		spec.Ports = append(spec.Ports, pb.spec)
	}
	return graph.NewKind(spec)
}

// MustBuild is like Build but panics on error.
func (k *KindBuilder) MustBuild() *graph.Kind {
	kind, err := k.Build()
	if err != nil {
		panic(err)
	}
	return kind
}

// PortBuilder configures the port just declared. It embeds the kind builder
// so declarations can keep chaining.
type PortBuilder struct {
	*KindBuilder
	spec domain.PortSpec
}

// Optional marks the port as not required for link verification.
func (p *PortBuilder) Optional() *PortBuilder {
	p.spec.Required = false
	return p
}

// Format sets the index template, where '#' stands for the index.
func (p *PortBuilder) Format(format string) *PortBuilder {
	p.spec.Format = format
	return p
}
