package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/registry"
)

// Builder manages the construction of a set of kinds.
type Builder struct {
	kinds map[string]*KindBuilder
	order []string
}

// New creates a new kind set builder.
func New() *Builder {
	return &Builder{
		kinds: make(map[string]*KindBuilder),
	}
}

// Primitive starts a kind bound to a backend library.
// If the type already exists, it returns the existing builder.
func (b *Builder) Primitive(typ, library string) *KindBuilder {
	return b.add(Primitive(typ, library))
}

// Assembly starts a kind realized by an expansion procedure.
// If the type already exists, it returns the existing builder.
func (b *Builder) Assembly(typ string, expand graph.ExpandFunc) *KindBuilder {
	return b.add(Assembly(typ, expand))
}

func (b *Builder) add(kb *KindBuilder) *KindBuilder {
	if existing, ok := b.kinds[kb.spec.Type]; ok {
		return existing
	}
	b.kinds[kb.spec.Type] = kb
	b.order = append(b.order, kb.spec.Type)
	return kb
}

// Build compiles every kind into a Registry.
func (b *Builder) Build() (*registry.Registry, error) {
	reg := registry.NewRegistry()
	var errs []error
	for _, typ := range b.order {
		k, err := b.kinds[typ].Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg.Register(k)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build kinds: %w", err)
	}
	return reg, nil
}
