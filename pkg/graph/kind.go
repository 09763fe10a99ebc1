package graph

import (
	"fmt"
	"maps"

	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/schema"
)

// ExpandFunc is the expansion procedure of an assembly. It receives the
// device being expanded and the expansion context bound to it; every device
// and link it creates goes through x, which renames the new devices under
// self's name and splices self's boundary links onto the interior ports.
type ExpandFunc func(self *Device, x *Expansion) error

// KindSpec is the definition of a device variant.
type KindSpec struct {
	// Type names the variant; it is the first half of a device category.
	Type string
	// Library is the backend component a primitive maps to. An empty
	// library makes the kind an assembly, which requires Expand.
	Library string
	Ports   []domain.PortSpec
	// Attrs are the default attributes every device of the kind starts with.
	Attrs domain.Attrs
	// Schema, when set, is checked against each device's merged attributes.
	Schema schema.Schema
	Expand ExpandFunc
}

// Kind is an immutable device variant shared by all of its devices.
type Kind struct {
	typ     string
	library string
	ports   domain.PortInfo
	attrs   domain.Attrs
	schema  schema.Schema
	expand  ExpandFunc
}

// NewKind validates a spec and freezes it into a Kind.
func NewKind(spec KindSpec) (*Kind, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("%w: kind without a type name", domain.ErrInvalidKind)
	}
	if spec.Library == "" && spec.Expand == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingExpansion, spec.Type)
	}
	ports, err := domain.NewPortInfo(spec.Ports...)
	if err != nil {
		return nil, fmt.Errorf("kind %s: %w", spec.Type, err)
	}
	return &Kind{
		typ:     spec.Type,
		library: spec.Library,
		ports:   ports,
		attrs:   spec.Attrs.Clone(),
		schema:  maps.Clone(spec.Schema),
		expand:  spec.Expand,
	}, nil
}

// MustKind is like NewKind but panics on error. It is meant for package-level
// kind definitions.
func MustKind(spec KindSpec) *Kind {
	k, err := NewKind(spec)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *Kind) Type() string               { return k.typ }
func (k *Kind) Library() string            { return k.library }
func (k *Kind) IsAssembly() bool           { return k.library == "" }
func (k *Kind) Ports() domain.PortInfo     { return k.ports }
func (k *Kind) DefaultAttrs() domain.Attrs { return k.attrs.Clone() }

// New constructs a device of this kind.
func (k *Kind) New(name string, opts ...DeviceOption) (*Device, error) {
	return NewDevice(k, name, opts...)
}
