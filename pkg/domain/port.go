package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultFormat is the index template used when a port spec gives none.
// The '#' is replaced by the port index: "link" at index 3 becomes "link.p3".
const DefaultFormat = ".p#"

// Cardinality describes how many connections a port name supports.
// The zero value is a single port.
type Cardinality struct {
	multi bool
	limit int
}

// Single is a port name with exactly one, un-indexed instance.
func Single() Cardinality { return Cardinality{} }

// Multi is an indexed port name without an upper limit.
func Multi() Cardinality { return Cardinality{multi: true} }

// Bounded is an indexed port name accepting indices 0..n-1.
func Bounded(n int) Cardinality {
	if n == 1 {
		return Single()
	}
	return Cardinality{multi: true, limit: n}
}

// IsSingle reports whether the port takes no index.
func (c Cardinality) IsSingle() bool { return !c.multi }

// Limit returns the exclusive index limit and whether there is one.
func (c Cardinality) Limit() (int, bool) {
	if !c.multi {
		return 1, true
	}
	return c.limit, c.limit > 0
}

// Allows reports whether index is within the limit.
func (c Cardinality) Allows(index int) bool {
	if index < 0 {
		return false
	}
	limit, bounded := c.Limit()
	return !bounded || index < limit
}

func (c Cardinality) String() string {
	switch {
	case !c.multi:
		return "single"
	case c.limit > 0:
		return "bounded(" + strconv.Itoa(c.limit) + ")"
	default:
		return "multi"
	}
}

// PortSpec is one entry of a port schema.
type PortSpec struct {
	Name        string
	Cardinality Cardinality
	// Type is an opaque tag; two ports may only be linked when tags are equal.
	Type     string
	Required bool
	// Format is the index template (see DefaultFormat).
	Format string
}

// FormatIndex renders the port name with an index using its Format template.
func (s PortSpec) FormatIndex(index int) string {
	format := s.Format
	if format == "" {
		format = DefaultFormat
	}
	before, after, found := strings.Cut(format, "#")
	if !found {
		return s.Name + format + strconv.Itoa(index)
	}
	return s.Name + before + strconv.Itoa(index) + after
}

// PortInfo is the read-only port schema of a device kind.
// It is built once per kind and never mutated afterwards.
type PortInfo struct {
	specs map[string]PortSpec
	names []string
}

// NewPortInfo builds a schema from the given specs. Duplicate or empty names
// are rejected.
func NewPortInfo(specs ...PortSpec) (PortInfo, error) {
	info := PortInfo{specs: make(map[string]PortSpec, len(specs))}
	for _, s := range specs {
		if s.Name == "" {
			return PortInfo{}, fmt.Errorf("%w: port without a name", ErrInvalidKind)
		}
		if _, dup := info.specs[s.Name]; dup {
			return PortInfo{}, fmt.Errorf("%w: port %q declared twice", ErrInvalidKind, s.Name)
		}
		if s.Format == "" {
			s.Format = DefaultFormat
		}
		info.specs[s.Name] = s
		info.names = append(info.names, s.Name)
	}
	sort.Strings(info.names)
	return info, nil
}

// Lookup returns the PortSpec of a port name.
func (p PortInfo) Lookup(name string) (PortSpec, bool) {
	s, ok := p.specs[name]
	return s, ok
}

// Names returns the declared port names in sorted order.
func (p PortInfo) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Required returns the names of required ports in sorted order.
func (p PortInfo) Required() []string {
	var out []string
	for _, n := range p.names {
		if p.specs[n].Required {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of declared ports.
func (p PortInfo) Len() int { return len(p.names) }
