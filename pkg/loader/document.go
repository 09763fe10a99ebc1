package loader

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed architecture file.
type Document struct {
	// Name identifies the architecture; compiled artifacts are named after it.
	Name string `yaml:"name"`
	// ProgramOptions are handed to the model unchanged.
	ProgramOptions map[string]any `yaml:"program_options"`
	// Datasheets are paths, relative to the file, merged in order.
	Datasheets []string `yaml:"datasheets"`
	// Attrs are the graph-wide attributes.
	Attrs map[string]any      `yaml:"attrs"`
	Kinds map[string]KindDecl `yaml:"kinds"`
	Graph Body                `yaml:"graph"`
}

// KindDecl declares a device kind. A kind with a library is a primitive;
// one without is an assembly realized by its Body.
type KindDecl struct {
	Library string            `yaml:"library"`
	Ports   []PortDecl        `yaml:"ports"`
	Attrs   map[string]any    `yaml:"attrs"`
	Schema  map[string]string `yaml:"schema"`
	Body    `yaml:",inline"`
}

// PortDecl declares one port. Without Multi or Limit the port is single.
type PortDecl struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Multi    bool   `yaml:"multi"`
	Limit    int    `yaml:"limit"`
	Optional bool   `yaml:"optional"`
	Format   string `yaml:"format"`
}

// Body lists devices and the links between them. Inside an assembly the
// device name "self" refers to the assembly being expanded.
type Body struct {
	Devices []DeviceDecl `yaml:"devices"`
	Links   []LinkDecl   `yaml:"links"`
}

// DeviceDecl declares one device.
type DeviceDecl struct {
	Name       string          `yaml:"name"`
	Kind       string          `yaml:"kind"`
	Model      string          `yaml:"model"`
	Attrs      map[string]any  `yaml:"attrs"`
	Partition  *PartitionDecl  `yaml:"partition"`
	Submodules []SubmoduleDecl `yaml:"submodules"`
}

// SubmoduleDecl attaches a device to a slot of its owner.
type SubmoduleDecl struct {
	Slot       string `yaml:"slot"`
	Index      *int   `yaml:"index"`
	DeviceDecl `yaml:",inline"`
}

// PartitionDecl is written either as a bare rank or as {rank, thread}.
type PartitionDecl struct {
	Rank   int
	Thread *int
}

func (p *PartitionDecl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Rank)
	}
	var m struct {
		Rank   int  `yaml:"rank"`
		Thread *int `yaml:"thread"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	p.Rank, p.Thread = m.Rank, m.Thread
	return nil
}

// LinkDecl joins two endpoints written as "device.port" or
// "device.port[index]". In a file it is either a sequence
// [a, b] / [a, b, latency] or a mapping {a, b, latency}.
type LinkDecl struct {
	A       string `yaml:"a"`
	B       string `yaml:"b"`
	Latency string `yaml:"latency"`
}

func (l *LinkDecl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) < 2 || len(parts) > 3 {
			return fmt.Errorf("line %d: link needs two endpoints and an optional latency", node.Line)
		}
		l.A, l.B = parts[0], parts[1]
		if len(parts) == 3 {
			l.Latency = parts[2]
		}
		return nil
	}
	type plain LinkDecl
	return node.Decode((*plain)(l))
}

// Endpoint is a parsed link endpoint.
type Endpoint struct {
	Device   string
	Port     string
	Index    int
	HasIndex bool
}

// ParseEndpoint splits "device.port" or "device.port[index]". The device
// name is everything before the last dot, so it may itself be dotted.
func ParseEndpoint(s string) (Endpoint, error) {
	var e Endpoint
	rest := s
	if strings.HasSuffix(rest, "]") {
		open := strings.LastIndex(rest, "[")
		if open < 0 {
			return e, fmt.Errorf("invalid endpoint %q", s)
		}
		idx, err := strconv.Atoi(rest[open+1 : len(rest)-1])
		if err != nil || idx < 0 {
			return e, fmt.Errorf("invalid index in endpoint %q", s)
		}
		e.Index, e.HasIndex = idx, true
		rest = rest[:open]
	}
	dot := strings.LastIndex(rest, ".")
	if dot <= 0 || dot == len(rest)-1 {
		return e, fmt.Errorf("invalid endpoint %q: want device.port", s)
	}
	e.Device, e.Port = rest[:dot], rest[dot+1:]
	return e, nil
}
