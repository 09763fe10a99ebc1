// Package testutils holds device kinds and graph builders shared by tests.
package testutils

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/dsl"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/stretchr/testify/require"
)

const Library = "ElementLibrary.Component"

// LibraryKind is a primitive without ports.
var LibraryKind = dsl.Primitive("LibraryTestDevice", Library).MustBuild()

// PortKind declares one port of each flavor.
var PortKind = dsl.Primitive("PortTestDevice", Library).
	Single("default", "").
	Single("ptype", "test").
	Multi("no_limit", "").
	Bounded("limit", "", 2).
	Single("optional", "").Optional().
	Multi("format", "").Format("(#)").
	Single("exampleSinglePort", "test").Optional().
	Multi("exampleMultiPort", "test").Optional().
	Multi("port", "port").Optional().
	MustBuild()

// LibraryPortKind is a primitive with a ring input and output plus a
// free multi port.
var LibraryPortKind = dsl.Primitive("LibraryPortTestDevice", Library).
	Single("input", "").
	Single("output", "").
	Multi("optional", "").Optional().
	MustBuild()

// ModelKind is a primitive whose devices carry a model.
var ModelKind = dsl.Primitive("ModelTestDevice", Library).MustBuild()

// RingKind is a recursive assembly. A device of level n expands into two
// devices of level n-1 chained input to output between its own input and
// output; level 0 expands into two LibraryPortKind leaves. Its optional
// port accepts 2^(n+1) links, spread evenly over the interior.
var RingKind *graph.Kind

// The expansion builds further rings, so the kind is set up in init.
func init() {
	RingKind = dsl.Assembly("RecursiveAssemblyTestDevice", expandRing).
		Single("input", "").
		Single("output", "").
		Multi("optional", "").Optional().
		MustBuild()
}

// NewRing builds a ring assembly of the given level. The level is stored
// as the model, so each level is its own category.
func NewRing(levels int, suffix string) *graph.Device {
	name := fmt.Sprintf("%s%d%s", RingKind.Type(), levels, suffix)
	return graph.Must(RingKind.New(name, graph.WithModel(strconv.Itoa(levels))))
}

func expandRing(self *graph.Device, x *graph.Expansion) error {
	level, err := strconv.Atoi(self.Model())
	if err != nil {
		return fmt.Errorf("ring level: %w", err)
	}

	var d0, d1 *graph.Device
	if level == 0 {
		d0 = graph.Must(LibraryPortKind.New(LibraryPortKind.Type() + "0"))
		d1 = graph.Must(LibraryPortKind.New(LibraryPortKind.Type() + "1"))
		if err := x.Link(graph.Must(d0.PortAt("optional", 0)), graph.Must(self.PortAt("optional", 0))); err != nil {
			return err
		}
		if err := x.Link(graph.Must(d1.PortAt("optional", 0)), graph.Must(self.PortAt("optional", 1))); err != nil {
			return err
		}
	} else {
		d0 = NewRing(level-1, "0")
		d1 = NewRing(level-1, "1")
		for i := 0; i < 1<<level; i++ {
			if err := x.Link(graph.Must(d0.PortAt("optional", i)), graph.Must(self.PortAt("optional", 2*i))); err != nil {
				return err
			}
			if err := x.Link(graph.Must(d1.PortAt("optional", i)), graph.Must(self.PortAt("optional", 2*i+1))); err != nil {
				return err
			}
		}
	}

	if err := x.Link(graph.Must(self.Port("input")), graph.Must(d0.Port("input"))); err != nil {
		return err
	}
	if err := x.Link(graph.Must(d0.Port("output")), graph.Must(d1.Port("input"))); err != nil {
		return err
	}
	return x.Link(graph.Must(d1.Port("output")), graph.Must(self.Port("output")))
}

// Rings holds the devices of a RingGraph.
type Rings struct {
	Graph      *graph.DeviceGraph
	R0, R1     *graph.Device
	Ltd0, Ltd1 *graph.Device
}

// RingGraph builds two closed rings of the given level, one on rank 0 and
// one on rank 1, each fully tapped by a leaf on rank 2. The two leaves are
// linked to each other in a loop.
func RingGraph(t testing.TB, levels int, opts ...graph.Option) Rings {
	t.Helper()

	g := graph.New(opts...)
	r := Rings{
		Graph: g,
		R0:    NewRing(levels, "0"),
		R1:    NewRing(levels, "1"),
		Ltd0:  graph.Must(LibraryPortKind.New(LibraryPortKind.Type() + "0")),
		Ltd1:  graph.Must(LibraryPortKind.New(LibraryPortKind.Type() + "1")),
	}

	link := func(a, b *graph.Device, pa, pb string) {
		t.Helper()
		require.NoError(t, g.Link(graph.Must(a.Port(pa)), graph.Must(b.Port(pb))))
	}
	link(r.R0, r.R0, "input", "output")
	link(r.R1, r.R1, "input", "output")
	link(r.Ltd0, r.Ltd1, "input", "output")
	link(r.Ltd1, r.Ltd0, "input", "output")
	for i := 0; i < 1<<(levels+1); i++ {
		link(r.Ltd0, r.R0, "optional", "optional")
		link(r.Ltd1, r.R1, "optional", "optional")
	}

	r.R0.SetPartition(domain.OnRank(0))
	r.R1.SetPartition(domain.OnRank(1))
	r.Ltd0.SetPartition(domain.OnRank(2))
	r.Ltd1.SetPartition(domain.OnRank(2))
	return r
}

// Assemblies counts the assemblies left in a graph.
func Assemblies(g *graph.DeviceGraph) int {
	n := 0
	for _, d := range g.Devices() {
		if d.IsAssembly() {
			n++
		}
	}
	return n
}
