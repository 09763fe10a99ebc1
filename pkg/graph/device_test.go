package graph_test

import (
	"testing"

	"github.com/aretw0/devicegraph/internal/testutils"
	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/dsl"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_Library(t *testing.T) {
	d := graph.Must(testutils.LibraryKind.New("ltd"))
	assert.Equal(t, testutils.Library, d.Library())
	assert.False(t, d.IsAssembly())
	assert.Equal(t, "LibraryTestDevice", d.Category())

	r := testutils.NewRing(0, "")
	assert.True(t, r.IsAssembly())
	assert.Equal(t, "RecursiveAssemblyTestDevice_0", r.Category())
}

func TestDevice_RequiresName(t *testing.T) {
	_, err := testutils.LibraryKind.New("")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestKind_AssemblyWithoutExpansion(t *testing.T) {
	_, err := graph.NewKind(graph.KindSpec{Type: "Hollow"})
	assert.ErrorIs(t, err, domain.ErrMissingExpansion)

	// A zero Kind bypasses NewKind; the device constructor still refuses it.
	_, err = graph.NewDevice(&graph.Kind{}, "hollow")
	assert.ErrorIs(t, err, domain.ErrMissingExpansion)
}

func TestDevice_Ports(t *testing.T) {
	ptd := graph.Must(testutils.PortKind.New("ptd"))

	t.Run("single port is cached", func(t *testing.T) {
		p0 := graph.Must(ptd.Port("default"))
		p1 := graph.Must(ptd.Port("default"))
		assert.Same(t, p0, p1)
		assert.Same(t, ptd, p0.Device())
		assert.Equal(t, "default", p0.Name())
		_, indexed := p0.Index()
		assert.False(t, indexed)
		assert.Equal(t, "ptd.default", p0.String())
	})

	t.Run("unknown port", func(t *testing.T) {
		_, err := ptd.Port("portNotDefined")
		assert.ErrorIs(t, err, domain.ErrUnknownPort)
	})

	t.Run("index on a single port", func(t *testing.T) {
		_, err := ptd.PortAt("default", 0)
		assert.ErrorIs(t, err, domain.ErrIndexedSinglePort)
	})

	t.Run("unbounded port", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			p, err := ptd.Port("no_limit")
			require.NoError(t, err)
			idx, ok := p.Index()
			require.True(t, ok)
			require.Equal(t, i, idx)
		}
		_, err := ptd.PortAt("no_limit", 3004823048)
		assert.NoError(t, err)
	})

	t.Run("bounded port", func(t *testing.T) {
		_, err := ptd.PortAt("limit", 2)
		assert.ErrorIs(t, err, domain.ErrCardinalityExceeded)

		_, err = ptd.PortAt("limit", 1)
		assert.NoError(t, err)
		_, err = ptd.Port("limit")
		assert.ErrorIs(t, err, domain.ErrCardinalityExceeded, "auto index after 1 is 2")
	})

	t.Run("explicit index is cached", func(t *testing.T) {
		assert.Same(t, graph.Must(ptd.PortAt("port", 3)), graph.Must(ptd.PortAt("port", 3)))
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "format(0)", graph.Must(ptd.PortAt("format", 0)).Label())
		assert.Equal(t, "no_limit.p7", graph.Must(ptd.PortAt("no_limit", 7)).Label())
		assert.Equal(t, "port", graph.Must(ptd.Port("port")).Name())
	})
}

func TestDevice_AutoIndexSkipsExplicit(t *testing.T) {
	d := graph.Must(testutils.PortKind.New("ptd"))
	graph.Must(d.PortAt("no_limit", 5))
	idx, _ := graph.Must(d.Port("no_limit")).Index()
	assert.Equal(t, 6, idx)
	graph.Must(d.PortAt("no_limit", 2))
	idx, _ = graph.Must(d.Port("no_limit")).Index()
	assert.Equal(t, 7, idx)
}

func TestDevice_ModelAndAttrs(t *testing.T) {
	mt := graph.Must(testutils.ModelKind.New("mt", graph.WithModel("model0")))
	assert.Equal(t, "model0", mt.Model())
	assert.Equal(t, "ModelTestDevice_model0", mt.Category())

	attrs := domain.A("a1", 1, "a2", "blue", "a3", false)
	at := graph.Must(testutils.LibraryKind.New("at", graph.WithAttrs(attrs)))
	assert.Equal(t, attrs.Map(), at.Attrs().Map())

	v, ok := at.Attr("a2")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "blue", s)
}

func TestDevice_AttrSchema(t *testing.T) {
	cpu := dsl.Primitive("Cpu", "test.Cpu").
		Attr("clock", "1GHz").
		AttrSchema("clock", schema.String()).
		AttrSchema("cores", schema.Int()).
		MustBuild()

	_, err := cpu.New("cpu")
	assert.Error(t, err, "cores is required")

	d, err := cpu.New("cpu", graph.WithAttrs(domain.A("cores", 4)))
	require.NoError(t, err)
	clock, _ := d.Attr("clock")
	assert.Equal(t, "1GHz", clock.String())
}

func TestDevice_Submodules(t *testing.T) {
	ltd0 := graph.Must(testutils.LibraryKind.New("ltd0"))
	ltd1 := graph.Must(testutils.LibraryKind.New("ltd1"))
	require.NoError(t, ltd0.AddSubmodule(ltd1, "slotName"))

	subs := ltd0.Submodules()
	require.Len(t, subs, 1)
	assert.Same(t, ltd1, subs[0].Device)
	assert.Equal(t, "slotName", subs[0].Slot)
	assert.False(t, subs[0].HasIndex)
	assert.Same(t, ltd0, ltd1.Owner())
	assert.Same(t, ltd0, ltd1.Root())

	err := ltd0.AddSubmodule(ltd1, "again")
	assert.Error(t, err, "a submodule has one owner")

	ring := testutils.NewRing(0, "")
	assert.ErrorIs(t, ltd0.AddSubmodule(ring, "slot"), domain.ErrSubmoduleLibrary)
	assert.ErrorIs(t, ring.AddSubmodule(graph.Must(testutils.LibraryKind.New("x")), "slot"), domain.ErrSubmoduleLibrary)
}

func TestDevice_SubmoduleAfterAdd(t *testing.T) {
	g := graph.New()
	owner := graph.Must(testutils.LibraryKind.New("owner"))
	require.NoError(t, g.Add(owner))

	err := owner.AddSubmodule(graph.Must(testutils.LibraryKind.New("late")), "slot")
	assert.ErrorIs(t, err, domain.ErrSubmoduleAfterAdd)
}

func TestDevice_EffectivePartition(t *testing.T) {
	owner := graph.Must(testutils.LibraryKind.New("owner"))
	sub := graph.Must(testutils.LibraryKind.New("sub"))
	require.NoError(t, owner.AddSubmoduleAt(sub, "slot", 0))

	_, ok := sub.EffectivePartition()
	assert.False(t, ok)

	sub.SetPartition(domain.OnRank(4))
	p, ok := sub.EffectivePartition()
	require.True(t, ok)
	assert.Equal(t, 4, p.Rank)

	owner.SetPartition(domain.OnThread(1, 2))
	p, ok = sub.EffectivePartition()
	require.True(t, ok)
	assert.Equal(t, 1, p.Rank, "the owner decides")
	assert.Equal(t, 2, p.ThreadOrZero())
}
