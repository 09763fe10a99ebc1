package model_test

import (
	"testing"

	"github.com/aretw0/devicegraph/internal/testutils"
	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/dsl"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cpuKind = dsl.Primitive("Cpu", "test.Cpu").
	Single("mem", "Memory").
	Attr("clock", "2GHz").
	MustBuild()

var memKind = dsl.Primitive("Memory", "test.Memory").
	Single("cpu", "Memory").
	MustBuild()

var cacheKind = dsl.Primitive("Cache", "test.Cache").MustBuild()

func buildGraph(t *testing.T) *graph.DeviceGraph {
	t.Helper()
	g := graph.New(graph.WithGlobalAttrs(domain.A("verbose", 1)))

	cpu := graph.Must(cpuKind.New("cpu", graph.WithModel("fast"), graph.WithPartition(domain.OnThread(0, 1)), graph.WithAttrs(domain.A(
		"layout", map[string]any{"rows": 2},
		"sizes", []int{32, 64},
		"note", nil,
	))))
	l1 := graph.Must(cacheKind.New("l1"))
	l2 := graph.Must(cacheKind.New("l2"))
	require.NoError(t, l1.AddSubmoduleAt(l2, "next", 0))
	require.NoError(t, cpu.AddSubmodule(l1, "cache"))

	mem := graph.Must(memKind.New("mem"))
	require.NoError(t, g.Link(graph.Must(cpu.Port("mem")), graph.Must(mem.Port("cpu"))))
	return g
}

func TestBuild(t *testing.T) {
	m, err := model.Build(buildGraph(t), model.Options{Name: "sys"})
	require.NoError(t, err)

	assert.Equal(t, model.ID("sys"), m.ID)
	assert.Empty(t, m.ProgramOptions)
	assert.Equal(t, map[string]any{"verbose": int64(1)}, m.GlobalParams["verbose"])

	require.Len(t, m.Components, 2, "submodules are nested, not top-level")
	cpu := m.Components[0]
	assert.Equal(t, "cpu", cpu.Name)
	assert.Equal(t, "test.Cpu", cpu.Type)
	assert.Equal(t, []string{"verbose"}, cpu.ParamsGlobalSets)
	assert.Equal(t, "Cpu", cpu.Params["type"])
	assert.Equal(t, "fast", cpu.Params["model"])
	assert.Equal(t, "2GHz", cpu.Params["clock"])
	assert.Equal(t, []any{int64(32), int64(64)}, cpu.Params["sizes"])
	assert.Equal(t, map[string]any{"rows": float64(2)}, cpu.Params["layout"], "trees go through JSON")
	assert.Nil(t, cpu.Params["note"])
	require.NotNil(t, cpu.Partition)
	assert.Equal(t, model.Partition{Rank: 0, Thread: 1}, *cpu.Partition)

	require.Len(t, cpu.Subcomponents, 1)
	l1 := cpu.Subcomponents[0]
	assert.Equal(t, "cache", l1.SlotName)
	assert.Nil(t, l1.SlotNumber)
	require.Len(t, l1.Subcomponents, 1)
	require.NotNil(t, l1.Subcomponents[0].SlotNumber)
	assert.Equal(t, 0, *l1.Subcomponents[0].SlotNumber)

	mem := m.Components[1]
	assert.Nil(t, mem.Partition)
	assert.Nil(t, mem.Params["model"])

	require.Len(t, m.Links, 1)
	link := m.Links[0]
	assert.Equal(t, "cpu.mem__0s__mem.cpu", link.Name)
	assert.Equal(t, model.Endpoint{Component: "cpu", Port: "mem", Latency: "1ps"}, link.Left)
	assert.Equal(t, model.Endpoint{Component: "mem", Port: "cpu", Latency: "1ps"}, link.Right)
}

func TestBuild_Stringify(t *testing.T) {
	m, err := model.Build(buildGraph(t), model.Options{Name: "sys", Stringify: true, NRanks: 2})
	require.NoError(t, err)

	assert.Equal(t, model.SelfPartitioner, m.ProgramOptions["partitioner"])
	assert.Equal(t, map[string]any{"verbose": "1"}, m.GlobalParams["verbose"])
	cpu := m.Components[0]
	assert.Equal(t, "[32,64]", cpu.Params["sizes"])
	assert.Equal(t, "", cpu.Params["note"])
}

func TestEncodeAttrs_Unencodable(t *testing.T) {
	attrs := domain.A("ok", 1)
	attrs.Set("handle", domain.Tree(map[string]any{"ch": make(chan int)}))

	_, err := model.EncodeAttrs(attrs, true)
	assert.ErrorIs(t, err, domain.ErrUnencodableAttr)
	assert.ErrorContains(t, err, "handle")
}

func TestBuild_RejectsUnencodableParams(t *testing.T) {
	g := graph.New()
	d := graph.Must(testutils.LibraryKind.New("ltd"))
	d.SetAttr("handle", domain.Tree(func() {}))
	require.NoError(t, g.Add(d))

	_, err := model.Build(g, model.Options{Name: "sys"})
	assert.ErrorIs(t, err, domain.ErrUnencodableAttr)
	assert.ErrorContains(t, err, "ltd")

	g = graph.New(graph.WithGlobalAttrs(domain.A("ok", 1)))
	g.SetAttr("bad", domain.Tree(make(chan int)))
	_, err = model.Build(g, model.Options{Name: "sys"})
	assert.ErrorIs(t, err, domain.ErrUnencodableAttr)
}

func TestBuild_RejectsLinkedAssemblies(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	_, err := model.Build(r.Graph, model.Options{})
	assert.ErrorIs(t, err, domain.ErrNoLibrary)

	require.NoError(t, r.Graph.Flatten())
	_, err = model.Build(r.Graph, model.Options{})
	assert.NoError(t, err)
}

func TestID_Deterministic(t *testing.T) {
	assert.Equal(t, model.ID("sys0"), model.ID("sys0"))
	assert.NotEqual(t, model.ID("sys0"), model.ID("sys1"))
}

func TestCodecs(t *testing.T) {
	m, err := model.Build(buildGraph(t), model.Options{Name: "sys", ProgramOptions: map[string]any{"stop-at": "1us"}})
	require.NoError(t, err)

	for _, name := range []string{"json", "cbor"} {
		t.Run(name, func(t *testing.T) {
			codec, err := model.CodecFor(name)
			require.NoError(t, err)
			assert.Equal(t, name, codec.Name())

			data, err := codec.Encode(m)
			require.NoError(t, err)
			got, err := codec.Decode(data)
			require.NoError(t, err)

			assert.Equal(t, m.ID, got.ID)
			assert.Equal(t, "1us", got.ProgramOptions["stop-at"])
			assert.Equal(t, m.Links, got.Links)
			require.Len(t, got.Components, 2)
			assert.Equal(t, "cpu", got.Components[0].Name)
			assert.Equal(t, "2GHz", got.Components[0].Params["clock"])
			assert.Equal(t, m.Components[0].Partition, got.Components[0].Partition)
			assert.Equal(t, 0, *got.Components[0].Subcomponents[0].Subcomponents[0].SlotNumber)
		})
	}

	_, err = model.CodecFor("xml")
	assert.Error(t, err)
}
