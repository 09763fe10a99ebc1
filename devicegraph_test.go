package devicegraph_test

import (
	"context"
	"testing"

	"github.com/aretw0/devicegraph"
	"github.com/aretw0/devicegraph/internal/testutils"
	"github.com/aretw0/devicegraph/pkg/adapters/memory"
	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/model"
	"github.com/aretw0/devicegraph/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, store *memory.Store, name string, codec model.Codec) *model.Model {
	t.Helper()
	data, err := store.Load(context.Background(), name)
	require.NoError(t, err)
	m, err := codec.Decode(data)
	require.NoError(t, err)
	return m
}

func TestCompiler_SingleRank(t *testing.T) {
	store := memory.NewStore()
	c := devicegraph.NewCompiler(
		devicegraph.WithStore(store),
		devicegraph.WithProgramOptions(map[string]any{"stop-at": "1us"}),
	)
	r := testutils.RingGraph(t, 1)

	name, err := c.Write(context.Background(), r.Graph, "rings", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "rings", name)

	m := load(t, store, "rings", model.JSON)
	assert.Equal(t, model.ID("rings"), m.ID)
	assert.Equal(t, "1us", m.ProgramOptions["stop-at"])
	assert.NotContains(t, m.ProgramOptions, "partitioner")
	assert.Len(t, m.Components, 10)
	assert.Len(t, m.Links, 18)
	assert.Equal(t, "", m.Components[0].Params["model"], "parameters are stringified by default")
}

func TestCompiler_MultiRank(t *testing.T) {
	store := memory.NewStore()
	c := devicegraph.NewCompiler(devicegraph.WithStore(store))
	r := testutils.RingGraph(t, 1)

	name, err := c.Write(context.Background(), r.Graph, "rings", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "rings0", name)

	m := load(t, store, "rings0", model.JSON)
	assert.Equal(t, model.SelfPartitioner, m.ProgramOptions["partitioner"])
	assert.Len(t, m.Components, 5, "rank 0 keeps its ring and the leaf tapping it")
	assert.Len(t, m.Links, 8)
	for _, comp := range m.Components {
		require.NotNil(t, comp.Partition, comp.Name)
	}

	_, ok := r.Graph.Device(r.R1.Name())
	assert.False(t, ok, "the other rank's ring is pruned")
}

func TestCompiler_CompilesOnce(t *testing.T) {
	c := devicegraph.NewCompiler()
	r := testutils.RingGraph(t, 0)
	ctx := context.Background()

	require.NoError(t, c.Compile(ctx, r.Graph, 1, 3))
	n := r.Graph.Len()
	require.NoError(t, c.Compile(ctx, r.Graph, 1, 3))
	assert.Equal(t, n, r.Graph.Len())

	err := c.Compile(ctx, r.Graph, 0, 3)
	assert.ErrorContains(t, err, "already compiled for rank 1 of 3")
}

func TestCompiler_Errors(t *testing.T) {
	ctx := context.Background()
	c := devicegraph.NewCompiler()

	assert.Error(t, c.Compile(ctx, graph.New(), 0, 0))
	assert.Error(t, c.Compile(ctx, graph.New(), 2, 2))
	assert.Error(t, c.Compile(ctx, graph.New(), -1, 2))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.Compile(canceled, graph.New(), 0, 1), context.Canceled)

	g := graph.New()
	require.NoError(t, g.Add(graph.Must(testutils.LibraryKind.New("lone"))))
	assert.ErrorIs(t, c.Compile(ctx, g, 0, 2), domain.ErrMissingPartition)

	unlinked := graph.New()
	require.NoError(t, unlinked.Add(graph.Must(testutils.LibraryPortKind.New("dangling"))))
	assert.ErrorIs(t, c.Compile(ctx, unlinked, 0, 1), domain.ErrMissingRequiredPort)
}

func TestCompiler_CBOR(t *testing.T) {
	store := memory.NewStore()
	c := devicegraph.NewCompiler(
		devicegraph.WithStore(store),
		devicegraph.WithCodec(model.CBOR),
		devicegraph.WithStringify(false),
	)
	r := testutils.RingGraph(t, 0)

	_, err := c.Write(context.Background(), r.Graph, "rings", 0, 1)
	require.NoError(t, err)

	m := load(t, store, "rings", model.CBOR)
	assert.Len(t, m.Components, 6)
	for _, comp := range m.Components {
		if comp.Params["type"] == testutils.LibraryPortKind.Type() {
			assert.Nil(t, comp.Params["model"])
		}
	}
}

func TestCompiler_Metrics(t *testing.T) {
	m, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	c := devicegraph.NewCompiler(devicegraph.WithMetrics(m))

	r := testutils.RingGraph(t, 0)
	require.NoError(t, c.Compile(context.Background(), r.Graph, 0, 1))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.DevicesGauge("primitive")))
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "sys", devicegraph.ArtifactName("sys", 0, 1))
	assert.Equal(t, "sys3", devicegraph.ArtifactName("sys", 3, 4))
}
