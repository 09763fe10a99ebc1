package graph_test

import (
	"testing"

	"github.com/aretw0/devicegraph/internal/testutils"
	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/aretw0/devicegraph/pkg/dsl"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onRank(name string, rank int) *graph.Device {
	return graph.Must(leafKind.New(name, graph.WithPartition(domain.OnRank(rank))))
}

func TestFollowLinks_Rings(t *testing.T) {
	const levels = 2
	r := testutils.RingGraph(t, levels)

	require.NoError(t, r.Graph.FollowLinks(0, false))

	var assemblies []string
	for _, d := range r.Graph.Devices() {
		if d.IsAssembly() {
			assemblies = append(assemblies, d.Name())
		}
	}
	assert.Equal(t, []string{"RecursiveAssemblyTestDevice21"}, assemblies)
}

func TestFollowLinks_RingsPruned(t *testing.T) {
	const levels = 2
	r := testutils.RingGraph(t, levels)

	require.NoError(t, r.Graph.FollowLinks(0, true))

	leaves := 1 << (levels + 1)
	assert.Zero(t, testutils.Assemblies(r.Graph))
	assert.Equal(t, leaves+1, r.Graph.Len(), "rank 0 leaves plus the tap on rank 2")
	assert.Equal(t, 2*leaves, r.Graph.LinkCount())
	_, ok := r.Graph.Device(r.Ltd1.Name())
	assert.False(t, ok)
}

func TestFollowLinks_RequiresPartitions(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add(newLeaf("unplaced")))
	assert.ErrorIs(t, g.FollowLinks(0, false), domain.ErrMissingPartition)
}

// splitKind links its boundary port to one interior leaf and builds an
// unrelated pair of leaves next to it.
var splitKind = dsl.Assembly("Split", func(self *graph.Device, x *graph.Expansion) error {
	if err := x.Link(port(self, "p"), port(newLeaf("l1"), "in")); err != nil {
		return err
	}
	return x.Link(port(newLeaf("l2"), "out"), port(newLeaf("l3"), "in"))
}).Single("p", "t").MustBuild()

func TestFollowLinks_PrunesExpansion(t *testing.T) {
	build := func() *graph.DeviceGraph {
		g := graph.New()
		a := onRank("a", 0)
		s := graph.Must(splitKind.New("s", graph.WithPartition(domain.OnRank(1))))
		require.NoError(t, g.Link(port(a, "out"), port(s, "p")))
		return g
	}

	g := build()
	require.NoError(t, g.FollowLinks(0, false))
	assert.Equal(t, []string{"a", "s.l1", "s.l2", "s.l3"}, names(g))

	g = build()
	require.NoError(t, g.FollowLinks(0, true))
	assert.Equal(t, []string{"a", "s.l1"}, names(g))
	assert.Equal(t, 1, g.LinkCount())
}

func TestFollowLinks_LeavesRemoteAssemblies(t *testing.T) {
	g := graph.New()
	a := onRank("a", 0)
	s := graph.Must(splitKind.New("s", graph.WithPartition(domain.OnRank(1))))
	far := graph.Must(splitKind.New("far", graph.WithPartition(domain.OnRank(1))))
	b := onRank("b", 1)
	require.NoError(t, g.Link(port(a, "out"), port(s, "p")))
	require.NoError(t, g.Link(port(b, "out"), port(far, "p")))

	require.NoError(t, g.FollowLinks(0, false))
	_, ok := g.Device("far")
	assert.True(t, ok, "nothing on rank 0 reaches far")
	_, ok = g.Device("s")
	assert.False(t, ok)
}

func TestPrune(t *testing.T) {
	var events []graph.PruneEvent
	g := graph.New(graph.WithHooks(graph.Hooks{
		OnPrune: func(e graph.PruneEvent) { events = append(events, e) },
	}))

	a := onRank("a", 0)
	b := onRank("b", 1)
	c := onRank("c", 1)
	d := onRank("d", 1)
	lone := onRank("lone", 0)
	owner := onRank("owner", 1)
	sub := newLeaf("sub")
	require.NoError(t, owner.AddSubmodule(sub, "slot"))

	require.NoError(t, g.Link(port(a, "in"), port(b, "out")))
	require.NoError(t, g.Link(port(b, "in"), port(c, "out")))
	require.NoError(t, g.Link(port(a, "out"), port(sub, "in")))
	require.NoError(t, g.Add(d))
	require.NoError(t, g.Add(lone))
	bIn := port(b, "in")

	require.NoError(t, g.Prune(0))

	assert.Equal(t, []string{"a", "b", "lone", "owner", "sub"}, names(g))
	assert.Equal(t, 2, g.LinkCount())
	assert.Nil(t, bIn.Link(), "links off the rank are cleared on both ends")

	require.Len(t, events, 1)
	assert.Equal(t, graph.PruneEvent{Rank: 0, Devices: 2, Links: 1}, events[0])
}

func TestPrune_RequiresPartitions(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.Add(newLeaf("unplaced")))
	assert.ErrorIs(t, g.Prune(0), domain.ErrMissingPartition)
}

func TestFollowLinks_SubsetOfFlatten(t *testing.T) {
	const levels = 2
	full := testutils.RingGraph(t, levels)
	require.NoError(t, full.Graph.Flatten())
	allDevices := names(full.Graph)
	allLinks := linkSet(full.Graph)

	for rank := 0; rank <= 2; rank++ {
		r := testutils.RingGraph(t, levels)
		require.NoError(t, r.Graph.FollowLinks(rank, true))

		assert.Subset(t, allDevices, names(r.Graph), "rank %d devices", rank)
		assert.Subset(t, allLinks, linkSet(r.Graph), "rank %d links", rank)
		for _, l := range r.Graph.Links() {
			assert.False(t, l.A.Device().IsAssembly(), "rank %d: %s", rank, l.A)
			assert.False(t, l.B.Device().IsAssembly(), "rank %d: %s", rank, l.B)
		}
	}
}
