package inspect_test

import (
	"testing"

	"github.com/aretw0/devicegraph/internal/testutils"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Devices(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	v := inspect.New(r.Graph, "rings")

	devices := v.Devices()
	require.Len(t, devices, 4)
	for i := 1; i < len(devices); i++ {
		assert.Less(t, devices[i-1].Name, devices[i].Name)
	}
	for _, d := range devices {
		assert.Nil(t, d.Attrs)
	}

	d, ok := v.Device(r.Ltd0.Name())
	require.True(t, ok)
	require.NotNil(t, d.Partition)
	assert.Equal(t, 2, d.Partition.Rank)
	assert.Contains(t, d.Ports, "optional.p0")
	assert.NotNil(t, d.Attrs)

	_, ok = v.Device("missing")
	assert.False(t, ok)
}

func TestView_SummaryAndSwap(t *testing.T) {
	r := testutils.RingGraph(t, 0)
	v := inspect.New(r.Graph, "rings")

	s := v.Summary()
	assert.Equal(t, "rings", s.Name)
	assert.Equal(t, 4, s.Devices)
	assert.Equal(t, 8, s.Links)
	assert.Equal(t, 2, s.Assemblies)
	assert.Len(t, v.Links(), 8)

	v.Swap(graph.New())
	assert.Zero(t, v.Summary().Devices)
	assert.Empty(t, v.Links())
	assert.Contains(t, v.DOT(false), `graph "rings" {`)
	assert.Contains(t, v.Mermaid(), "graph LR")
}
