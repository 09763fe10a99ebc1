package registry_test

import (
	"sync"
	"testing"

	"github.com/aretw0/devicegraph/pkg/dsl"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := registry.NewRegistry()
	cpu := dsl.Primitive("Cpu", "cpu.Cpu").MustBuild()
	mem := dsl.Primitive("Mem", "mem.Mem").MustBuild()
	reg.Register(mem, cpu)

	assert.Equal(t, []string{"Cpu", "Mem"}, reg.Types())

	k, ok := reg.Lookup("Cpu")
	require.True(t, ok)
	assert.Same(t, cpu, k)

	d, err := reg.New("Mem", "m0", graph.WithModel("ddr4"))
	require.NoError(t, err)
	assert.Equal(t, "Mem_ddr4", d.Category())

	_, err = reg.New("Gpu", "g0")
	assert.ErrorContains(t, err, "kind not found")
}

func TestRegistry_Overwrite(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(dsl.Primitive("Cpu", "v1.Cpu").MustBuild())
	reg.Register(dsl.Primitive("Cpu", "v2.Cpu").MustBuild())

	k, ok := reg.Lookup("Cpu")
	require.True(t, ok)
	assert.Equal(t, "v2.Cpu", k.Library())
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := registry.NewRegistry()
	cpu := dsl.Primitive("Cpu", "cpu.Cpu").MustBuild()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Register(cpu)
			_, _ = reg.Lookup("Cpu")
			_ = reg.Types()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"Cpu"}, reg.Types())
}
