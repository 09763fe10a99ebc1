package devicegraph

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/aretw0/devicegraph/internal/logging"
	"github.com/aretw0/devicegraph/pkg/adapters/memory"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/model"
	"github.com/aretw0/devicegraph/pkg/observability"
	"github.com/aretw0/devicegraph/pkg/ports"
)

// Compiler flattens device graphs for one or more ranks and writes their
// component models.
type Compiler struct {
	store          ports.ArtifactStore
	codec          model.Codec
	logger         *slog.Logger
	metrics        *observability.Metrics
	programOptions map[string]any
	stringify      bool

	mu       sync.Mutex
	compiled map[*graph.DeviceGraph]target
}

type target struct {
	rank, nranks int
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithStore sets where artifacts are written (default: in memory).
func WithStore(store ports.ArtifactStore) Option {
	return func(c *Compiler) {
		c.store = store
	}
}

// WithCodec sets the artifact format (default: model.JSON).
func WithCodec(codec model.Codec) Option {
	return func(c *Compiler) {
		c.codec = codec
	}
}

// WithLogger sets a custom structured logger for the compiler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMetrics refreshes the graph gauges of m after every compilation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// WithProgramOptions sets the program options copied into every model.
func WithProgramOptions(opts map[string]any) Option {
	return func(c *Compiler) {
		c.programOptions = maps.Clone(opts)
	}
}

// WithStringify controls whether parameters are written as strings, the
// form simulators read from JSON. It is on by default.
func WithStringify(stringify bool) Option {
	return func(c *Compiler) {
		c.stringify = stringify
	}
}

// NewCompiler creates a compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		codec:     model.JSON,
		stringify: true,
		compiled:  make(map[*graph.DeviceGraph]target),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = memory.NewStore()
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c
}

// Store returns the artifact store the compiler writes to.
func (c *Compiler) Store() ports.ArtifactStore { return c.store }

// Compile prepares g for rank out of nranks. A single rank flattens and
// verifies the whole graph. Several ranks require every device to carry a
// partition; only the assemblies on rank are flattened, then links are
// followed off rank and everything the rank cannot see is pruned.
//
// A graph is compiled once: compiling it again for the same target is a
// no-op, and for another target an error, as the graph no longer holds
// what other ranks need.
func (c *Compiler) Compile(ctx context.Context, g *graph.DeviceGraph, rank, nranks int) error {
	if nranks < 1 {
		return fmt.Errorf("nranks must be at least 1, got %d", nranks)
	}
	if rank < 0 || rank >= nranks {
		return fmt.Errorf("rank %d out of range for %d ranks", rank, nranks)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	want := target{rank: rank, nranks: nranks}
	if got, ok := c.compiled[g]; ok {
		if got != want {
			return fmt.Errorf("graph already compiled for rank %d of %d", got.rank, got.nranks)
		}
		return nil
	}

	c.logger.Debug("compiling graph", "rank", rank, "nranks", nranks, "devices", g.Len())
	if nranks == 1 {
		if err := g.Flatten(); err != nil {
			return err
		}
		if err := g.VerifyLinks(); err != nil {
			return err
		}
	} else {
		if err := g.CheckPartition(); err != nil {
			return err
		}
		if err := g.Flatten(graph.OnRank(rank)); err != nil {
			return err
		}
		if err := g.VerifyLinks(); err != nil {
			return err
		}
		if err := g.FollowLinks(rank, true); err != nil {
			return err
		}
	}
	c.compiled[g] = want

	if c.metrics != nil {
		c.metrics.Observe(g)
	}
	c.logger.Info("compiled graph", "rank", rank, "nranks", nranks, "devices", g.Len(), "links", g.LinkCount())
	return nil
}

// Model compiles g and builds its component model.
func (c *Compiler) Model(ctx context.Context, g *graph.DeviceGraph, name string, rank, nranks int) (*model.Model, error) {
	if err := c.Compile(ctx, g, rank, nranks); err != nil {
		return nil, err
	}
	return model.Build(g, model.Options{
		Name:           ArtifactName(name, rank, nranks),
		ProgramOptions: c.programOptions,
		NRanks:         nranks,
		Stringify:      c.stringify,
	})
}

// Write compiles g, encodes its model and saves it to the store. It returns
// the artifact name: name for a single rank, name followed by the rank
// otherwise.
func (c *Compiler) Write(ctx context.Context, g *graph.DeviceGraph, name string, rank, nranks int) (string, error) {
	m, err := c.Model(ctx, g, name, rank, nranks)
	if err != nil {
		return "", err
	}
	data, err := c.codec.Encode(m)
	if err != nil {
		return "", err
	}
	artifact := ArtifactName(name, rank, nranks)
	if err := c.store.Save(ctx, artifact, data); err != nil {
		return "", fmt.Errorf("failed to save artifact %s: %w", artifact, err)
	}
	c.logger.Info("wrote artifact", "name", artifact, "format", c.codec.Name(), "bytes", len(data))
	return artifact, nil
}

// ArtifactName is the name a rank's artifact is stored under.
func ArtifactName(name string, rank, nranks int) string {
	if nranks <= 1 {
		return name
	}
	return name + strconv.Itoa(rank)
}
