package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/devicegraph"
	"github.com/aretw0/devicegraph/internal/presentation/diagram"
	"github.com/aretw0/devicegraph/internal/presentation/tui"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/observability"
)

// DiagramOptions configure the graph command.
type DiagramOptions struct {
	Options
	// Format is "dot" or "mermaid".
	Format string
	// Ports draws DOT nodes as port records.
	Ports bool
	// Flatten compiles the graph before drawing it.
	Flatten bool
}

// Report is the outcome of a validation.
type Report struct {
	Rank    int
	Devices int
	Links   int
}

// loadCompiled builds the graph and, when flatten is set, compiles it for
// rank. A negative rank with several ranks only checks the partition.
func loadCompiled(ctx context.Context, project *Project, opts Options, flatten bool, logger *slog.Logger, gopts ...graph.Option) (*graph.DeviceGraph, error) {
	g, err := project.Graph(append([]graph.Option{graph.WithLogger(logger)}, gopts...)...)
	if err != nil {
		return nil, err
	}
	if !flatten {
		return g, nil
	}
	nranks, rank := opts.Ranks, opts.Rank
	if nranks < 1 {
		nranks = 1
	}
	if rank < 0 {
		if nranks > 1 {
			if err := g.CheckPartition(); err != nil {
				return nil, err
			}
		}
		nranks, rank = 1, 0
	}
	c := devicegraph.NewCompiler(devicegraph.WithLogger(logger))
	if err := c.Compile(ctx, g, rank, nranks); err != nil {
		return nil, err
	}
	return g, nil
}

// Diagram writes the graph as DOT or Mermaid to w.
func Diagram(ctx context.Context, opts DiagramOptions, w io.Writer, logger *slog.Logger) error {
	project, err := Open(opts.Options)
	if err != nil {
		return err
	}
	g, err := loadCompiled(ctx, project, opts.Options, opts.Flatten, logger)
	if err != nil {
		return err
	}

	var out string
	switch opts.Format {
	case "", "dot":
		out = diagram.DOT(g, project.Name, diagram.Options{Ports: opts.Ports})
	case "mermaid":
		out = diagram.Mermaid(g)
	default:
		return fmt.Errorf("unknown diagram format %q", opts.Format)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Validate flattens and verifies the graph for each selected rank.
func Validate(ctx context.Context, opts Options, logger *slog.Logger) ([]Report, error) {
	ranks, err := ranksOf(opts.Rank, opts.Ranks)
	if err != nil {
		return nil, err
	}
	project, err := Open(opts)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(ranks))
	for _, rank := range ranks {
		ropts := opts
		ropts.Rank = rank
		g, err := loadCompiled(ctx, project, ropts, true, logger)
		if err != nil {
			if opts.Ranks > 1 {
				return reports, fmt.Errorf("rank %d: %w", rank, err)
			}
			return reports, err
		}
		reports = append(reports, Report{Rank: rank, Devices: g.Len(), Links: g.LinkCount()})
		g.Dealloc()
	}
	return reports, nil
}

// SummaryOptions configure the summary command.
type SummaryOptions struct {
	Options
	Flatten bool
	// Render formats the markdown for a terminal.
	Render bool
}

// Summary writes the category report of the graph to w.
func Summary(ctx context.Context, opts SummaryOptions, w io.Writer, logger *slog.Logger) error {
	project, err := Open(opts.Options)
	if err != nil {
		return err
	}
	g, err := loadCompiled(ctx, project, opts.Options, opts.Flatten, logger)
	if err != nil {
		return err
	}

	out := tui.Summary(g, project.Name)
	if opts.Render {
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		if out, err = render(out); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, out)
	return err
}

// metricsGraph builds the graph with metric and debug log hooks attached.
func metricsGraph(ctx context.Context, project *Project, opts Options, flatten bool, m *observability.Metrics, logger *slog.Logger) (*graph.DeviceGraph, error) {
	hooks := observability.Chain(m.Hooks(), observability.LogHooks(logger))
	g, err := loadCompiled(ctx, project, opts, flatten, logger, graph.WithHooks(hooks))
	if err != nil {
		return nil, err
	}
	m.Observe(g)
	return g, nil
}
