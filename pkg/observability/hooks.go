package observability

import (
	"log/slog"

	"github.com/aretw0/devicegraph/pkg/graph"
)

// LogHooks returns hooks that write each transformation to logger at debug level.
func LogHooks(logger *slog.Logger) graph.Hooks {
	return graph.Hooks{
		OnExpand: func(e graph.ExpandEvent) {
			logger.Debug("expand",
				"device", e.Device,
				"type", e.Type,
				"added", e.Added,
				"spliced", e.Spliced,
				"dropped", e.Dropped,
			)
		},
		OnPrune: func(e graph.PruneEvent) {
			logger.Debug("prune", "rank", e.Rank, "devices", e.Devices, "links", e.Links)
		},
	}
}

// Chain combines hook sets; each callback runs in the order given.
func Chain(hooks ...graph.Hooks) graph.Hooks {
	var out graph.Hooks
	for _, h := range hooks {
		out.OnExpand = chain(out.OnExpand, h.OnExpand)
		out.OnPrune = chain(out.OnPrune, h.OnPrune)
		out.OnLink = chain(out.OnLink, h.OnLink)
	}
	return out
}

func chain[E any](first, next func(E)) func(E) {
	switch {
	case first == nil:
		return next
	case next == nil:
		return first
	}
	return func(e E) {
		first(e)
		next(e)
	}
}
