package graph

import "github.com/aretw0/devicegraph/pkg/domain"

// ExpandEvent describes one assembly that was replaced by its interior.
type ExpandEvent struct {
	Device   string
	Type     string
	Category string
	// Added is the number of devices the expansion created.
	Added int
	// Spliced is the number of boundary links moved onto interior ports.
	Spliced int
	// Dropped is the number of interior links to boundary ports that had
	// no external partner.
	Dropped int
}

// PruneEvent describes one pruning pass.
type PruneEvent struct {
	Rank    int
	Devices int
	Links   int
}

// LinkEvent describes a link being recorded.
type LinkEvent struct {
	A, B    string
	Latency domain.Latency
}

// Hooks are optional callbacks fired by graph transformations. They run
// synchronously and must not mutate the graph.
type Hooks struct {
	OnExpand func(ExpandEvent)
	OnPrune  func(PruneEvent)
	OnLink   func(LinkEvent)
}
