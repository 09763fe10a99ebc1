package domain

import "errors"

// Structural errors raised while describing or compiling a device graph.
// Call sites wrap them with the offending device and port so that
// errors.Is keeps working on the returned error.
var (
	// ErrDuplicateName is returned when a different device with the same name
	// is already registered in the graph.
	ErrDuplicateName = errors.New("duplicate device name")

	// ErrUnknownPort is returned when a port name is not declared in the
	// device's port schema.
	ErrUnknownPort = errors.New("unknown port")

	// ErrCardinalityExceeded is returned when an index reaches the limit of a
	// bounded port.
	ErrCardinalityExceeded = errors.New("port cardinality exceeded")

	// ErrIndexedSinglePort is returned when an index is given for a single port.
	ErrIndexedSinglePort = errors.New("single port does not take an index")

	// ErrPortTypeMismatch is returned when two ports with different type tags
	// are linked.
	ErrPortTypeMismatch = errors.New("port type mismatch")

	// ErrPortAlreadyLinked is returned when either end of a link is already linked.
	ErrPortAlreadyLinked = errors.New("port already linked")

	// ErrMissingRequiredPort is returned by link verification when a required
	// port has no link.
	ErrMissingRequiredPort = errors.New("missing required port")

	// ErrMissingPartition is returned when a distributed operation finds a
	// device without a partition.
	ErrMissingPartition = errors.New("missing partition")

	// ErrUnexpandedPort signals a bug in an expansion procedure: a boundary
	// link of the expanded assembly was left in place.
	ErrUnexpandedPort = errors.New("unexpanded port")

	// ErrMissingExpansion is returned when a composite kind (no library) has
	// no expansion procedure.
	ErrMissingExpansion = errors.New("assembly must define an expansion")

	// ErrSubmoduleLibrary is returned when a submodule or its owner has no library.
	ErrSubmoduleLibrary = errors.New("submodule and owner must have libraries")

	// ErrSubmoduleAfterAdd is returned when a submodule is attached to a device
	// that is already registered in a graph.
	ErrSubmoduleAfterAdd = errors.New("submodule added after owner was added to a graph")

	// ErrExpansionActive is returned when a flatten is requested from inside
	// an expansion procedure.
	ErrExpansionActive = errors.New("expansion already in progress")

	// ErrInvalidLatency is returned when two latencies must be summed and one
	// of them is not a time quantity.
	ErrInvalidLatency = errors.New("invalid latency")

	// ErrNoLibrary is returned when a model is built from a graph that still
	// holds assemblies.
	ErrNoLibrary = errors.New("device has no backend library")

	// ErrArtifactNotFound is returned when a compiled artifact does not exist.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidKind is returned when a device kind definition is malformed.
	ErrInvalidKind = errors.New("invalid device kind")

	// ErrUnencodableAttr is returned when an attribute value has no
	// backend parameter encoding.
	ErrUnencodableAttr = errors.New("attribute cannot be encoded")
)
