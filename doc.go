/*
Package devicegraph compiles hierarchical hardware architectures into
component models a parallel simulator can load.

An architecture is a graph of devices joined by typed port links. Devices
are either primitives, bound to a backend component library, or assemblies,
which expand into a subgraph of further devices. Compilation flattens every
assembly, verifies that all required ports are linked and, for a
distributed run, keeps only the part of the graph a given rank needs.

# Concept

The pkg/graph package holds the device graph and its transformations. The
Compiler drives them in the order a simulation backend expects and writes
the resulting model through a ports.ArtifactStore, so the same graph can be
compiled to a directory, to memory or to a shared Redis instance.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/devicegraph"
		"github.com/aretw0/devicegraph/pkg/adapters/file"
		"github.com/aretw0/devicegraph/pkg/loader"
	)

	func main() {
		g, err := loader.LoadFile("arch.yaml")
		if err != nil {
			log.Fatal(err)
		}

		c := devicegraph.NewCompiler(devicegraph.WithStore(file.New("output")))
		// Writes output/arch.json
		if _, err := c.Write(context.Background(), g, "arch", 0, 1); err != nil {
			log.Fatal(err)
		}
	}

For multi-rank runs every rank compiles the same architecture with its own
rank number and gets its own artifact, named after the architecture plus
the rank.
*/
package devicegraph
