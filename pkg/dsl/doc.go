/*
Package dsl provides a Go DSL (Domain Specific Language) for declaring device kinds.

It lets developers define primitives and assemblies with a fluent builder
instead of filling graph.KindSpec literals by hand. Ports are declared in
order and are required unless marked Optional.

Example usage:

	package main

	import (
		"github.com/aretw0/devicegraph/pkg/dsl"
		"github.com/aretw0/devicegraph/pkg/graph"
	)

	var nic = dsl.Primitive("Nic", "merlin.linkcontrol").
		Single("rtr", "Router").
		Single("cpu", "Cpu").Optional().
		MustBuild()

	var node = dsl.Assembly("Node", func(self *graph.Device, x *graph.Expansion) error {
		n, err := nic.New("nic")
		if err != nil {
			return err
		}
		return x.Link(graph.Must(self.Port("net")), graph.Must(n.Port("rtr")))
	}).
		Single("net", "Router").
		MustBuild()

A Builder collects several kinds and compiles them into a registry.Registry,
which architecture files resolve device types against.
*/
package dsl
