/*
Package graph implements the hierarchical device graph.

A DeviceGraph holds named Devices whose ports are joined by undirected
links. A device is either a primitive, bound to a backend library, or an
assembly, which an expansion procedure replaces with interior devices.
Flatten expands assemblies in passes; when an assembly goes away its
boundary links are spliced onto the interior ports its procedure linked to
the boundary, so the rest of the graph never sees the assembly's border.

For parallel runs every device carries a partition. FollowLinks expands
only what a rank can reach through its links and Prune drops what it cannot,
so each rank materializes its own slice of the graph.

The package requires no locking: a graph is built and transformed by a
single goroutine.
*/
package graph
