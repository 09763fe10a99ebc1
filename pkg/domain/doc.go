/*
Package domain contains the value types shared by every layer of devicegraph.

It is kept pure and free of I/O: the port schema of a device kind, partition
assignments, latency tokens, the tagged attribute values and the sentinel
errors raised by the graph engine all live here.

# Key Types

  - PortInfo: the immutable port schema of a device kind (name, cardinality, type tag,
    required flag, index format).
  - Partition: the (rank, thread) a device is assigned to in a distributed build.
  - Latency: an opaque per-link timing token; it is only interpreted when two
    latencies are summed while splicing an assembly boundary.
  - Value / Attrs: the ordered, heterogeneous attribute bag of a device.
*/
package domain
