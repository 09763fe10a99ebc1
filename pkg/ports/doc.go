/*
Package ports defines the driven ports (interfaces) of the device graph compiler.

These interfaces decouple compilation from the places its output ends up,
allowing the compiler to write per-rank artifacts to memory, a directory or
a shared Redis instance.

# Key Interfaces

  - ArtifactStore: persists and loads compiled component models by name.
*/
package ports
