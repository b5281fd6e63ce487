/*
Package ports defines the driven ports (interfaces) of flowc.

These interfaces decouple graph editing and code generation from storage,
build tooling and multi-instance coordination.

# Key Interfaces

  - ProgramStore: persists programs (memory, file, redis adapters).
  - ArtifactSink: receives generated source and breakpoint files.
  - Builder: runs the external compiler over written source.
  - DistributedLocker: single-writer discipline across replicas.
*/
package ports
