// Package lattice describes the accelerator model consumed by the tracking
// and orbit-finding packages: contiguous element index ranges (segments),
// lattice elements with their linear maps, named read-only and read-write
// channels, and a reference in-memory model implementation (Design).
package lattice
