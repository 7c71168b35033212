// Package tracker defines the particle tracking engine consumed by the
// orbit-finding and beam-management layers, the physical-effect processes
// that can be registered on an engine, and LinearEngine, a reference engine
// that transports bunches through the first-order maps of a lattice model.
package tracker
