// Package phasespace provides the particle-level value types shared by the
// tracking and orbit-finding packages: the six-dimensional phase-space
// vector, the particle bunch, and a small dense matrix for linear transfer
// maps.
package phasespace
