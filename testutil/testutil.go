package testutil

import (
	"fmt"

	"github.com/accelwork/orbit/lattice"
)

// DriftLine builds a design of n drifts of the given length each.
func DriftLine(n int, length float64) *lattice.Design {
	d := lattice.NewDesign("driftline")
	for i := 0; i < n; i++ {
		d.Append(lattice.Drift(fmt.Sprintf("D%d", i+1), length))
	}
	return d
}

// MarkerLine builds a design of n zero-length markers; its transfer map is
// the identity.
func MarkerLine(n int) *lattice.Design {
	d := lattice.NewDesign("markerline")
	for i := 0; i < n; i++ {
		d.Append(lattice.Marker(fmt.Sprintf("M%d", i+1)))
	}
	return d
}

// FODOCell appends one FODO cell (focusing quad, drift, defocusing quad,
// drift) to the design, with a monitor and both correctors at the cell
// entrance.
func FODOCell(d *lattice.Design, idx int, k1 float64) {
	d.Append(
		lattice.Monitor(fmt.Sprintf("M%d", idx)),
		lattice.HCorrector(fmt.Sprintf("HC%d", idx)),
		lattice.VCorrector(fmt.Sprintf("VC%d", idx)),
		lattice.Quadrupole(fmt.Sprintf("QF%d", idx), 0.2, k1),
		lattice.Drift(fmt.Sprintf("DA%d", idx), 1.0),
		lattice.Quadrupole(fmt.Sprintf("QD%d", idx), 0.2, -k1),
		lattice.Drift(fmt.Sprintf("DB%d", idx), 1.0),
	)
}

// FODORing builds a ring of cells FODO cells with instrumentation. The
// quad strength keeps the one-turn map well away from the identity, so the
// fixed-point equation is non-singular in the transverse planes.
func FODORing(cells int) *lattice.Design {
	d := lattice.NewDesign("fodoring")
	for i := 0; i < cells; i++ {
		FODOCell(d, i+1, 1.2)
	}
	return d
}

// DispersiveRing builds a FODO ring with one sector bend per cell, so the
// closed orbit depends on the momentum offset.
func DispersiveRing(cells int) *lattice.Design {
	d := lattice.NewDesign("dispersivering")
	for i := 0; i < cells; i++ {
		FODOCell(d, i+1, 1.2)
		d.Append(lattice.SectorBend(fmt.Sprintf("B%d", i+1), 0.5, 0.1))
	}
	return d
}
