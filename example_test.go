package orbit_test

import (
	"fmt"
	"log"

	orbit "github.com/accelwork/orbit"
	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
	"github.com/accelwork/orbit/tracker"
)

func Example() {
	design := lattice.NewDesign("demo",
		lattice.Monitor("BPM1"),
		lattice.HCorrector("XC1"),
		lattice.Drift("D1", 1.0),
		lattice.Monitor("BPM2"),
		lattice.Drift("D2", 1.0),
	)

	acc, err := orbit.New("demo", design, orbit.BeamData{P0: 1.0, Charge: 1.0})
	if err != nil {
		log.Fatal(err)
	}
	acc.SetEngine(tracker.NewLinearEngine())

	full, err := acc.BeamlineRange()
	if err != nil {
		log.Fatal(err)
	}
	if err := acc.SetActiveSegment(full); err != nil {
		log.Fatal(err)
	}

	// Steer the beam with the horizontal corrector.
	correctors, err := acc.CorrectorChannels(orbit.PlaneX)
	if err != nil {
		log.Fatal(err)
	}
	correctors.WriteAll([]float64{1e-3})

	bunch, err := acc.TrackNewBunchThroughModel()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("x at exit: %.4f m\n", bunch.First()[phasespace.X])

	// The downstream monitor saw the deflected beam pass.
	monitors, err := acc.MonitorChannels(orbit.PlaneX)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s reading: %.4f m\n", monitors[1].ID(), monitors[1].Read())
	// Output:
	// x at exit: 0.0020 m
	// BPM.BPM2.X reading: 0.0010 m
}
