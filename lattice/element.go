package lattice

import (
	"math"

	"github.com/accelwork/orbit/phasespace"
)

// Element keywords.
const (
	KeywordDrift   = "DRIFT"
	KeywordQuad    = "QUAD"
	KeywordSBend   = "SBEND"
	KeywordMarker  = "MARKER"
	KeywordMonitor = "BPM"
	KeywordXCor    = "XCOR"
	KeywordYCor    = "YCOR"
)

// Corrector field attribute key.
const AttrField = "B0"

// Monitor reading attribute keys, written by the tracking engine as the
// reference particle passes the monitor.
const (
	AttrReadX = "X"
	AttrReadY = "Y"
)

// Element is one lattice component: a named, typed piece of beamline with a
// physical length and a first-order transfer map.
//
// The attribute map carries the mutable machine settings (corrector fields)
// and the latest monitor readings. Elements are not safe for concurrent use.
type Element struct {
	name       string
	keyword    string
	length     float64
	m          phasespace.Matrix
	bend       bool
	lossFactor float64
	attrs      map[string]float64
}

func newElement(name, keyword string, length float64, m phasespace.Matrix) *Element {
	return &Element{
		name:    name,
		keyword: keyword,
		length:  length,
		m:       m,
		attrs:   make(map[string]float64),
	}
}

// Drift creates a field-free straight section of the given length.
func Drift(name string, length float64) *Element {
	m := phasespace.Identity()
	m[phasespace.X][phasespace.XP] = length
	m[phasespace.Y][phasespace.YP] = length
	return newElement(name, KeywordDrift, length, m)
}

// Quadrupole creates a thick quadrupole with normalized gradient k1
// (k1 > 0 focuses horizontally).
func Quadrupole(name string, length, k1 float64) *Element {
	m := phasespace.Identity()
	if k1 == 0 {
		m[phasespace.X][phasespace.XP] = length
		m[phasespace.Y][phasespace.YP] = length
		return newElement(name, KeywordQuad, length, m)
	}

	w := math.Sqrt(math.Abs(k1))
	wl := w * length
	cos, sin := math.Cos(wl), math.Sin(wl)
	cosh, sinh := math.Cosh(wl), math.Sinh(wl)

	foc := [2][2]float64{{cos, sin / w}, {-w * sin, cos}}
	defoc := [2][2]float64{{cosh, sinh / w}, {w * sinh, cosh}}
	if k1 < 0 {
		foc, defoc = defoc, foc
	}

	m[phasespace.X][phasespace.X] = foc[0][0]
	m[phasespace.X][phasespace.XP] = foc[0][1]
	m[phasespace.XP][phasespace.X] = foc[1][0]
	m[phasespace.XP][phasespace.XP] = foc[1][1]
	m[phasespace.Y][phasespace.Y] = defoc[0][0]
	m[phasespace.Y][phasespace.YP] = defoc[0][1]
	m[phasespace.YP][phasespace.Y] = defoc[1][0]
	m[phasespace.YP][phasespace.YP] = defoc[1][1]
	return newElement(name, KeywordQuad, length, m)
}

// SectorBend creates a horizontal sector dipole of the given arc length and
// bend angle (radians). The map includes the first-order dispersion terms,
// which is what makes the closed orbit momentum dependent.
func SectorBend(name string, length, angle float64) *Element {
	if angle == 0 {
		e := Drift(name, length)
		e.keyword = KeywordSBend
		e.bend = true
		return e
	}

	rho := length / angle
	cos, sin := math.Cos(angle), math.Sin(angle)

	m := phasespace.Identity()
	m[phasespace.X][phasespace.X] = cos
	m[phasespace.X][phasespace.XP] = rho * sin
	m[phasespace.X][phasespace.DP] = rho * (1 - cos)
	m[phasespace.XP][phasespace.X] = -sin / rho
	m[phasespace.XP][phasespace.XP] = cos
	m[phasespace.XP][phasespace.DP] = sin
	m[phasespace.Y][phasespace.YP] = length
	m[phasespace.CT][phasespace.X] = -sin
	m[phasespace.CT][phasespace.XP] = -rho * (1 - cos)
	m[phasespace.CT][phasespace.DP] = -rho * (angle - sin)

	e := newElement(name, KeywordSBend, length, m)
	e.bend = true
	return e
}

// Marker creates a zero-length identity element.
func Marker(name string) *Element {
	return newElement(name, KeywordMarker, 0, phasespace.Identity())
}

// Monitor creates a zero-length beam position monitor. The tracking engine
// records the reference-particle position into the monitor's X and Y
// attributes as it passes.
func Monitor(name string) *Element {
	return newElement(name, KeywordMonitor, 0, phasespace.Identity())
}

// HCorrector creates a zero-length horizontal steering corrector. Its kick
// angle (radians) is the B0 attribute, adjustable through a RW channel.
func HCorrector(name string) *Element {
	return newElement(name, KeywordXCor, 0, phasespace.Identity())
}

// VCorrector creates a zero-length vertical steering corrector.
func VCorrector(name string) *Element {
	return newElement(name, KeywordYCor, 0, phasespace.Identity())
}

// Name returns the element's name.
func (e *Element) Name() string { return e.name }

// Keyword returns the element's type keyword (DRIFT, QUAD, ...).
func (e *Element) Keyword() string { return e.keyword }

// QualifiedName returns "KEYWORD.NAME".
func (e *Element) QualifiedName() string { return e.keyword + "." + e.name }

// Length returns the element's physical length in metres.
func (e *Element) Length() float64 { return e.length }

// Map returns the element's linear transfer map.
func (e *Element) Map() phasespace.Matrix { return e.m }

// IsBend reports whether the element bends the reference trajectory.
func (e *Element) IsBend() bool { return e.bend }

// LossFactor returns the fractional momentum loss per metre applied when a
// radiation process is active.
func (e *Element) LossFactor() float64 { return e.lossFactor }

// SetLossFactor sets the radiative momentum loss per metre.
func (e *Element) SetLossFactor(f float64) { e.lossFactor = f }

// Attr returns the named attribute value, or zero if unset.
func (e *Element) Attr(key string) float64 { return e.attrs[key] }

// SetAttr sets the named attribute value.
func (e *Element) SetAttr(key string, v float64) { e.attrs[key] = v }

// Apply transports a single particle through the element: the linear map
// plus any additive corrector kick taken from the current attributes.
func (e *Element) Apply(v phasespace.Vector) phasespace.Vector {
	out := e.m.MulVec(v)
	switch e.keyword {
	case KeywordXCor:
		out[phasespace.XP] += e.attrs[AttrField]
	case KeywordYCor:
		out[phasespace.YP] += e.attrs[AttrField]
	}
	return out
}
