package lattice

// ROChannel is a named read-only scalar parameter of the machine, such as a
// monitor reading.
type ROChannel interface {
	// ID returns the channel identifier in the form "KEYWORD.NAME.KEY".
	ID() string
	// Read returns the current value.
	Read() float64
}

// RWChannel is a named read-write scalar parameter, such as a corrector
// field.
type RWChannel interface {
	ROChannel
	// Write sets the value.
	Write(v float64)
}

// ROChannelArray is an ordered collection of read-only channels.
type ROChannelArray []ROChannel

// ReadAll reads every channel into a new slice, in channel order.
func (a ROChannelArray) ReadAll() []float64 {
	out := make([]float64, len(a))
	for i, ch := range a {
		out[i] = ch.Read()
	}
	return out
}

// RWChannelArray is an ordered collection of read-write channels.
type RWChannelArray []RWChannel

// ReadAll reads every channel into a new slice, in channel order.
func (a RWChannelArray) ReadAll() []float64 {
	out := make([]float64, len(a))
	for i, ch := range a {
		out[i] = ch.Read()
	}
	return out
}

// WriteAll writes vals[i] to channel i. Extra values are ignored; missing
// values leave the channel untouched.
func (a RWChannelArray) WriteAll(vals []float64) {
	for i, ch := range a {
		if i >= len(vals) {
			return
		}
		ch.Write(vals[i])
	}
}

// Increment adds dv to channel i and returns the new value.
func (a RWChannelArray) Increment(i int, dv float64) float64 {
	v := a[i].Read() + dv
	a[i].Write(v)
	return v
}

// attrChannel exposes one element attribute as a channel.
type attrChannel struct {
	elem *Element
	key  string
}

func (c attrChannel) ID() string      { return c.elem.QualifiedName() + "." + c.key }
func (c attrChannel) Read() float64   { return c.elem.Attr(c.key) }
func (c attrChannel) Write(v float64) { c.elem.SetAttr(c.key, v) }
