package phasespace

// Matrix is a dense 6x6 real matrix, used for linear transfer maps.
type Matrix [Dimension][Dimension]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	var m Matrix
	for i := 0; i < Dimension; i++ {
		m[i][i] = 1
	}
	return m
}

// MulVec returns m * v.
func (m Matrix) MulVec(v Vector) Vector {
	var out Vector
	for i := 0; i < Dimension; i++ {
		var s float64
		for j := 0; j < Dimension; j++ {
			s += m[i][j] * v[j]
		}
		out[i] = s
	}
	return out
}

// Mul returns m * n.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < Dimension; i++ {
		for j := 0; j < Dimension; j++ {
			var s float64
			for k := 0; k < Dimension; k++ {
				s += m[i][k] * n[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}
