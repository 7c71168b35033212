package closedorbit

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// solvePseudoinverse solves the n-by-n system a*x = b through the SVD
// pseudoinverse: singular values below rcond times the largest are treated
// as zero and their directions dropped from the solution. This keeps the
// Newton update well behaved when the Jacobian is singular along decoupled
// or dispersion-free planes.
//
// deficient reports whether any direction was dropped.
func solvePseudoinverse(a []float64, b []float64, n int, rcond float64) (x []float64, deficient bool, err error) {
	var svd mat.SVD
	if ok := svd.Factorize(mat.NewDense(n, n, a), mat.SVDFull); !ok {
		return nil, false, errors.New("closedorbit: svd factorization failed")
	}

	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	x = make([]float64, n)
	if s[0] == 0 {
		// Zero Jacobian: the pseudoinverse solution is the zero update.
		return x, true, nil
	}

	cutoff := rcond * s[0]
	tmp := make([]float64, n)
	for j := 0; j < n; j++ {
		if s[j] <= cutoff {
			deficient = true
			continue
		}
		var dot float64
		for i := 0; i < n; i++ {
			dot += u.At(i, j) * b[i]
		}
		tmp[j] = dot / s[j]
	}

	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += v.At(i, j) * tmp[j]
		}
		x[i] = sum
	}
	return x, deficient, nil
}
