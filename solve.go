package poissonblend

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solution is the result of one channel solve.
type Solution struct {
	X          *mat.VecDense
	Iterations int
	// Residual is ||b-Ax|| / ||b|| at exit.
	Residual float64
}

// RightHandSide returns grad + bound.
func RightHandSide(grad, bound *mat.VecDense) (*mat.VecDense, error) {
	if grad == nil || bound == nil || grad.Len() != bound.Len() {
		return nil, fmt.Errorf("%w: gradient and boundary vectors differ in length", ErrDimensionMismatch)
	}
	b := mat.NewVecDense(grad.Len(), nil)
	b.AddVec(grad, bound)
	return b, nil
}

// SolveChannel solves A x = b with conjugate gradients. Entries of b on rows the Laplacian
// leaves empty (exterior pixels) are ignored and the matching entries of x are 0.
// Failing to reach opt.Tolerance within the iteration bound returns ErrNotConverged.
func SolveChannel(a *Laplacian, b *mat.VecDense, opt Options) (*Solution, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil system", ErrDimensionMismatch)
	}
	n := a.SymmetricDim()
	if b.Len() != n {
		return nil, fmt.Errorf("%w: rhs length %d, system dimension %d", ErrDimensionMismatch, b.Len(), n)
	}
	eqs := a.PopulatedRows()
	if eqs == 0 {
		return nil, ErrEmptySelection
	}

	x := make([]float64, n)
	r := make([]float64, n)
	for i := range n {
		if a.Populated(i) {
			r[i] = b.AtVec(i)
		}
	}
	bnorm := floats.Norm(r, 2)
	if bnorm == 0 {
		return &Solution{X: mat.NewVecDense(n, x)}, nil
	}

	p := make([]float64, n)
	copy(p, r)
	ap := make([]float64, n)
	pv := mat.NewVecDense(n, p)
	apv := mat.NewVecDense(n, ap)

	tol := opt.tolerance() * bnorm
	maxIt := opt.maxIterations(eqs)
	rr := floats.Dot(r, r)
	res := math.Sqrt(rr)
	for it := 1; it <= maxIt; it++ {
		a.MulVecTo(apv, pv)
		pAp := floats.Dot(p, ap)
		if !(pAp > 0) {
			break
		}
		alpha := rr / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		rrNew := floats.Dot(r, r)
		res = math.Sqrt(rrNew)

		if opt.Verbose && (it == 1 || it%100 == 0) {
			log.Printf("   cg iter %d/%d residual=%.3e\n", it, maxIt, res/bnorm)
		}
		if res <= tol {
			return &Solution{X: mat.NewVecDense(n, x), Iterations: it, Residual: res / bnorm}, nil
		}
		floats.AddScaledTo(p, r, rrNew/rr, p)
		rr = rrNew
	}
	return nil, fmt.Errorf("%w: residual %.3e after %d iterations (tolerance %.1e)",
		ErrNotConverged, res/bnorm, maxIt, opt.tolerance())
}
