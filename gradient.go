package poissonblend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ComputeGradient returns the guidance field of ch over the interior of m: the discrete
// Laplacian 4p - p(x±1) - p(y±1) at every interior pixel, 0 elsewhere. The vector is indexed
// like the Laplacian (row-major over the inner region).
func ComputeGradient(ch *mat.Dense, m *SelectMask) (*mat.VecDense, error) {
	if err := checkChannel(ch, m); err != nil {
		return nil, err
	}
	in := m.InnerSize()
	v := mat.NewVecDense(in.X*in.Y, nil)
	for y := range in.Y {
		for x := range in.X {
			if !m.Inside(x+1, y+1) {
				continue
			}
			v.SetVec(y*in.X+x, laplaceAt(ch, x+1, y+1))
		}
	}
	return v, nil
}

// ComputeGradientMixed computes the guidance field of ch and, per pixel, keeps it only where
// its magnitude is strictly larger than other's. Ties keep other.
func ComputeGradientMixed(ch *mat.Dense, other *mat.VecDense, m *SelectMask) (*mat.VecDense, error) {
	v, err := ComputeGradient(ch, m)
	if err != nil {
		return nil, err
	}
	if other == nil || other.Len() != v.Len() {
		n := 0
		if other != nil {
			n = other.Len()
		}
		return nil, fmt.Errorf("%w: gradient length %d, want %d", ErrDimensionMismatch, n, v.Len())
	}
	for i := range v.Len() {
		o := other.AtVec(i)
		if !(math.Abs(v.AtVec(i)) > math.Abs(o)) {
			v.SetVec(i, o)
		}
	}
	return v, nil
}

// laplaceAt evaluates the 5-point stencil at mask coordinates (x,y).
func laplaceAt(ch *mat.Dense, x, y int) float64 {
	return 4*ch.At(y, x) - ch.At(y, x+1) - ch.At(y, x-1) - ch.At(y+1, x) - ch.At(y-1, x)
}

func checkChannel(ch *mat.Dense, m *SelectMask) error {
	if ch == nil || m == nil {
		return fmt.Errorf("%w: nil channel or mask", ErrDimensionMismatch)
	}
	r, c := ch.Dims()
	if sz := m.Size(); r != sz.Y || c != sz.X {
		return fmt.Errorf("%w: channel %dx%d, mask %dx%d", ErrDimensionMismatch, c, r, sz.X, sz.Y)
	}
	return nil
}
