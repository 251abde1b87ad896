package poissonblend

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
)

// Flatten returns m in row-major order: v[y*cols+x] = m(y,x).
func Flatten(m *mat.Dense) *mat.VecDense {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for y := range r {
		data = append(data, m.RawRowView(y)...)
	}
	return mat.NewVecDense(r*c, data)
}

// Reshape is the inverse of Flatten for an inner.X × inner.Y grid.
func Reshape(v *mat.VecDense, inner image.Point) (*mat.Dense, error) {
	if inner.X <= 0 || inner.Y <= 0 || v.Len() != inner.X*inner.Y {
		return nil, fmt.Errorf("%w: vector length %d for %v", ErrDimensionMismatch, v.Len(), inner)
	}
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return mat.NewDense(inner.Y, inner.X, data), nil
}

// RestoreMargin places inner at offset (1,1) of a zeroed outer-sized matrix.
func RestoreMargin(inner *mat.Dense, outer image.Point) (*mat.Dense, error) {
	r, c := inner.Dims()
	if r+2 != outer.Y || c+2 != outer.X {
		return nil, fmt.Errorf("%w: inner %dx%d does not fit outer %v with margin", ErrDimensionMismatch, c, r, outer)
	}
	out := mat.NewDense(outer.Y, outer.X, nil)
	out.Slice(1, 1+r, 1, 1+c).(*mat.Dense).Copy(inner)
	return out, nil
}

// ReassembleChannel turns a solution vector back into a channel matrix of the outer size.
func ReassembleChannel(x *mat.VecDense, inner, outer image.Point) (*mat.Dense, error) {
	m, err := Reshape(x, inner)
	if err != nil {
		return nil, err
	}
	return RestoreMargin(m, outer)
}
