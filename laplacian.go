package poissonblend

import (
	"fmt"
	"image"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// 4-neighbor offsets: up, left, right, down. This order keeps CSR columns sorted.
var (
	dx4 = [4]int{0, -1, 1, 0}
	dy4 = [4]int{-1, 0, 0, 1}
)

// Laplacian is the 4-neighbor finite difference operator restricted to the interior of a
// selection, stored in CSR form. Rows of exterior pixels are empty.
type Laplacian struct {
	w, h    int
	indptr  []int
	indices []int
	data    []float64
}

var (
	_ mat.Matrix    = (*Laplacian)(nil)
	_ mat.Symmetric = (*Laplacian)(nil)
)

// BuildLaplacian assembles the operator over the inner (margin-free) region of m.
// Diagonal entries are 4 and each interior neighbor gets -1. Exterior neighbors add nothing;
// their contribution is carried by ComputeBoundary.
func BuildLaplacian(inner image.Point, m *SelectMask) (*Laplacian, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrDimensionMismatch)
	}
	if inner != m.InnerSize() || inner.X <= 0 || inner.Y <= 0 {
		return nil, fmt.Errorf("%w: inner size %v, mask inner size %v", ErrDimensionMismatch, inner, m.InnerSize())
	}
	w, h := inner.X, inner.Y
	n := w * h
	l := &Laplacian{
		w:       w,
		h:       h,
		indptr:  make([]int, n+1),
		indices: make([]int, 0, 5*m.Count()),
		data:    make([]float64, 0, 5*m.Count()),
	}
	for y := range h {
		for x := range w {
			idx := y*w + x
			if m.Inside(x+1, y+1) {
				for k := range 4 {
					if k == 2 {
						l.indices = append(l.indices, idx)
						l.data = append(l.data, 4.0)
					}
					if m.Inside(x+1+dx4[k], y+1+dy4[k]) {
						l.indices = append(l.indices, idx+dy4[k]*w+dx4[k])
						l.data = append(l.data, -1.0)
					}
				}
			}
			l.indptr[idx+1] = len(l.indices)
		}
	}
	return l, nil
}

// Dims returns the matrix dimensions.
func (l *Laplacian) Dims() (r, c int) {
	n := l.w * l.h
	return n, n
}

// SymmetricDim returns the side of the square matrix.
func (l *Laplacian) SymmetricDim() int {
	return l.w * l.h
}

// InnerSize returns the pixel grid the matrix is indexed over.
func (l *Laplacian) InnerSize() image.Point {
	return image.Pt(l.w, l.h)
}

// At returns the element at row i, column j.
func (l *Laplacian) At(i, j int) float64 {
	n := l.w * l.h
	if uint(i) >= uint(n) || uint(j) >= uint(n) {
		panic(mat.ErrIndexOutOfRange)
	}
	cols := l.indices[l.indptr[i]:l.indptr[i+1]]
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return l.data[l.indptr[i]+k]
	}
	return 0
}

// T returns the receiver; the operator is symmetric.
func (l *Laplacian) T() mat.Matrix {
	return l
}

// NNZ returns the number of stored entries.
func (l *Laplacian) NNZ() int {
	return len(l.data)
}

// PopulatedRows returns the number of rows with at least one entry, that is the interior pixels.
func (l *Laplacian) PopulatedRows() int {
	n := 0
	for i := range l.w * l.h {
		if l.indptr[i+1] > l.indptr[i] {
			n++
		}
	}
	return n
}

// Populated reports whether row i carries an equation.
func (l *Laplacian) Populated(i int) bool {
	return l.indptr[i+1] > l.indptr[i]
}

// DoNonZero calls fn for every stored entry in row-major order.
func (l *Laplacian) DoNonZero(fn func(i, j int, v float64)) {
	for i := range l.w * l.h {
		for k := l.indptr[i]; k < l.indptr[i+1]; k++ {
			fn(i, l.indices[k], l.data[k])
		}
	}
}

// MulVecTo computes dst = A*x.
func (l *Laplacian) MulVecTo(dst *mat.VecDense, x mat.Vector) {
	n := l.w * l.h
	if x.Len() != n {
		panic(mat.ErrShape)
	}
	if dst.IsEmpty() {
		dst.ReuseAsVec(n)
	} else if dst.Len() != n {
		panic(mat.ErrShape)
	}
	l.mulRaw(dst.RawVector().Data, dst.RawVector().Inc, x)
}

func (l *Laplacian) mulRaw(dst []float64, inc int, x mat.Vector) {
	if xv, ok := x.(*mat.VecDense); ok && xv.RawVector().Inc == 1 {
		xs := xv.RawVector().Data
		for i := range l.w * l.h {
			sum := 0.0
			for k := l.indptr[i]; k < l.indptr[i+1]; k++ {
				sum += l.data[k] * xs[l.indices[k]]
			}
			dst[i*inc] = sum
		}
		return
	}
	for i := range l.w * l.h {
		sum := 0.0
		for k := l.indptr[i]; k < l.indptr[i+1]; k++ {
			sum += l.data[k] * x.AtVec(l.indices[k])
		}
		dst[i*inc] = sum
	}
}
