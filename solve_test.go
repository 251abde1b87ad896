package poissonblend_test

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	pb "github.com/setanarut/poissonblend"
)

func TestRightHandSide(t *testing.T) {
	b, err := pb.RightHandSide(mat.NewVecDense(3, []float64{1, 2, 3}), mat.NewVecDense(3, []float64{0.5, 0, -1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2, 2}, b.RawVector().Data)

	_, err = pb.RightHandSide(mat.NewVecDense(3, nil), mat.NewVecDense(2, nil))
	assert.True(t, errors.Is(err, pb.ErrDimensionMismatch))
}

func TestSolveChannel_Residual(t *testing.T) {
	m, err := pb.Rasterize(pb.Circle(12, 12, 9, 64))
	require.NoError(t, err)
	l, err := pb.BuildLaplacian(m.InnerSize(), m)
	require.NoError(t, err)

	n := l.SymmetricDim()
	b := mat.NewVecDense(n, nil)
	for i := range n {
		if l.Populated(i) {
			b.SetVec(i, float64(i%7)/7)
		}
	}
	opt := pb.DefaultOptions()
	opt.Tolerance = 1e-10
	sol, err := pb.SolveChannel(l, b, opt)
	require.NoError(t, err)
	assert.LessOrEqual(t, sol.Residual, 1e-10)
	assert.Positive(t, sol.Iterations)

	var ax mat.VecDense
	l.MulVecTo(&ax, sol.X)
	for i := range n {
		if l.Populated(i) {
			assert.InDelta(t, b.AtVec(i), ax.AtVec(i), 1e-8)
		} else {
			assert.Zero(t, sol.X.AtVec(i))
		}
	}
}

func TestSolveChannel_ZeroRHS(t *testing.T) {
	m, err := pb.Rasterize(pb.Rect(image.Rect(0, 0, 3, 3)))
	require.NoError(t, err)
	l, err := pb.BuildLaplacian(m.InnerSize(), m)
	require.NoError(t, err)
	sol, err := pb.SolveChannel(l, mat.NewVecDense(9, nil), pb.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, sol.Iterations)
	assert.Zero(t, mat.Norm(sol.X, 2))
}

func TestSolveChannel_Errors(t *testing.T) {
	m, err := pb.Rasterize(pb.Circle(20, 20, 15, 64))
	require.NoError(t, err)
	l, err := pb.BuildLaplacian(m.InnerSize(), m)
	require.NoError(t, err)
	n := l.SymmetricDim()

	t.Run("Mismatch", func(t *testing.T) {
		_, err := pb.SolveChannel(l, mat.NewVecDense(n+1, nil), pb.DefaultOptions())
		assert.True(t, errors.Is(err, pb.ErrDimensionMismatch))
	})

	t.Run("NotConverged", func(t *testing.T) {
		b := mat.NewVecDense(n, nil)
		for i := range n {
			b.SetVec(i, float64(i%5))
		}
		opt := pb.DefaultOptions()
		opt.MaxIterations = 2
		opt.Tolerance = 1e-12
		_, err := pb.SolveChannel(l, b, opt)
		assert.True(t, errors.Is(err, pb.ErrNotConverged))
	})

	t.Run("Empty", func(t *testing.T) {
		em, err := pb.Rasterize(pb.Path{{0, 0}, {6, 6}, {0, 0.001}, {0, 0}})
		require.NoError(t, err)
		el, err := pb.BuildLaplacian(em.InnerSize(), em)
		require.NoError(t, err)
		_, err = pb.SolveChannel(el, mat.NewVecDense(36, nil), pb.DefaultOptions())
		assert.True(t, errors.Is(err, pb.ErrEmptySelection))
	})
}
