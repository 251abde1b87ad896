package poissonblend

import (
	"gonum.org/v1/gonum/mat"
)

// ComputeBoundary returns, for each interior pixel of m, the sum of the target values of its
// exterior 4-neighbors. Pixels without an exterior neighbor get 0.
func ComputeBoundary(target *mat.Dense, m *SelectMask) (*mat.VecDense, error) {
	if err := checkChannel(target, m); err != nil {
		return nil, err
	}
	var neg mat.Dense
	neg.MulElem(target, m.Negative)

	in := m.InnerSize()
	b := mat.NewVecDense(in.X*in.Y, nil)
	for y := range in.Y {
		for x := range in.X {
			mx, my := x+1, y+1
			if !m.Inside(mx, my) {
				continue
			}
			sum := 0.0
			for k := range 4 {
				sum += neg.At(my+dy4[k], mx+dx4[k])
			}
			b.SetVec(y*in.X+x, sum)
		}
	}
	return b, nil
}
