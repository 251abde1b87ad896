package poissonblend

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/mat"
)

// Point is a boundary vertex in source pixel coordinates. Pixel (x,y) covers [x,x+1)×[y,y+1).
type Point struct {
	X, Y float64
}

// Path is a closed selection outline. The last point is joined to the first when they differ.
type Path []Point

// Bounds returns the bounding rectangle rounded outward to the pixel grid.
func (p Path) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p {
		minX = min(minX, pt.X)
		minY = min(minY, pt.Y)
		maxX = max(maxX, pt.X)
		maxY = max(maxY, pt.Y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// Circle approximates a circle with n vertices, closed.
func Circle(cx, cy, r float64, n int) Path {
	n = max(n, 8)
	out := make(Path, 0, n+1)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		out = append(out, Point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return append(out, out[0])
}

// Rect returns the closed outline of r.
func Rect(r image.Rectangle) Path {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	return Path{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

// SelectMask holds the interior (Positive) and exterior (Negative) rasters of a selection.
// Both are Rows×Cols = bounding rect + 2 in each axis; border cells are always exterior.
type SelectMask struct {
	Positive *mat.Dense
	Negative *mat.Dense
	// Bounds is the expanded bounding rectangle in source coordinates.
	Bounds image.Rectangle
}

// Size returns the mask dimensions including the 1px margin.
func (m *SelectMask) Size() image.Point {
	r, c := m.Positive.Dims()
	return image.Pt(c, r)
}

// InnerSize returns the mask dimensions without the margin.
func (m *SelectMask) InnerSize() image.Point {
	return m.Size().Sub(image.Pt(2, 2))
}

// Inside reports whether mask cell (x,y) is interior.
func (m *SelectMask) Inside(x, y int) bool {
	return m.Positive.At(y, x) != 0
}

// Count returns the number of interior cells.
func (m *SelectMask) Count() int {
	n := 0
	raw := m.Positive.RawMatrix()
	for y := range raw.Rows {
		for _, v := range raw.Data[y*raw.Stride : y*raw.Stride+raw.Cols] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Rasterize converts a closed boundary into interior/exterior masks over its bounding rectangle
// expanded by one pixel. A pixel is interior when at least half of it is covered under the
// nonzero winding rule, which for straight edges is the pixel center test.
func Rasterize(path Path) (*SelectMask, error) {
	if len(path) < 3 {
		return nil, fmt.Errorf("%w: %d points", ErrInvalidSelection, len(path))
	}
	for _, pt := range path {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			return nil, fmt.Errorf("%w: non-finite point %v", ErrInvalidSelection, pt)
		}
	}
	inner := path.Bounds()
	if inner.Empty() {
		return nil, fmt.Errorf("%w: bounding rectangle %v has no area", ErrInvalidSelection, inner)
	}
	outer := inner.Inset(-1)
	w, h := outer.Dx(), outer.Dy()

	// Local coordinates: inner.Min maps to (1,1).
	ox := float64(outer.Min.X)
	oy := float64(outer.Min.Y)
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	z.MoveTo(float32(path[0].X-ox), float32(path[0].Y-oy))
	for _, pt := range path[1:] {
		z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
	}
	z.ClosePath()
	coverage := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})

	pos := mat.NewDense(h, w, nil)
	neg := mat.NewDense(h, w, nil)
	for y := range h {
		for x := range w {
			in := x > 0 && y > 0 && x < w-1 && y < h-1 &&
				coverage.Pix[coverage.PixOffset(x, y)] >= 128
			if in {
				pos.Set(y, x, 1)
			} else {
				neg.Set(y, x, 1)
			}
		}
	}
	return &SelectMask{Positive: pos, Negative: neg, Bounds: outer}, nil
}
