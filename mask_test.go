package poissonblend_test

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "github.com/setanarut/poissonblend"
)

func TestRasterize_Errors(t *testing.T) {
	cases := []struct {
		name string
		path pb.Path
	}{
		{"Empty", nil},
		{"TwoPoints", pb.Path{{0, 0}, {3, 3}}},
		{"ZeroWidth", pb.Path{{2, 0}, {2, 5}, {2, 3}, {2, 0}}},
		{"NaN", pb.Path{{0, 0}, {math.NaN(), 1}, {3, 3}, {0, 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pb.Rasterize(tc.path)
			if !errors.Is(err, pb.ErrInvalidSelection) {
				t.Errorf("Rasterize(%v) error = %v; want %v", tc.path, err, pb.ErrInvalidSelection)
			}
		})
	}
}

func TestRasterize_Rect(t *testing.T) {
	m, err := pb.Rasterize(pb.Rect(image.Rect(10, 20, 14, 23)))
	require.NoError(t, err)

	assert.Equal(t, image.Pt(6, 5), m.Size())
	assert.Equal(t, image.Pt(4, 3), m.InnerSize())
	assert.Equal(t, image.Rect(9, 19, 15, 24), m.Bounds)
	assert.Equal(t, 12, m.Count())
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 4; x++ {
			assert.True(t, m.Inside(x, y), "cell (%d,%d)", x, y)
		}
	}
}

func TestRasterize_MaskInvariants(t *testing.T) {
	paths := map[string]pb.Path{
		"Circle":   pb.Circle(10.3, 7.8, 5, 48),
		"Triangle": {{0, 0}, {12, 1}, {3, 9}, {0, 0}},
		"Bowtie":   {{0, 0}, {8, 8}, {8, 0}, {0, 8}, {0, 0}},
	}
	for name, p := range paths {
		t.Run(name, func(t *testing.T) {
			m, err := pb.Rasterize(p)
			require.NoError(t, err)
			sz := m.Size()
			b := p.Bounds()
			assert.Equal(t, b.Dx()+2, sz.X)
			assert.Equal(t, b.Dy()+2, sz.Y)
			for y := range sz.Y {
				for x := range sz.X {
					pos, neg := m.Positive.At(y, x), m.Negative.At(y, x)
					assert.Equal(t, 1.0, pos+neg, "cell (%d,%d)", x, y)
					if x == 0 || y == 0 || x == sz.X-1 || y == sz.Y-1 {
						assert.Zero(t, pos, "margin cell (%d,%d)", x, y)
					}
				}
			}
			assert.Positive(t, m.Count())
		})
	}
}

func TestRasterize_CircleArea(t *testing.T) {
	m, err := pb.Rasterize(pb.Circle(20, 20, 5, 128))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi*25, float64(m.Count()), 8)
	// Center is inside, corners of the bounding box are not.
	c := m.Size().Div(2)
	assert.True(t, m.Inside(c.X, c.Y))
	assert.False(t, m.Inside(1, 1))
}

func TestRasterize_Collinear(t *testing.T) {
	// A diagonal sliver has an area-bearing bounding box but no interior pixel.
	m, err := pb.Rasterize(pb.Path{{0, 0}, {6, 6}, {0, 0.001}, {0, 0}})
	require.NoError(t, err)
	assert.Zero(t, m.Count())
}
