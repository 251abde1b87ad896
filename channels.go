package poissonblend

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

const (
	Red = iota
	Green
	Blue
	NumChannels
)

// Channels holds the R, G and B planes of an image region as [0,1] matrices.
type Channels [NumChannels]*mat.Dense

// ImageToChannels splits region r of img into channel matrices of r's size.
// Pixels of r outside img repeat the nearest edge pixel. Fully transparent pixels read as 0.
func ImageToChannels(img image.Image, r image.Rectangle) Channels {
	w, h := r.Dx(), r.Dy()
	var ch Channels
	for c := range NumChannels {
		ch[c] = mat.NewDense(h, w, nil)
	}
	b := img.Bounds()
	for y := range h {
		for x := range w {
			p := image.Pt(r.Min.X+x, r.Min.Y+y)
			if b.Empty() {
				continue
			}
			p.X = max(b.Min.X, min(b.Max.X-1, p.X))
			p.Y = max(b.Min.Y, min(b.Max.Y-1, p.Y))
			col, ok := colorful.MakeColor(img.At(p.X, p.Y))
			if !ok {
				continue
			}
			ch[Red].Set(y, x, col.R)
			ch[Green].Set(y, x, col.G)
			ch[Blue].Set(y, x, col.B)
		}
	}
	return ch
}

// Size returns the region size the channels cover.
func (ch Channels) Size() image.Point {
	r, c := ch[Red].Dims()
	return image.Pt(c, r)
}

// Masked returns the channels multiplied elementwise by alpha.
func (ch Channels) Masked(alpha *mat.Dense) Channels {
	var out Channels
	for c := range NumChannels {
		out[c] = new(mat.Dense)
		out[c].MulElem(ch[c], alpha)
	}
	return out
}

// ChannelsToImage packs the channels into an NRGBA image. Values are clamped to [0,1].
// A nil alpha yields an opaque image; otherwise alpha (in [0,1]) becomes the alpha channel.
func ChannelsToImage(ch Channels, alpha *mat.Dense) *image.NRGBA {
	sz := ch.Size()
	img := image.NewNRGBA(image.Rect(0, 0, sz.X, sz.Y))
	for y := range sz.Y {
		for x := range sz.X {
			r, g, b := colorful.Color{
				R: ch[Red].At(y, x),
				G: ch[Green].At(y, x),
				B: ch[Blue].At(y, x),
			}.Clamped().RGB255()
			a := uint8(255)
			if alpha != nil {
				a = uint8(max(0, min(255, alpha.At(y, x)*255+0.5)))
			}
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}
