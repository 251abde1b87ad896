package poissonblend

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
)

// Transfer holds everything derived from a source selection once: its mask, Laplacian and
// source gradients. It is immutable after NewTransfer returns and shared by all blend jobs.
type Transfer struct {
	Path      Path
	Mask      *SelectMask
	Source    Channels
	Laplacian *Laplacian
	Gradients [NumChannels]*mat.VecDense
	// Placeholder is the masked source, shown while no blended result is available.
	Placeholder *image.NRGBA
}

// TransferResult is delivered by SubmitTransfer.
type TransferResult struct {
	Transfer *Transfer
	Err      error
}

// NewTransfer rasterizes path over src and precomputes the data blend jobs consume.
// A selection without interior pixels still yields a Transfer; Empty reports it and
// blending rejects it.
func NewTransfer(src image.Image, path Path) (*Transfer, error) {
	m, err := Rasterize(path)
	if err != nil {
		return nil, err
	}
	source := ImageToChannels(src, m.Bounds)
	lap, err := BuildLaplacian(m.InnerSize(), m)
	if err != nil {
		return nil, err
	}
	t := &Transfer{
		Path:        path,
		Mask:        m,
		Source:      source,
		Laplacian:   lap,
		Placeholder: ChannelsToImage(source.Masked(m.Positive), m.Positive),
	}
	for c := range NumChannels {
		if t.Gradients[c], err = ComputeGradient(source[c], m); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SubmitTransfer runs NewTransfer on the pool. The channel receives exactly one result.
func SubmitTransfer(p *Pool, src image.Image, path Path) (<-chan TransferResult, error) {
	done := make(chan TransferResult, 1)
	err := p.Submit(func() {
		defer close(done)
		var res TransferResult
		defer func() {
			if r := recover(); r != nil {
				res = TransferResult{Err: fmt.Errorf("poissonblend: transfer panicked: %v", r)}
			}
			done <- res
		}()
		res.Transfer, res.Err = NewTransfer(src, path)
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

// Size returns the size of the region the transfer covers, margin included.
func (t *Transfer) Size() image.Point {
	return t.Mask.Size()
}

// Empty reports whether the selection has no interior pixel to solve for.
func (t *Transfer) Empty() bool {
	return t.Laplacian.PopulatedRows() == 0
}

// BlendChannel solves channel c against the target channel matrix, which must cover the
// same region as the mask. With mixed set the target gradient competes with the source one
// per pixel; ties keep the source.
func (t *Transfer) BlendChannel(c int, target *mat.Dense, mixed bool, opt Options) (*mat.Dense, *Solution, error) {
	if c < 0 || c >= NumChannels {
		return nil, nil, fmt.Errorf("%w: channel %d", ErrDimensionMismatch, c)
	}
	if t.Empty() {
		return nil, nil, ErrEmptySelection
	}
	bound, err := ComputeBoundary(target, t.Mask)
	if err != nil {
		return nil, nil, err
	}
	grad := t.Gradients[c]
	if mixed {
		if grad, err = ComputeGradientMixed(target, t.Gradients[c], t.Mask); err != nil {
			return nil, nil, err
		}
	}
	b, err := RightHandSide(grad, bound)
	if err != nil {
		return nil, nil, err
	}
	sol, err := SolveChannel(t.Laplacian, b, opt)
	if err != nil {
		return nil, nil, err
	}
	out, err := ReassembleChannel(sol.X, t.Mask.InnerSize(), t.Mask.Size())
	if err != nil {
		return nil, nil, err
	}
	return out, sol, nil
}

// Blend solves all channels in turn on the calling goroutine.
func (t *Transfer) Blend(target Channels, mixed bool, opt Options) (Channels, error) {
	var out Channels
	var errs []error
	for c := range NumChannels {
		ch, _, err := t.BlendChannel(c, target[c], mixed, opt)
		if err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", c, err))
			continue
		}
		out[c] = ch
	}
	if len(errs) > 0 {
		return Channels{}, errors.Join(errs...)
	}
	return out, nil
}
