package poissonblend

import (
	"image"
	"slices"
	"sync"

	"golang.org/x/image/draw"
)

// Scene is the set of items pasted onto one target image, in stacking order.
// Every item is blended against the unmodified target.
type Scene struct {
	target image.Image
	pool   *Pool
	opt    Options

	mu    sync.Mutex
	items []*Item
	mixed bool
}

func NewScene(target image.Image, pool *Pool, opt Options) *Scene {
	return &Scene{target: target, pool: pool, opt: opt, mixed: opt.Mixed}
}

// Target returns the image items are blended against.
func (s *Scene) Target() image.Image {
	return s.target
}

// ClampPosition moves a region of the given size at pos so that it stays inside the target.
func (s *Scene) ClampPosition(size, pos image.Point) image.Point {
	b := s.target.Bounds()
	pos.X = max(b.Min.X, min(pos.X, b.Max.X-size.X))
	pos.Y = max(b.Min.Y, min(pos.Y, b.Max.Y-size.Y))
	return pos
}

// Paste adds a new item for t at pos (clamped into the target) and starts blending it.
// Selections without interior pixels are rejected before anything is added.
func (s *Scene) Paste(t *Transfer, pos image.Point) (*Item, <-chan Result, error) {
	if t.Empty() {
		return nil, nil, ErrEmptySelection
	}
	it := NewItem(t, s.pool, s.opt)
	s.mu.Lock()
	mixed := s.mixed
	s.mu.Unlock()
	done, err := it.Blend(s.target, s.ClampPosition(t.Size(), pos), mixed)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
	return it, done, nil
}

// Move re-blends it at pos (clamped into the target). Results still in flight for the
// previous position are discarded.
func (s *Scene) Move(it *Item, pos image.Point) (<-chan Result, error) {
	s.mu.Lock()
	known := slices.Contains(s.items, it)
	mixed := s.mixed
	s.mu.Unlock()
	if !known {
		return nil, ErrUnknownItem
	}
	return it.Blend(s.target, s.ClampPosition(it.Transfer().Size(), pos), mixed)
}

// Remove drops it from the scene.
func (s *Scene) Remove(it *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.items, it)
	if i < 0 {
		return ErrUnknownItem
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// Items returns the items bottom to top.
func (s *Scene) Items() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Mixed reports whether mixed gradients are enabled.
func (s *Scene) Mixed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixed
}

// SetMixedBlending switches the gradient mode and re-blends every item in place.
// The returned channels follow the order of Items.
func (s *Scene) SetMixedBlending(en bool) ([]<-chan Result, error) {
	s.mu.Lock()
	s.mixed = en
	items := slices.Clone(s.items)
	s.mu.Unlock()

	out := make([]<-chan Result, 0, len(items))
	for _, it := range items {
		done, err := it.Blend(s.target, it.Position(), en)
		if err != nil {
			return out, err
		}
		out = append(out, done)
	}
	return out, nil
}

// Composite draws every item's current image over a copy of the target. Only selected pixels
// are painted since the item images carry the selection mask as alpha.
func (s *Scene) Composite() *image.NRGBA {
	b := s.target.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, s.target, b.Min, draw.Src)
	for _, it := range s.Items() {
		img := it.Image()
		r := img.Bounds().Sub(img.Bounds().Min).Add(it.Position())
		draw.Draw(dst, r, img, img.Bounds().Min, draw.Over)
	}
	return dst
}
