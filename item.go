package poissonblend

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of one blend request.
type Result struct {
	Generation uint64
	Position   image.Point
	// Image is the blended region with the selection mask as alpha. Nil when Err is set.
	Image      *image.NRGBA
	Channels   Channels
	Iterations [NumChannels]int
	Err        error
}

// Item is a source selection pasted at a position of a target image. Each Blend call starts
// a new generation; results of older generations are dropped when they complete.
type Item struct {
	transfer *Transfer
	pool     *Pool
	opt      Options

	mu         sync.Mutex
	generation uint64
	pos        image.Point
	computing  bool
	result     Result
	hasResult  bool
}

// NewItem wraps a finished transfer. Blend jobs run on pool.
func NewItem(t *Transfer, pool *Pool, opt Options) *Item {
	return &Item{transfer: t, pool: pool, opt: opt}
}

type channelResult struct {
	data       *mat.Dense
	iterations int
	err        error
}

type blendRequest struct {
	item       *Item
	generation uint64
	pos        image.Point
	target     Channels
	mixed      bool
	remaining  atomic.Int32
	slots      [NumChannels]channelResult
	done       chan Result
}

// Blend places the item at pos over target and submits one solve job per channel.
// The target region is read before Blend returns, so later changes to target do not affect
// this request. The returned channel yields one Result, or is closed without a value when a
// newer Blend call superseded the request.
func (it *Item) Blend(target image.Image, pos image.Point, mixed bool) (<-chan Result, error) {
	t := it.transfer
	if t.Empty() {
		return nil, ErrEmptySelection
	}
	region := image.Rectangle{Min: pos, Max: pos.Add(t.Size())}
	if !region.In(target.Bounds()) {
		return nil, fmt.Errorf("%w: %v not inside %v", ErrOutOfBounds, region, target.Bounds())
	}
	req := &blendRequest{
		item:   it,
		pos:    pos,
		target: ImageToChannels(target, region),
		mixed:  mixed,
		done:   make(chan Result, 1),
	}
	req.remaining.Store(NumChannels)
	jobs := make([]func(), NumChannels)
	for c := range NumChannels {
		jobs[c] = func() { req.run(c) }
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	// Jobs finalize under it.mu, so they observe the generation set below.
	req.generation = it.generation + 1
	if err := it.pool.SubmitAll(jobs...); err != nil {
		return nil, err
	}
	it.generation = req.generation
	it.pos = pos
	it.computing = true
	return req.done, nil
}

func (req *blendRequest) run(c int) {
	var res channelResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				res = channelResult{err: fmt.Errorf("poissonblend: channel job panicked: %v", r)}
			}
		}()
		var sol *Solution
		res.data, sol, res.err = req.item.transfer.BlendChannel(c, req.target[c], req.mixed, req.item.opt)
		if sol != nil {
			res.iterations = sol.Iterations
		}
	}()
	req.slots[c] = res
	if req.remaining.Add(-1) == 0 {
		req.item.finish(req)
	}
}

func (it *Item) finish(req *blendRequest) {
	res := Result{Generation: req.generation, Position: req.pos}
	var errs []error
	for c, s := range req.slots {
		if s.err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", c, s.err))
			continue
		}
		res.Channels[c] = s.data
		res.Iterations[c] = s.iterations
	}
	if len(errs) > 0 {
		// A composite with a failed channel is never shown.
		res.Err = errors.Join(errs...)
		res.Channels = Channels{}
	} else {
		res.Image = ChannelsToImage(res.Channels, it.transfer.Mask.Positive)
	}

	it.mu.Lock()
	stale := req.generation != it.generation
	if !stale {
		it.result = res
		it.hasResult = true
		it.computing = false
	}
	it.mu.Unlock()

	if !stale {
		req.done <- res
	}
	close(req.done)
}

// Transfer returns the precomputed selection data.
func (it *Item) Transfer() *Transfer {
	return it.transfer
}

// Position returns the top-left corner of the item's region in target coordinates.
func (it *Item) Position() image.Point {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.pos
}

// Generation returns the generation of the latest submitted request.
func (it *Item) Generation() uint64 {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.generation
}

// Computing reports whether the latest request is still in flight.
func (it *Item) Computing() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.computing
}

// Result returns the latest published result.
func (it *Item) Result() (Result, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.result, it.hasResult
}

// Image returns the blended image when the latest request succeeded, and the masked
// source otherwise.
func (it *Item) Image() *image.NRGBA {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.computing || !it.hasResult || it.result.Err != nil {
		return it.transfer.Placeholder
	}
	return it.result.Image
}
