package poissonblend

import "errors"

var (
	// ErrInvalidSelection indicates an empty path or one whose bounding rectangle has no area.
	ErrInvalidSelection = errors.New("poissonblend: selection path is empty or degenerate")
	// ErrEmptySelection indicates a mask without a single interior pixel.
	ErrEmptySelection = errors.New("poissonblend: selection has no interior pixels")
	// ErrOutOfBounds indicates a placement whose expanded rectangle leaves the target image.
	ErrOutOfBounds = errors.New("poissonblend: selection exceeds target image bounds")
	// ErrDimensionMismatch indicates matrices or vectors of inconsistent sizes.
	ErrDimensionMismatch = errors.New("poissonblend: dimension mismatch")
	// ErrNotConverged indicates the solver hit its iteration bound above tolerance.
	ErrNotConverged = errors.New("poissonblend: solver did not converge")
	// ErrQueueFull indicates the worker pool cannot accept more jobs right now.
	ErrQueueFull = errors.New("poissonblend: job queue is full")
	// ErrPoolClosed indicates a submission after Close.
	ErrPoolClosed = errors.New("poissonblend: pool is closed")
	// ErrUnknownItem indicates an item that is not registered in the scene.
	ErrUnknownItem = errors.New("poissonblend: item is not part of the scene")
)
