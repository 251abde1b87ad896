package poissonblend

import (
	"image"
	"runtime"
)

type Options struct {
	// Relative residual at which the conjugate gradient solve stops: ||b-Ax|| <= Tolerance*||b||.
	// Ideal start: 1e-6. Values above 1e-3 leave visible seams on large selections.
	Tolerance float64
	// Upper bound on solver iterations per channel. 0 picks twice the number of selected pixels (min 500).
	MaxIterations int
	// Worker goroutines in the job pool. One blend request submits 3 channel jobs.
	Workers int
	// Pending job capacity of the pool. Submitting beyond it fails with ErrQueueFull.
	QueueSize int
	// Mixed gradients: per pixel, keep whichever of source/target gradient is sharper.
	Mixed bool
	// Print solver progress.
	Verbose bool
}

func DefaultOptions() Options {
	return Options{
		Tolerance:     1e-6,
		MaxIterations: 0,
		Workers:       max(3, runtime.NumCPU()),
		QueueSize:     64,
		Mixed:         false,
	}
}

// OptionsFromSize tunes the iteration bound to the selection size. CG on a 4-neighbor Laplacian
// needs roughly a few times the selection diameter to converge.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	opt.MaxIterations = max(500, 10*(size.X+size.Y))
	if size.X*size.Y > 1920*1080 {
		opt.Tolerance = 1e-5
	}
	return opt
}

func (o Options) maxIterations(n int) int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return max(500, 2*n)
}

func (o Options) tolerance() float64 {
	if o.Tolerance <= 0 {
		return 1e-6
	}
	return o.Tolerance
}
