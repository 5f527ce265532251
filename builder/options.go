package builder

// Option configures a Builder during creation.
type Option func(*options)

type options struct {
	subpixelAccumulation bool
	verify               func([]Change)
}

func defaultOptions() options {
	return options{subpixelAccumulation: true}
}

// WithSubpixelAccumulation controls whether the fractional remainder of a
// snapped paint offset is carried into descendants. Enabled by default.
// When disabled the remainder is dropped.
func WithSubpixelAccumulation(enabled bool) Option {
	return func(o *options) {
		o.subpixelAccumulation = enabled
	}
}

// WithVerifier snapshots the frame before every UpdateFrame and reports
// the node changes the pass made to fn. Intended for tests and debugging
// unexpected invalidations.
func WithVerifier(fn func([]Change)) Option {
	return func(o *options) {
		o.verify = fn
	}
}
