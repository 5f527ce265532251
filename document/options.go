package document

import (
	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

// Option configures Load.
type Option func(*options)

type options struct {
	viewport  proptree.Size
	settings  layout.Settings
	scrollbar float64
	strict    bool
}

func defaultOptions() options {
	return options{
		viewport:  proptree.Sz(800, 600),
		scrollbar: 15,
	}
}

// WithViewport sets the frame viewport size. The default is 800x600.
func WithViewport(w, h float64) Option {
	return func(o *options) {
		o.viewport = proptree.Sz(w, h)
	}
}

// WithSettings sets the frame settings.
func WithSettings(s layout.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithScrollbarThickness sets the thickness of the scrollbars shown by
// overflow:scroll boxes. The default is 15. Zero gives overlay scrollbars
// that take no layout space.
func WithScrollbarThickness(t float64) Option {
	return func(o *options) {
		o.scrollbar = max(t, 0)
	}
}

// WithStrict makes Load fail on CSS it cannot parse instead of logging and
// ignoring the declaration.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}
